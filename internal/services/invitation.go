package services

import (
	"context"
	"sync"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// InvitationDispatcher drains the backlog of admin invitations whose email
// has not been sent yet. A poller feeds a bounded queue and a pool of
// workers hands each invitation to the EmailSender, recording the outcome
// on the invitation row.
type InvitationDispatcher struct {
	logger         *logger.Logger
	invitationRepo repositories.InvitationRepository
	sender         EmailSender
	workers        int
	queue          chan *models.Invitation
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

// NewInvitationDispatcher creates a new invitation dispatcher
func NewInvitationDispatcher(
	logger *logger.Logger,
	cfg *config.Config,
	invitationRepo repositories.InvitationRepository,
	sender EmailSender,
) *InvitationDispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	workers := cfg.InvitationJob.Workers
	if workers <= 0 {
		workers = 1
	}
	queueSize := cfg.InvitationJob.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	return &InvitationDispatcher{
		logger:         logger,
		invitationRepo: invitationRepo,
		sender:         sender,
		workers:        workers,
		queue:          make(chan *models.Invitation, queueSize),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start launches the poller and the worker pool
func (d *InvitationDispatcher) Start() {
	d.logger.WithField("workers", d.workers).Info("Starting invitation dispatcher")

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.wg.Add(1)
	go d.poller()
}

// Stop drains and stops the dispatcher
func (d *InvitationDispatcher) Stop() {
	d.logger.Info("Stopping invitation dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("Invitation dispatcher stopped")
}

// poller periodically loads unsent invitations and feeds the queue
func (d *InvitationDispatcher) poller() {
	defer d.wg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	// Pick up the backlog immediately on start
	d.enqueueUnsent()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.enqueueUnsent()
		}
	}
}

func (d *InvitationDispatcher) enqueueUnsent() {
	invitations, err := d.invitationRepo.GetUnsent(d.ctx, cap(d.queue))
	if err != nil {
		d.logger.WithError(err).Warn("Failed to load unsent invitations")
		return
	}

	for _, invitation := range invitations {
		select {
		case d.queue <- invitation:
		case <-d.ctx.Done():
			return
		default:
			// Queue full; the next poll will pick the rest up
			return
		}
	}
}

// worker dispatches queued invitations
func (d *InvitationDispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case invitation := <-d.queue:
			d.dispatch(invitation)
		}
	}
}

func (d *InvitationDispatcher) dispatch(invitation *models.Invitation) {
	if invitation.EmailSent {
		return
	}
	if !invitation.ExpiresAt.IsZero() && time.Now().After(invitation.ExpiresAt) {
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, 30*time.Second)
	defer cancel()

	err := d.sender.SendInvitation(ctx, invitation)
	if err != nil {
		invitation.EmailError = err.Error()
		d.logger.WithCompany(invitation.CompanyID).
			WithField("invitation_id", invitation.ID).
			WithError(err).Warn("Failed to send invitation email")
	} else {
		now := time.Now()
		invitation.EmailSent = true
		invitation.EmailSentAt = &now
		invitation.EmailError = ""
		d.logger.WithCompany(invitation.CompanyID).
			WithField("invitation_id", invitation.ID).
			Info("Invitation email sent")
	}

	if updateErr := d.invitationRepo.Update(ctx, invitation); updateErr != nil {
		d.logger.WithField("invitation_id", invitation.ID).
			WithError(updateErr).Warn("Failed to record invitation outcome")
	}
}

// logEmailSender is the default sender. It records the invitation in the
// log; wiring an SMTP provider replaces it in the container.
type logEmailSender struct {
	logger *logger.Logger
}

// NewLogEmailSender creates a sender that only logs
func NewLogEmailSender(logger *logger.Logger) EmailSender {
	return &logEmailSender{logger: logger}
}

func (s *logEmailSender) SendInvitation(ctx context.Context, invitation *models.Invitation) error {
	s.logger.WithField("admin_email", invitation.AdminEmail).
		WithField("company_name", invitation.CompanyName).
		WithField("invitation_link", invitation.InvitationLink).
		Info("Invitation email dispatched")
	return nil
}
