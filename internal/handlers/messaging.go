package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// MessagingHandler handles notification and chat endpoints, including the
// server-sent event streams backed by Redis pub/sub.
type MessagingHandler struct {
	logger          *logger.Logger
	notificationSvc services.NotificationService
	chatSvc         services.ChatService
	authMw          *middleware.AuthenticationMiddleware
}

// NewMessagingHandler creates a new messaging handler
func NewMessagingHandler(
	logger *logger.Logger,
	notificationSvc services.NotificationService,
	chatSvc services.ChatService,
	authMw *middleware.AuthenticationMiddleware,
) *MessagingHandler {
	return &MessagingHandler{
		logger:          logger,
		notificationSvc: notificationSvc,
		chatSvc:         chatSvc,
		authMw:          authMw,
	}
}

// RegisterRoutes registers messaging routes on the router
func (h *MessagingHandler) RegisterRoutes(router *mux.Router) {
	router.Use(h.authMw.RequireSession())

	company := router.PathPrefix("/companies/{companyId}").Subrouter()
	company.Use(h.authMw.RequireCompanyAccess())

	company.HandleFunc("/notifications", h.SendNotification).Methods("POST")
	company.HandleFunc("/notifications", h.ListNotifications).Methods("GET")
	company.HandleFunc("/notifications/stream", h.StreamNotifications).Methods("GET")

	company.HandleFunc("/chat/messages", h.SendChatMessage).Methods("POST")
	company.HandleFunc("/chat/messages", h.GetChatHistory).Methods("GET")
	company.HandleFunc("/chat/stream", h.StreamChat).Methods("GET")

	router.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods("POST")
	router.HandleFunc("/notifications/{id}", h.DeleteNotification).Methods("DELETE")
}

// Notification handlers

func (h *MessagingHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	var notification models.Notification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	notification.CompanyID = companyID

	if err := h.notificationSvc.Notify(r.Context(), &notification); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, notification)
}

// ListNotifications returns the caller's notifications, newest first
func (h *MessagingHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	limit, _ := parsePaginationParams(r)
	notifications, err := h.notificationSvc.GetNotifications(r.Context(), companyID, session.UserID(), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, notifications)
}

func (h *MessagingHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.requireOwnNotification(r, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.notificationSvc.MarkRead(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Notification marked read"})
}

func (h *MessagingHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.requireOwnNotification(r, id); err != nil {
		// A repeated delete of a missing id still succeeds
		if services.IsNotFound(err) {
			writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
			return
		}
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.notificationSvc.DeleteNotification(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}

// requireOwnNotification verifies that the notification exists and is
// addressed to the session user within their own tenant. Notifications are
// personal, so not even a manager may touch someone else's.
func (h *MessagingHandler) requireOwnNotification(r *http.Request, id string) error {
	session := middleware.GetSessionFromContext(r.Context())
	if !session.IsAuthenticated() {
		return services.ErrNoSession
	}

	notification, err := h.notificationSvc.GetNotification(r.Context(), id)
	if err != nil {
		return err
	}

	user := session.CurrentUser
	if notification.CompanyID != user.CompanyID || notification.UserID != user.ID {
		h.logger.WithUser(user.ID).
			WithField("notification_id", id).
			Warn("Denied access to another user's notification")
		return services.ErrUnauthorized
	}
	return nil
}

// StreamNotifications pushes the caller's notifications as server-sent
// events until the client disconnects.
func (h *MessagingHandler) StreamNotifications(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	subscription, err := h.notificationSvc.Subscribe(r.Context(), companyID, session.UserID())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	defer subscription.Close()

	h.streamEvents(w, r, subscription)
}

// Chat handlers

func (h *MessagingHandler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var message models.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	message.CompanyID = companyID
	message.SenderID = session.UserID()
	if user := session.CurrentUser; user != nil {
		message.SenderName = user.FullName()
	}

	if err := h.chatSvc.SendMessage(r.Context(), &message); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, message)
}

func (h *MessagingHandler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]
	limit, offset := parsePaginationParams(r)

	messages, err := h.chatSvc.GetHistory(r.Context(), companyID, limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messages)
}

// StreamChat pushes the company chat channel as server-sent events
func (h *MessagingHandler) StreamChat(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	subscription, err := h.chatSvc.Subscribe(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	defer subscription.Close()

	h.streamEvents(w, r, subscription)
}

// streamEvents writes subscription payloads in SSE framing until the client
// goes away or the subscription closes.
func (h *MessagingHandler) streamEvents(w http.ResponseWriter, r *http.Request, subscription *services.Subscription) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorResponse(w, nil, http.StatusInternalServerError, "Streaming unsupported", nil)
		return
	}

	// Streams outlive the server's write timeout, so clear the deadline for
	// this response.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.WithError(err).Debug("Could not clear write deadline for event stream")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, open := <-subscription.Events():
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
