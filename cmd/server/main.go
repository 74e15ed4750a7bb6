package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/container"
	"github.com/Hazher89/driftpro-admin-complete/internal/server"
)

func main() {
	app := fx.New(
		container.Module,
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, srv *server.Server) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.Printf("Starting DriftPro admin server on %s:%s", cfg.Server.Host, cfg.Server.Port)

					go func() {
						if err := srv.Start(context.Background()); err != nil {
							log.Printf("Server error: %v", err)
						}
					}()

					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.Println("Shutting down DriftPro admin server")
					return srv.Stop()
				},
			})
		}),
	)

	app.Run()
}
