package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
	"github.com/rocketscienceinc/gomoku-backend/transport/rest"
	"github.com/rocketscienceinc/gomoku-backend/transport/websocket"
)

// RunApp connects storage and serves the REST API and the play socket until
// SIGINT/SIGTERM or until one of the servers fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}()

	matchRepo := repository.NewMatchRepository(client)
	gameManager := usecase.NewGameManager(
		logger.With("component", "game_manager"),
		repository.NewSessionRepository(client),
		matchRepo,
		conf.Game.BoardSize,
		conf.Game.MaxIllegalRetries,
		conf.Game.DefaultOpponent,
	)
	socket := websocket.New(logger, gameManager, conf.AllowedOrigins)

	serverErr := make(chan error, 2)
	serve := func(name, port string, run func() error) {
		log.Info("starting server", "server", name, "port", port)

		if err := run(); err != nil {
			serverErr <- fmt.Errorf("%s server: %w", name, err)
		}
	}

	go serve("http", conf.HTTPPort, func() error {
		return rest.Start(ctx, logger, conf.HTTPPort, matchRepo)
	})
	go serve("websocket", conf.SocketPort, func() error {
		return socket.Start(ctx, conf.SocketPort)
	})

	select {
	case err = <-serverErr:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return nil
	}
}
