// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/deadserious/poker/internal/config"
	"github.com/deadserious/poker/internal/game"
	"github.com/deadserious/poker/internal/handlers"
	"github.com/deadserious/poker/internal/middleware"
	"github.com/deadserious/poker/internal/postoffice"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)

	post := postoffice.New()
	engine := game.NewEngine(post, cfg)

	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(logger)

	mux.Handle("/auth", logged(handlers.SigninHandler()))

	// lobby endpoints
	mux.Handle("/lobby/list", logged(handlers.ListLobbiesHandler(engine)))
	mux.Handle("/lobby/create", logged(handlers.CreateLobbyHandler(engine)))
	mux.Handle("/lobby/join", logged(handlers.JoinLobbyHandler(engine)))
	mux.Handle("/lobby/leave", logged(handlers.LeaveLobbyHandler(engine)))
	mux.Handle("/lobby/finish", logged(handlers.FinishLobbyHandler(engine)))
	mux.Handle("/lobby/users", logged(handlers.LobbyUsersHandler(engine)))
	mux.Handle("/lobby", logged(handlers.GetLobbyHandler(engine)))

	// story endpoints
	mux.Handle("/lobby/story/start", logged(handlers.StartStoryHandler(engine)))
	mux.Handle("/lobby/vote", logged(handlers.VoteHandler(engine)))

	// live updates
	mux.Handle("/lobby/events", logged(handlers.LobbyEventsHandler(logger, engine, post)))
	mux.Handle("/dashboard/events", logged(handlers.DashboardEventsHandler(logger, post)))
	mux.Handle("/lobby/ws", logged(handlers.LobbyWSHandler(logger, engine, post)))

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		logger.Infof("serving http at http://localhost%s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
