package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	v1 "youchat/cmd/api/router/v1"
	"youchat/internal/config"
	"youchat/internal/infrastructure/database"
	"youchat/internal/infrastructure/mail"
	queueAdapter "youchat/internal/infrastructure/queue/adapter"
	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/chat/call"
	"youchat/internal/pkg/mfa"
	"youchat/internal/pkg/state"
	stateAdapter "youchat/internal/pkg/state/persistence/adapter"
	"youchat/internal/pkg/user/auth"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DBURL)
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	repo := stateAdapter.NewPgStateRepository(pool)
	if err := repo.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare state table")
	}
	doc, err := repo.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load state snapshot")
	}

	store := state.NewStore(doc, log)
	coalescer := state.NewCoalescer(repo, store.Snapshot, log)
	store.AttachSaver(coalescer)

	rt := realtime.NewRouter()
	calls := call.NewTracker()

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)

	// Codes go through the background queue when Redis is reachable;
	// otherwise delivery happens inline on the login request.
	var dispatcher mfa.Dispatcher = mfa.NewDirectDispatcher(mailer)
	queueClient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("queue unavailable, delivering mail inline")
	} else {
		defer queueClient.Close()
		dispatcher = mfa.NewQueueDispatcher(queueClient)

		queueServer, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.QueueConcurrency, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start queue server")
		}
		mfa.RegisterSendCodeTask(queueServer, mailer)
		go func() {
			if err := queueServer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("queue server stopped")
			}
		}()
	}

	challenges := mfa.NewStore(store, dispatcher, log)
	sweeperStop := make(chan struct{})
	challenges.StartSweeper(sweeperStop, mfa.DefaultSweepInterval)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewAuthenticator(tokens, store)

	engine := gin.New()
	engine.Use(gin.Recovery())
	v1.RegisterRoutes(engine, v1.Deps{
		Store:         store,
		Router:        rt,
		Calls:         calls,
		Challenges:    challenges,
		Tokens:        tokens,
		Authenticator: authenticator,
		UploadDir:     cfg.UploadDir,
		MfaDebugEcho:  cfg.MfaDebugEcho,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: engine}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	close(sweeperStop)
	rt.Close()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// Flush the trailing snapshot write before closing the pool.
	coalescer.Wait()
}
