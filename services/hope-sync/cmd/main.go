package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/config"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/handler"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/repository"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/usecase"
	"github.com/vasapolrittideah/hope-sync-api/shared/auth"
	"github.com/vasapolrittideah/hope-sync-api/shared/logger"
	"github.com/vasapolrittideah/hope-sync-api/shared/mailer"
	"github.com/vasapolrittideah/hope-sync-api/shared/security"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New("production")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.AppEnv)

	connectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	db, err := repository.Connect(connectCtx, log, cfg.Mongo.URI, cfg.Mongo.Database)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	router, err := buildRouter(cfg, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down http server")
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to disconnect from MongoDB")
	}

	log.Info().Msg("server stopped")
}

func buildRouter(cfg *config.ServiceConfig, db *repository.Database, log *zerolog.Logger) (http.Handler, error) {
	hasher, err := security.NewPasswordHasher(cfg.Password.Algorithm, cfg.Password.BcryptCost)
	if err != nil {
		return nil, err
	}

	jwtAuth := auth.NewJWTAuthenticator(
		cfg.Token.Secret,
		cfg.Token.Issuer,
		time.Duration(cfg.Token.ExpiresIn),
	)
	log.Info().Dur("token_ttl", jwtAuth.ExpiresIn()).Msg("access tokens configured")

	var welcomeMailer usecase.WelcomeMailer
	if m := mailer.NewMailer(log); m != nil {
		welcomeMailer = m
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	mongoDB := db.Database()
	userRepo := repository.NewUserMongoRepository(indexCtx, log, mongoDB)

	if cfg.RequireAuth {
		log.Info().Msg("bearer tokens are required on content write routes")
	}

	return handler.NewRouter(handler.RouterParams{
		Logger:       log,
		AuthUsecase:  usecase.NewAuthUsecase(userRepo, hasher, jwtAuth, welcomeMailer, log),
		Donations:    usecase.NewDocumentUsecase(repository.NewDocumentMongoRepository(mongoDB, repository.DonationCollection)),
		Comments:     usecase.NewDocumentUsecase(repository.NewDocumentMongoRepository(mongoDB, repository.CommentCollection)),
		Testimonials: usecase.NewDocumentUsecase(repository.NewDocumentMongoRepository(mongoDB, repository.TestimonialCollection)),
		Volunteers:   usecase.NewDocumentUsecase(repository.NewDocumentMongoRepository(mongoDB, repository.VolunteerCollection)),
		RequireAuth:  cfg.RequireAuth,
		Tokens:       jwtAuth,
	}), nil
}
