package cli

import (
	"context"
	"fmt"

	"github.com/dtroode/musehabit-server/internal/config"
	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/mail"
	"github.com/dtroode/musehabit-server/internal/model"
	"github.com/dtroode/musehabit-server/internal/notify"
	"github.com/dtroode/musehabit-server/internal/repository/postgres"
	"github.com/dtroode/musehabit-server/internal/service"
	storage "github.com/dtroode/musehabit-server/internal/storage/minio"
	"github.com/dtroode/musehabit-server/internal/token"
)

// app is the wired object graph shared by the commands that touch the database.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *postgres.Connection

	tokens  *service.TokenService
	artists *service.Artist
	posts   *service.Post
	nightly *service.Nightly
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.EnvFiles...); err != nil {
		return nil, err
	}
	return config.NewConfig()
}

// newApp connects to the database (running migrations) and builds every
// service. Callers must call close.
func newApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	renderer, err := notify.NewRenderer(cfg.Mail.From, cfg.Mail.ReminderStream, cfg.Mail.SignupStream)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	var archive model.Storage
	if cfg.Storage.Endpoint != "" {
		client, err := storage.Open(ctx, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize report archive: %w", err)
		}
		archive = client
	} else {
		log.Warn("MINIO_ENDPOINT is empty, run reports will not be archived")
	}

	smtp := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.SMTPUsername,
		Password: cfg.Mail.SMTPPassword,
	}, log)
	sender := mail.NewThrottled(smtp, cfg.Nightly.SendRate, cfg.Nightly.SendBurst)

	userRepo := postgres.NewUserRepository(db)
	postRepo := postgres.NewPostRepository(db)
	deliveryRepo := postgres.NewDeliveryRepository(db)
	runRepo := postgres.NewRunRepository(db)

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), log)

	return &app{
		cfg:     cfg,
		logger:  log,
		db:      db,
		tokens:  tokenService,
		artists: service.NewArtist(userRepo, tokenService, sender, renderer, cfg.Mail.Admin, log),
		posts:   service.NewPost(postRepo, log),
		nightly: service.NewNightly(userRepo, deliveryRepo, runRepo, sender, renderer, archive, service.NightlyConfig{
			Workers:    cfg.Nightly.Workers,
			PageSize:   cfg.Nightly.PageSize,
			StaleAfter: cfg.Nightly.StaleAfter,
			Strict:     cfg.CadenceStrict,
		}, log),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
}
