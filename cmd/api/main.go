package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/nexhub-community/nexhub-api/internal/config"
	"github.com/nexhub-community/nexhub-api/internal/email"
	"github.com/nexhub-community/nexhub-api/internal/emailjs"
	"github.com/nexhub-community/nexhub-api/internal/httpserver"
	"github.com/nexhub-community/nexhub-api/internal/logging"
	"github.com/nexhub-community/nexhub-api/internal/sheets"
	"github.com/nexhub-community/nexhub-api/internal/store"
	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// main boots the service: config → sinks → pipelines → HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat).With(logging.Service("nexhub-api"))
	logging.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", logging.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger) error {
	ctx := context.Background()

	var persister submission.Persister = sheets.NewPersister(cfg.GoogleScriptURL, cfg.SinkTimeout)
	if cfg.GoogleScriptURL == "" {
		logger.Warn("GOOGLE_SCRIPT_URL is not set; sheet writes will fail")
	}

	var db *store.PostgresStore
	if cfg.DBURL != "" {
		opened, err := openStore(cfg.DBURL)
		if err != nil {
			// The sheet stays the record of truth; a missing database only loses the copy.
			logger.Warn("postgres unavailable, continuing without it", logging.Sink("postgres"), logging.Error(err))
		} else {
			db = opened
			defer db.Close()
			persister = submission.NewMultiPersister(logger, cfg.SinkTimeout, persister, db)
		}
	}

	mailer, err := newNotifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("notifier ready", logging.Sink(mailer.Name()))

	common := []submission.Option{
		submission.WithLogger(logger),
		submission.WithSinkTimeout(cfg.SinkTimeout),
		submission.WithStrictSinks(cfg.StrictSinks),
	}
	with := func(opts ...submission.Option) []submission.Option {
		return append(append([]submission.Option{}, common...), opts...)
	}

	registration, err := submission.NewPipeline(submission.EventRegistration, mailer, email.ComposeRegistration,
		with(submission.WithPersister(persister))...)
	if err != nil {
		return err
	}

	recruitOpts := with(submission.WithPersister(persister))
	if cfg.TeamNotifyEnabled {
		recruitOpts = append(recruitOpts, submission.WithTeamNotice(email.TeamApplicationNotice(cfg.TeamRecipient())))
	}
	recruitment, err := submission.NewPipeline(submission.RecruitmentApplication, mailer, email.ComposeApplication,
		recruitOpts...)
	if err != nil {
		return err
	}

	contactMailer := emailjs.NewNotifier(emailjs.Options{
		URL:        cfg.EmailJS.URL,
		ServiceID:  cfg.EmailJS.ServiceID,
		TemplateID: cfg.EmailJS.TemplateID,
		PublicKey:  cfg.EmailJS.PublicKey,
		PrivateKey: cfg.EmailJS.PrivateKey,
		Timeout:    cfg.SinkTimeout,
	})
	contact, err := submission.NewPipeline(submission.ContactMessage, contactMailer, emailjs.ComposeContact, with()...)
	if err != nil {
		return err
	}

	deps := httpserver.Deps{
		Logger:    logger,
		Pipelines: []*submission.Pipeline{registration, recruitment, contact},
	}
	if db != nil {
		deps.Store = db
	}

	router, err := httpserver.NewRouter(cfg, deps)
	if err != nil {
		return err
	}

	logger.Info("server started", "addr", cfg.Addr())
	return router.Run(cfg.Addr())
}

// openStore connects to Postgres and makes sure the schema exists.
func openStore(dbURL string) (*store.PostgresStore, error) {
	db, err := store.NewPostgresStore(dbURL)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func newNotifier(ctx context.Context, cfg config.Config, logger *logging.Logger) (submission.Notifier, error) {
	switch cfg.NotifyBackend {
	case config.BackendSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		ses, err := email.NewSESNotifier(awsCfg, cfg.SESFromEmail)
		if err != nil {
			return nil, err
		}
		return ses, nil
	case config.BackendLog:
		return email.NewLogNotifier(logger), nil
	default:
		smtp, err := email.NewSMTPNotifier(email.SMTPOptions{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Email,
			Password: cfg.SMTP.Password,
			FromName: cfg.SMTP.FromName,
			Timeout:  cfg.SinkTimeout,
		})
		if err != nil {
			return nil, err
		}
		return smtp, nil
	}
}
