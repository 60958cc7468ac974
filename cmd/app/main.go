package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sushihentaime/bloggingapp/internal/blogservice"
	"github.com/sushihentaime/bloggingapp/internal/common"
	"github.com/sushihentaime/bloggingapp/internal/mailservice"
	"github.com/sushihentaime/bloggingapp/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	metrics     *metrics
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker
}

func main() {
	configPath := flag.String("config", ".env", "path to the .env configuration file")
	migrations := flag.String("migrations", "file://migrations", "migration source URL")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)

	if err := run(cfg, logger, *migrations); err != nil {
		logger.Error("application stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(cfg *Config, logger *slog.Logger, migrations string) error {
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBMaxIdleTime)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}
	defer common.CloseDB(db)

	err = common.MigrateDB(migrations, common.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName))
	if err != nil {
		return fmt.Errorf("failed to migrate the database: %w", err)
	}
	logger.Info("database ready", slog.String("host", cfg.DBHost), slog.String("db", cfg.DBName))

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		return fmt.Errorf("failed to connect to the message broker: %w", err)
	}
	defer broker.Close()

	err = common.SetupExchanges(broker)
	if err != nil {
		return fmt.Errorf("failed to setup the exchanges: %w", err)
	}

	cache := common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	tokens := userservice.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	app := &application{
		config:      cfg,
		logger:      logger,
		metrics:     newMetrics(),
		userService: userservice.NewUserService(db, broker, cache, tokens, logger),
		blogService: blogservice.NewBlogService(db, broker, logger),
		mailService: mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
		broker:      broker,
	}

	err = app.mailService.Start()
	if err != nil {
		return fmt.Errorf("failed to start the mail consumers: %w", err)
	}

	return app.serve()
}
