package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casebank-backend/config"
	"casebank-backend/extract"
	"casebank-backend/handlers"
	"casebank-backend/llm"
	"casebank-backend/logging"
	"casebank-backend/repository"
	"casebank-backend/service"
	"casebank-backend/session"
	"casebank-backend/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "casebank-api",
		Short: "Law firm judgment knowledge bank backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("record-store-driver", defaults.GetString("record_store.driver"), "Record store driver (sqlite, postgres)")
	cmd.PersistentFlags().String("sqlite-path", defaults.GetString("record_store.sqlite_path"), "SQLite database path")
	cmd.PersistentFlags().String("storage-type", defaults.GetString("storage.type"), "Attachment storage backend (local, s3)")
	cmd.PersistentFlags().String("storage-local-path", defaults.GetString("storage.local_path"), "Local attachment directory")
	cmd.PersistentFlags().String("llm-provider", defaults.GetString("llm.provider"), "LLM provider (gemini, openai)")
	cmd.PersistentFlags().String("llm-model", defaults.GetString("llm.model"), "LLM model name")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "record_store.driver", "record-store-driver")
	bindFlag(cmd, "record_store.sqlite_path", "sqlite-path")
	bindFlag(cmd, "storage.type", "storage-type")
	bindFlag(cmd, "storage.local_path", "storage-local-path")
	bindFlag(cmd, "llm.provider", "llm-provider")
	bindFlag(cmd, "llm.model", "llm-model")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	// A .env file is a development convenience; when run from the
	// repository root or cmd/server it feeds AutomaticEnv like any
	// other environment variable.
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

// recordStores bundles the repositories for whichever driver the
// configuration selected
type recordStores struct {
	judgments repository.JudgmentRepository
	usages    repository.UsageRepository
	replies   repository.ReplyRepository
	close     func()
}

func openRecordStore(ctx context.Context, appConfig config.AppConfig, logger *zap.Logger) (recordStores, error) {
	if appConfig.RecordStoreDriver == "postgres" {
		pool, err := pgxpool.New(ctx, appConfig.DatabaseURL)
		if err != nil {
			return recordStores{}, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return recordStores{}, err
		}
		logger.Info("record store initialized", zap.String("backend", "postgres"))
		return recordStores{
			judgments: repository.NewPostgresJudgmentRepository(pool),
			usages:    repository.NewPostgresUsageRepository(pool),
			replies:   repository.NewPostgresReplyRepository(pool),
			close:     pool.Close,
		}, nil
	}

	db, err := repository.OpenSQLite(appConfig.SQLitePath, logger)
	if err != nil {
		return recordStores{}, err
	}
	return recordStores{
		judgments: repository.NewSQLiteJudgmentRepository(db),
		usages:    repository.NewSQLiteUsageRepository(db),
		replies:   repository.NewSQLiteReplyRepository(db),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	stores, err := openRecordStore(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer stores.close()

	store, err := storage.NewStorage(storage.StorageConfig{
		Type:         storage.StorageType(appConfig.StorageType),
		LocalPath:    appConfig.LocalPath,
		S3Bucket:     appConfig.S3Bucket,
		S3Region:     appConfig.S3Region,
		AWSAccessKey: appConfig.AWSAccessKey,
		AWSSecretKey: appConfig.AWSSecretKey,
	})
	if err != nil {
		return err
	}
	logger.Info("attachment storage initialized", zap.String("type", appConfig.StorageType))

	provider, err := llm.NewProvider(ctx, llm.Config{
		Provider: appConfig.LLMProvider,
		Model:    appConfig.LLMModel,
		APIKey:   appConfig.LLMAPIKey,
		BaseURL:  appConfig.LLMBaseURL,
		Timeout:  appConfig.LLMTimeout,
	})
	if err != nil {
		return err
	}
	if provider == nil {
		logger.Warn("no llm api key configured, generative features disabled")
	} else {
		logger.Info("llm provider initialized", zap.String("provider", provider.Name()))
	}

	extractor := extract.NewPDFExtractor(logger)
	ids := service.NewTimestampIDProvider()
	sessions := session.NewManager(session.DefaultTTL)

	catalogService := service.NewCatalogService(
		service.CatalogWithJudgmentRepository(stores.judgments),
		service.CatalogWithUsageRepository(stores.usages),
		service.CatalogWithReplyRepository(stores.replies),
		service.CatalogWithStorage(store),
		service.CatalogWithIDProvider(ids),
		service.CatalogWithLogger(logger),
	)
	intakeService := service.NewIntakeService(
		service.IntakeWithProvider(provider),
		service.IntakeWithExtractor(extractor),
		service.IntakeWithLogger(logger),
	)
	replyService := service.NewReplyService(
		service.ReplyWithJudgmentRepository(stores.judgments),
		service.ReplyWithReplyRepository(stores.replies),
		service.ReplyWithProvider(provider),
		service.ReplyWithExtractor(extractor),
		service.ReplyWithIDProvider(ids),
		service.ReplyWithLogger(logger),
	)
	chatService := service.NewChatService(
		service.ChatWithJudgmentRepository(stores.judgments),
		service.ChatWithStorage(store),
		service.ChatWithProvider(provider),
		service.ChatWithExtractor(extractor),
		service.ChatWithLogger(logger),
	)

	// Backup only covers the all-local deployment; other combinations
	// leave the endpoint reporting it is unavailable.
	var backupService *service.BackupService
	if appConfig.RecordStoreDriver == "sqlite" && appConfig.StorageType == "local" {
		backupService = service.NewBackupService(appConfig.SQLitePath, appConfig.LocalPath)
	}

	router, err := handlers.NewRouter(handlers.Dependencies{
		CatalogService: catalogService,
		IntakeService:  intakeService,
		ReplyService:   replyService,
		ChatService:    chatService,
		BackupService:  backupService,
		Sessions:       sessions,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: router,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
