package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/samriddhi-edu/asksamriddhi-api/config"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/db"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"go.uber.org/zap"
)

// Applies pending schema migrations and exits. Run before the API on deploy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		ServiceName: "asksamriddhi-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)))

	if err := db.RunMigrations(cfg.Database.URL, "file://migrations"); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL strips credentials from the URL before it hits the logs
func maskDatabaseURL(url string) string {
	if at := strings.LastIndex(url, "@"); at != -1 {
		if scheme := strings.Index(url, "://"); scheme != -1 {
			return url[:scheme+3] + "***" + url[at:]
		}
	}
	if scheme := strings.Index(url, "://"); scheme != -1 {
		return url[:scheme+3] + "***"
	}
	return "***"
}
