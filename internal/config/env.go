package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotenv is a test seam for godotenv.Load.
var loadDotenv = godotenv.Load

// parseEnv loads a ".env" file from the working directory when present and
// overlays cfg with the environment. Only secrets and deployment-specific
// values are read from the environment:
//
//	MENTORMATCH_STORE_DRIVER, MENTORMATCH_DATABASE_DSN
//	MENTORMATCH_S3_BUCKET, MENTORMATCH_S3_REGION, MENTORMATCH_S3_ENDPOINT, MENTORMATCH_S3_PATH_STYLE
//	AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
//	MENTORMATCH_MAIL_PROVIDER, MENTORMATCH_MAIL_FROM, MENTORMATCH_MAIL_FROM_NAME, MENTORMATCH_SES_REGION
//	MENTORMATCH_LOG_LEVEL
func parseEnv(cfg *Config) {
	if err := loadDotenv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: .env file couldn't be loaded: %v", err)
	}

	setString(&cfg.StoreDriver, os.Getenv("MENTORMATCH_STORE_DRIVER"))
	setString(&cfg.DatabaseDSN, os.Getenv("MENTORMATCH_DATABASE_DSN"))
	setString(&cfg.S3Bucket, os.Getenv("MENTORMATCH_S3_BUCKET"))
	setString(&cfg.S3Region, os.Getenv("MENTORMATCH_S3_REGION"))
	setString(&cfg.S3Endpoint, os.Getenv("MENTORMATCH_S3_ENDPOINT"))
	if v, ok := os.LookupEnv("MENTORMATCH_S3_PATH_STYLE"); ok {
		cfg.S3PathStyle = strings.EqualFold(v, "true")
	}
	setString(&cfg.AWSAccessKeyID, os.Getenv("AWS_ACCESS_KEY_ID"))
	setString(&cfg.AWSSecretAccessKey, os.Getenv("AWS_SECRET_ACCESS_KEY"))
	setString(&cfg.MailProvider, os.Getenv("MENTORMATCH_MAIL_PROVIDER"))
	setString(&cfg.MailFromAddress, os.Getenv("MENTORMATCH_MAIL_FROM"))
	setString(&cfg.MailFromName, os.Getenv("MENTORMATCH_MAIL_FROM_NAME"))
	setString(&cfg.SESRegion, os.Getenv("MENTORMATCH_SES_REGION"))
	setString(&cfg.LogLevel, os.Getenv("MENTORMATCH_LOG_LEVEL"))
}
