package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/mentormatch/internal/common"
)

// Store drivers.
const (
	DriverFS       = "fs"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Duplicate policies.
const (
	PolicyAsk       = "ask"
	PolicyDuplicate = "duplicate"
	PolicyDistinct  = "distinct"
)

// Mail providers.
const (
	MailNoop = "noop"
	MailSES  = "ses"
)

// Config holds runtime settings of a run.
type Config struct {
	CSVFolder   string
	MentorsFile string
	MenteesFile string
	SkipRows    int

	DataFolder    string
	MentorsFolder string
	MenteesFolder string
	StoreDriver   string
	DatabaseDSN   string

	S3Bucket           string
	S3Region           string
	S3Endpoint         string
	S3PathStyle        bool
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	TemplatesFolder      string
	MentorsTemplate      string
	MenteesTemplate      string
	AloneMenteesTemplate string
	OutputFile           string

	MailProvider    string
	MailFromAddress string
	MailFromName    string
	SESRegion       string

	DuplicatePolicy string
	AssumeYes       bool
	LogLevel        string
	MetricsFile     string
}

// LoadDefaults populates c with defaults suited to running from the folder
// holding the exports.
func (c *Config) LoadDefaults() {
	c.CSVFolder = "."
	c.MentorsFile = "mentors"
	c.MenteesFile = "mentees"
	c.SkipRows = 1

	c.DataFolder = "data"
	c.MentorsFolder = "mentors"
	c.MenteesFolder = "mentees"
	c.StoreDriver = DriverFS

	c.S3Region = "us-east-1"

	c.TemplatesFolder = "templates"
	c.MentorsTemplate = "mentors.txt"
	c.MenteesTemplate = "mentees.txt"
	c.AloneMenteesTemplate = "alone_mentees.txt"
	c.OutputFile = "generated_emails.txt"

	c.MailProvider = MailNoop
	c.SESRegion = "us-east-1"

	c.DuplicatePolicy = PolicyAsk
	c.LogLevel = "info"
}

// SQLiteDSN returns the DSN to open for the sqlite driver: DatabaseDSN, or
// a database file inside DataFolder.
func (c *Config) SQLiteDSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return filepath.Join(c.DataFolder, "mentormatch.db")
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverFS, DriverSQLite, DriverS3:
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("postgres driver needs a database DSN")
		}
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownDriver, c.StoreDriver)
	}
	if c.StoreDriver == DriverS3 && c.S3Bucket == "" {
		return fmt.Errorf("s3 driver needs a bucket")
	}
	switch c.DuplicatePolicy {
	case PolicyAsk, PolicyDuplicate, PolicyDistinct:
	default:
		return fmt.Errorf("unknown duplicate policy %q", c.DuplicatePolicy)
	}
	switch c.MailProvider {
	case MailNoop, MailSES:
	default:
		return fmt.Errorf("unknown mail provider %q", c.MailProvider)
	}
	if c.SkipRows < 0 {
		return fmt.Errorf("skip rows must not be negative, got %d", c.SkipRows)
	}
	return nil
}

// Load builds a Config from defaults, environment, the JSON file named in
// args and finally args themselves.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
