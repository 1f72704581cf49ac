package config

import (
	"flag"
	"fmt"
)

var knownFlags = []string{"-i", "-m", "-e", "-k", "-d", "-s", "-n", "-b", "-t", "-o", "-p", "-y", "-l", "-x", "-M"}

// parseFlags overlays cfg with command-line flags. Only the flags listed in
// the package documentation are considered; args are filtered with
// filterArgs first so the -c/-config flag does not trip the FlagSet.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("mentormatch", flag.ContinueOnError)

	fs.StringVar(&cfg.CSVFolder, "i", cfg.CSVFolder, "folder holding the CSV exports")
	fs.StringVar(&cfg.MentorsFile, "m", cfg.MentorsFile, "part of the mentors export file name")
	fs.StringVar(&cfg.MenteesFile, "e", cfg.MenteesFile, "part of the mentees export file name")
	fs.IntVar(&cfg.SkipRows, "k", cfg.SkipRows, "header rows to skip in each export")
	fs.StringVar(&cfg.DataFolder, "d", cfg.DataFolder, "top folder of persisted data")
	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "store driver: fs, sqlite, postgres, s3")
	fs.StringVar(&cfg.DatabaseDSN, "n", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.TemplatesFolder, "t", cfg.TemplatesFolder, "templates folder")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "generated emails file")
	fs.StringVar(&cfg.DuplicatePolicy, "p", cfg.DuplicatePolicy, "duplicate policy: ask, duplicate, distinct")
	fs.BoolVar(&cfg.AssumeYes, "y", cfg.AssumeYes, "answer yes to every confirmation")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsFile, "x", cfg.MetricsFile, "prometheus textfile written at the end of a run")
	fs.StringVar(&cfg.MailProvider, "M", cfg.MailProvider, "mail provider: noop, ses")

	if err := fs.Parse(filterArgs(args, knownFlags, "-y")); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
