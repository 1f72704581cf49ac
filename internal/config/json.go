package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Its sections
// follow the layout of the configuration file; pointers tell an absent
// value from a zero one.
type jsonConfig struct {
	CSV struct {
		Folder      string `json:"folder"`
		MentorsFile string `json:"mentors_file"`
		MenteesFile string `json:"mentees_file"`
		UnreadRows  *int   `json:"unread_rows"`
	} `json:"csv"`
	Data struct {
		TopFolder     string `json:"top_folder"`
		MentorsFolder string `json:"mentors_folder"`
		MenteesFolder string `json:"mentees_folder"`
		Driver        string `json:"driver"`
		DSN           string `json:"dsn"`
		S3            struct {
			Bucket    string `json:"bucket"`
			Region    string `json:"region"`
			Endpoint  string `json:"endpoint"`
			PathStyle *bool  `json:"path_style"`
		} `json:"s3"`
	} `json:"data"`
	Templates struct {
		Folder       string `json:"folder"`
		Mentors      string `json:"mentors"`
		Mentees      string `json:"mentees"`
		AloneMentees string `json:"alone_mentees"`
	} `json:"templates"`
	Emails struct {
		GeneratedFile string `json:"generated_file"`
		Provider      string `json:"provider"`
		FromAddress   string `json:"from_address"`
		FromName      string `json:"from_name"`
		SESRegion     string `json:"ses_region"`
	} `json:"emails"`
	Run struct {
		DuplicatePolicy string `json:"duplicate_policy"`
		AssumeYes       *bool  `json:"assume_yes"`
		LogLevel        string `json:"log_level"`
		MetricsFile     string `json:"metrics_file"`
	} `json:"run"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Without such a flag nothing changes. Values absent from the file keep
// their current value.
func parseJson(cfg *Config, args []string) error {
	path := configFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.CSVFolder, jc.CSV.Folder)
	setString(&cfg.MentorsFile, jc.CSV.MentorsFile)
	setString(&cfg.MenteesFile, jc.CSV.MenteesFile)
	if jc.CSV.UnreadRows != nil {
		cfg.SkipRows = *jc.CSV.UnreadRows
	}

	setString(&cfg.DataFolder, jc.Data.TopFolder)
	setString(&cfg.MentorsFolder, jc.Data.MentorsFolder)
	setString(&cfg.MenteesFolder, jc.Data.MenteesFolder)
	setString(&cfg.StoreDriver, jc.Data.Driver)
	setString(&cfg.DatabaseDSN, jc.Data.DSN)
	setString(&cfg.S3Bucket, jc.Data.S3.Bucket)
	setString(&cfg.S3Region, jc.Data.S3.Region)
	setString(&cfg.S3Endpoint, jc.Data.S3.Endpoint)
	if jc.Data.S3.PathStyle != nil {
		cfg.S3PathStyle = *jc.Data.S3.PathStyle
	}

	setString(&cfg.TemplatesFolder, jc.Templates.Folder)
	setString(&cfg.MentorsTemplate, jc.Templates.Mentors)
	setString(&cfg.MenteesTemplate, jc.Templates.Mentees)
	setString(&cfg.AloneMenteesTemplate, jc.Templates.AloneMentees)

	setString(&cfg.OutputFile, jc.Emails.GeneratedFile)
	setString(&cfg.MailProvider, jc.Emails.Provider)
	setString(&cfg.MailFromAddress, jc.Emails.FromAddress)
	setString(&cfg.MailFromName, jc.Emails.FromName)
	setString(&cfg.SESRegion, jc.Emails.SESRegion)

	setString(&cfg.DuplicatePolicy, jc.Run.DuplicatePolicy)
	if jc.Run.AssumeYes != nil {
		cfg.AssumeYes = *jc.Run.AssumeYes
	}
	setString(&cfg.LogLevel, jc.Run.LogLevel)
	setString(&cfg.MetricsFile, jc.Run.MetricsFile)

	return nil
}
