// Package config loads runtime configuration for a matching run.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: a ".env" file in the working directory, if any, then
//     MENTORMATCH_* and AWS_* variables (see parseEnv).
//  3. Optional JSON file selected via flags: -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-i string   folder holding the CSV exports
//	-m string   part of the mentors export file name
//	-e string   part of the mentees export file name
//	-k int      header rows to skip in each export
//	-d string   top folder of persisted data
//	-s string   store driver: fs, sqlite, postgres, s3
//	-n string   database DSN (sqlite, postgres)
//	-b string   S3 bucket (s3)
//	-t string   templates folder
//	-o string   generated emails file
//	-p string   duplicate policy: ask, duplicate, distinct
//	-y          answer yes to every confirmation
//	-l string   log level: debug, info, warn, error
//	-x string   prometheus textfile written at the end of a run
//	-M string   mail provider: noop, ses
//
// # JSON schema
//
//	{
//	  "csv":       {"folder": ".", "mentors_file": "mentors", "mentees_file": "mentees", "unread_rows": 1},
//	  "data":      {"top_folder": "data", "mentors_folder": "mentors", "mentees_folder": "mentees",
//	                "driver": "fs", "dsn": "", "s3": {"bucket": "", "region": "", "endpoint": "", "path_style": false}},
//	  "templates": {"folder": "templates", "mentors": "mentors.txt", "mentees": "mentees.txt", "alone_mentees": "alone_mentees.txt"},
//	  "emails":    {"generated_file": "generated_emails.txt", "provider": "noop",
//	                "from_address": "", "from_name": "", "ses_region": ""},
//	  "run":       {"duplicate_policy": "ask", "assume_yes": false, "log_level": "info", "metrics_file": ""}
//	}
package config
