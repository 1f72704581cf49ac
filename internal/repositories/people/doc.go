// Package people persists mentors and mentees between runs.
//
// A Repository stores one models.Record per person, keyed by role and
// models.Record.Key, plus a few string metadata values such as the date of
// the last run. Three drivers are available:
//
//   - fs: one JSON file per person under <data>/<role folder>/, metadata in
//     <data>/state.json.
//   - sqlite / postgres: a people table and a metadata table, created by the
//     embedded goose migrations.
//   - s3: one JSON object per person under <data>/<role folder>/ in a bucket,
//     metadata in <data>/state.json.
//
// Saving a record whose key is already stored overwrites it.
package people
