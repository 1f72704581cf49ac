// Package cli provides the mentormatch command-line application.
//
// It wires configuration, the people store, the notifier and the matching
// service, and answers the questions of a run. On a terminal the questions
// are asked on stdin; otherwise they are answered by policy:
//
//   - yes/no questions: yes
//   - file selection: the first candidate
//   - duplicates: the configured policy ("ask" falls back to "duplicate")
//
// The -y flag answers yes to every yes/no question even on a terminal.
// The run is started via App.Run(ctx), which returns once every output is
// written.
package cli
