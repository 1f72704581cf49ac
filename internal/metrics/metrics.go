// Package metrics counts what a run did and writes it as a prometheus
// textfile, for the node exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics of a single run. All methods accept a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// People read by role and source ("csv" or "store")
	PeopleRead *prometheus.CounterVec

	// People merged into an existing member, by role
	Duplicates *prometheus.CounterVec

	// Assignment outcome by status ("assigned", "unassigned")
	Assignments *prometheus.CounterVec

	// Messages rendered and sent
	MessagesRendered prometheus.Counter
	MessagesSent     prometheus.Counter

	RunDuration   prometheus.Gauge
	LastRunSecond prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		PeopleRead: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mentormatch_people_read_total",
			Help: "People read during the run by role and source",
		}, []string{"role", "source"}),
		Duplicates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mentormatch_duplicates_total",
			Help: "People recognised as already known, by role",
		}, []string{"role"}),
		Assignments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mentormatch_assignments_total",
			Help: "Mentee assignment outcomes by status",
		}, []string{"status"}),
		MessagesRendered: f.NewCounter(prometheus.CounterOpts{
			Name: "mentormatch_messages_rendered_total",
			Help: "Notification messages rendered",
		}),
		MessagesSent: f.NewCounter(prometheus.CounterOpts{
			Name: "mentormatch_messages_sent_total",
			Help: "Notification messages handed to the mailer",
		}),
		RunDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "mentormatch_run_duration_seconds",
			Help: "Duration of the last run",
		}),
		LastRunSecond: f.NewGauge(prometheus.GaugeOpts{
			Name: "mentormatch_last_run_timestamp_seconds",
			Help: "Unix time at which the last run finished",
		}),
	}
}

// ObserveLoad records the outcome of loading a batch.
func (m *Metrics) ObserveLoad(role, source string, read, duplicates int) {
	if m != nil {
		m.PeopleRead.WithLabelValues(role, source).Add(float64(read))
		m.Duplicates.WithLabelValues(role).Add(float64(duplicates))
	}
}

// ObserveAssignments records how many mentees got a mentor.
func (m *Metrics) ObserveAssignments(assigned, unassigned int) {
	if m != nil {
		m.Assignments.WithLabelValues("assigned").Add(float64(assigned))
		m.Assignments.WithLabelValues("unassigned").Add(float64(unassigned))
	}
}

// ObserveMessages records rendered and sent message counts.
func (m *Metrics) ObserveMessages(rendered, sent int) {
	if m != nil {
		m.MessagesRendered.Add(float64(rendered))
		m.MessagesSent.Add(float64(sent))
	}
}

// Finish records the run duration and end time.
func (m *Metrics) Finish(start, end time.Time) {
	if m != nil {
		m.RunDuration.Set(end.Sub(start).Seconds())
		m.LastRunSecond.Set(float64(end.Unix()))
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
