// metrics/sink.go
package metrics

import "github.com/dev-mohitbeniwal/permy/pdp/engine"

// Notification kinds
const (
	KindSubjectNotSet         = "subject_not_set"
	KindSubjectTypeMismatch   = "subject_type_mismatch"
	KindResourceNotConfigured = "resource_not_configured"
	KindRecordsNotFound       = "records_not_found"
	KindActionNotConfigured   = "action_not_configured"
)

// Sink counts engine notifications by kind.
type Sink struct {
	m *Metrics
}

var _ engine.NotificationSink = Sink{}

func (m *Metrics) Sink() Sink {
	return Sink{m: m}
}

func (s Sink) SubjectNotSet() {
	s.m.Notifications.WithLabelValues(KindSubjectNotSet).Inc()
}

func (s Sink) SubjectTypeMismatch(string) {
	s.m.Notifications.WithLabelValues(KindSubjectTypeMismatch).Inc()
}

func (s Sink) ResourceNotConfigured(string) {
	s.m.Notifications.WithLabelValues(KindResourceNotConfigured).Inc()
}

func (s Sink) RecordsNotFound() {
	s.m.Notifications.WithLabelValues(KindRecordsNotFound).Inc()
}

func (s Sink) ActionNotConfigured(string, string) {
	s.m.Notifications.WithLabelValues(KindActionNotConfigured).Inc()
}
