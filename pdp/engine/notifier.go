package engine

// NotificationSink observes the conditions that turn an evaluation into a
// default deny. Sinks are never called in godmode or debug mode.
type NotificationSink interface {
	SubjectNotSet()
	SubjectTypeMismatch(subjectType string)
	ResourceNotConfigured(uri string)
	RecordsNotFound()
	ActionNotConfigured(resourceKey, action string)
}

// NopSink ignores every notification.
type NopSink struct{}

func (NopSink) SubjectNotSet()                                 {}
func (NopSink) SubjectTypeMismatch(subjectType string)         {}
func (NopSink) ResourceNotConfigured(uri string)               {}
func (NopSink) RecordsNotFound()                               {}
func (NopSink) ActionNotConfigured(resourceKey, action string) {}

// SinkFuncs adapts plain closures to a NotificationSink. Nil fields are skipped.
type SinkFuncs struct {
	OnSubjectNotSet         func()
	OnSubjectTypeMismatch   func(subjectType string)
	OnResourceNotConfigured func(uri string)
	OnRecordsNotFound       func()
	OnActionNotConfigured   func(resourceKey, action string)
}

func (s SinkFuncs) SubjectNotSet() {
	if s.OnSubjectNotSet != nil {
		s.OnSubjectNotSet()
	}
}

func (s SinkFuncs) SubjectTypeMismatch(subjectType string) {
	if s.OnSubjectTypeMismatch != nil {
		s.OnSubjectTypeMismatch(subjectType)
	}
}

func (s SinkFuncs) ResourceNotConfigured(uri string) {
	if s.OnResourceNotConfigured != nil {
		s.OnResourceNotConfigured(uri)
	}
}

func (s SinkFuncs) RecordsNotFound() {
	if s.OnRecordsNotFound != nil {
		s.OnRecordsNotFound()
	}
}

func (s SinkFuncs) ActionNotConfigured(resourceKey, action string) {
	if s.OnActionNotConfigured != nil {
		s.OnActionNotConfigured(resourceKey, action)
	}
}

// MultiSink fans every notification out to each sink in order.
type MultiSink []NotificationSink

func (m MultiSink) SubjectNotSet() {
	for _, s := range m {
		s.SubjectNotSet()
	}
}

func (m MultiSink) SubjectTypeMismatch(subjectType string) {
	for _, s := range m {
		s.SubjectTypeMismatch(subjectType)
	}
}

func (m MultiSink) ResourceNotConfigured(uri string) {
	for _, s := range m {
		s.ResourceNotConfigured(uri)
	}
}

func (m MultiSink) RecordsNotFound() {
	for _, s := range m {
		s.RecordsNotFound()
	}
}

func (m MultiSink) ActionNotConfigured(resourceKey, action string) {
	for _, s := range m {
		s.ActionNotConfigured(resourceKey, action)
	}
}
