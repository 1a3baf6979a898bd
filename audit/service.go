// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	LogDecision(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, subjectID, resourceKey string) ([]AuditLog, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// LogDecision fills in the ID and timestamp when missing.
func (s *service) LogDecision(ctx context.Context, log AuditLog) error {
	if log.ID == "" {
		log.ID = NewID()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = s.now().UTC()
	}
	return s.repo.LogDecision(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, subjectID, resourceKey string) ([]AuditLog, error) {
	return s.repo.QueryLogs(ctx, from, to, subjectID, resourceKey)
}
