// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/permy/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

var _ audit.Service = (*MockAuditService)(nil)

func (m *MockAuditService) LogDecision(ctx context.Context, log audit.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditService) QueryLogs(ctx context.Context, from, to time.Time, subjectID, resourceKey string) ([]audit.AuditLog, error) {
	args := m.Called(ctx, from, to, subjectID, resourceKey)
	logs, _ := args.Get(0).([]audit.AuditLog)
	return logs, args.Error(1)
}
