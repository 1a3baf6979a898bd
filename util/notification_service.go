// util/notification_service.go

package util

import (
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/catalog"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

// NotificationService reports engine and catalog conditions to the log.
type NotificationService struct{}

var (
	_ engine.NotificationSink = (*NotificationService)(nil)
	_ catalog.Hooks           = (*NotificationService)(nil)
)

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) SubjectNotSet() {
	logger.Warn("NOTIFICATION: permission checked without a subject")
}

func (n *NotificationService) SubjectTypeMismatch(subjectType string) {
	logger.Warn("NOTIFICATION: subject is not of the configured type",
		zap.String("subjectType", subjectType))
}

func (n *NotificationService) ResourceNotConfigured(uri string) {
	logger.Warn("NOTIFICATION: resource is not configured", zap.String("uri", uri))
}

func (n *NotificationService) RecordsNotFound() {
	logger.Warn("NOTIFICATION: no permission records found for subject")
}

func (n *NotificationService) ActionNotConfigured(resourceKey, action string) {
	logger.Warn("NOTIFICATION: action is not configured",
		zap.String("resourceKey", resourceKey),
		zap.String("action", action))
}

// ControllerAppended is called when the catalog gains a new resource.
func (n *NotificationService) ControllerAppended(resourceKey string) {
	logger.Info("Permission labels updated with a new controller, please describe it",
		zap.String("resourceKey", resourceKey))
}

func (n *NotificationService) MethodAppended(resourceKey, method string) {
	logger.Info("Permission labels updated with a new method, please describe it",
		zap.String("resourceKey", resourceKey),
		zap.String("method", method))
}

func (n *NotificationService) FileUpdateError(err error) {
	logger.Error("Failed to update permission labels file", zap.Error(err))
}
