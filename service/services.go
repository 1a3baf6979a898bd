// service/services.go
package service

import (
	"github.com/dev-mohitbeniwal/permy/audit"
	"github.com/dev-mohitbeniwal/permy/catalog"
	"github.com/dev-mohitbeniwal/permy/dao"
	"github.com/dev-mohitbeniwal/permy/metrics"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
	"github.com/dev-mohitbeniwal/permy/util"
)

type Services struct {
	Permission IPermissionService
}

func InitializeServices(
	e *engine.Engine,
	store dao.Store,
	catalogBuilder *catalog.Builder,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	eventBus *util.EventBus,
	m *metrics.Metrics,
) *Services {
	return &Services{
		Permission: NewPermissionService(e, store, catalogBuilder, auditService, validationUtil, eventBus, m),
	}
}
