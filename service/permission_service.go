// service/permission_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/permy/audit"
	"github.com/dev-mohitbeniwal/permy/catalog"
	"github.com/dev-mohitbeniwal/permy/dao"
	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/metrics"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/permy/pdp/model"
	"github.com/dev-mohitbeniwal/permy/util"
)

// IPermissionService defines the interface for permission operations
type IPermissionService interface {
	Check(ctx context.Context, req pdp_model.CheckRequest, requestID string) (*pdp_model.Decision, error)
	Authorize(ctx context.Context, subjectID string, route model.Route) (bool, error)
	Catalog(ctx context.Context) (model.Catalog, error)
	Decisions(ctx context.Context, query DecisionQuery) ([]audit.AuditLog, error)
}

// DecisionQuery filters the audit trail.
type DecisionQuery struct {
	From, To    time.Time
	SubjectID   string
	ResourceKey string
	Limit       int
	Offset      int
}

// PermissionService answers permission checks for the HTTP surface.
type PermissionService struct {
	engine         *engine.Engine
	subjects       dao.SubjectStore
	catalog        *catalog.Builder
	auditService   audit.Service
	validationUtil *util.ValidationUtil
	eventBus       *util.EventBus
	metrics        *metrics.Metrics
}

var _ IPermissionService = &PermissionService{}

// NewPermissionService creates a new instance of PermissionService. metrics
// may be nil.
func NewPermissionService(
	e *engine.Engine,
	subjects dao.SubjectStore,
	catalogBuilder *catalog.Builder,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	eventBus *util.EventBus,
	m *metrics.Metrics,
) *PermissionService {
	service := &PermissionService{
		engine:         e,
		subjects:       subjects,
		catalog:        catalogBuilder,
		auditService:   auditService,
		validationUtil: validationUtil,
		eventBus:       eventBus,
		metrics:        m,
	}

	// Set up event subscriptions
	eventBus.Subscribe(util.EventPermissionChecked, service.handlePermissionChecked)

	return service
}

type checkedEvent struct {
	Decision  pdp_model.Decision
	RequestID string
}

func (s *PermissionService) handlePermissionChecked(ctx context.Context, event util.Event) error {
	payload, ok := event.Payload.(checkedEvent)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	if err := s.auditService.LogDecision(ctx, audit.FromDecision(&payload.Decision, payload.RequestID)); err != nil {
		logger.Warn("Failed to write decision audit log",
			zap.Error(err),
			zap.String("decisionID", payload.Decision.ID))
		return err
	}
	return nil
}

// Check evaluates a wire request against the engine and records the outcome.
func (s *PermissionService) Check(ctx context.Context, req pdp_model.CheckRequest, requestID string) (*pdp_model.Decision, error) {
	if err := s.validationUtil.ValidateCheckRequest(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", permy_errors.ErrInvalidCheckData, err)
	}

	subject, err := s.subjects.FindSubject(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}

	opts := engine.Options{
		Operator:         engine.Operator(req.Operator),
		ResourceOperator: engine.Operator(req.ResourceOperator),
		RecordOperator:   engine.Operator(req.RecordOperator),
		ExtraCheck:       req.ExtraCheck,
	}

	start := time.Now()
	decision, err := s.engine.Explain(ctx, subject, engine.Refs(req.Resources...), opts, req.Negate)
	took := time.Since(start)
	if err != nil {
		logger.Warn("Permission check failed",
			zap.Error(err),
			zap.String("subjectID", req.SubjectID),
			zap.Strings("resources", req.Resources))
		return nil, err
	}

	decision.ID = audit.NewID()
	s.observe(decision.Allowed, took)
	s.eventBus.Publish(ctx, util.EventPermissionChecked, checkedEvent{Decision: *decision, RequestID: requestID})

	logger.Info("Permission checked",
		zap.String("decisionID", decision.ID),
		zap.String("subjectID", decision.SubjectID),
		zap.Strings("resources", req.Resources),
		zap.Bool("allowed", decision.Allowed),
		zap.Duration("duration", took))
	return decision, nil
}

// Authorize decides whether subjectID may call route. An unknown subject is
// denied without error.
func (s *PermissionService) Authorize(ctx context.Context, subjectID string, route model.Route) (bool, error) {
	subject, err := s.subjects.FindSubject(ctx, subjectID)
	if errors.Is(err, permy_errors.ErrSubjectNotFound) {
		logger.Warn("Authenticated subject is unknown", zap.String("subjectID", subjectID))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	start := time.Now()
	allowed, err := s.engine.Evaluate(ctx, subject, []engine.RouteRef{engine.RefHandle(route)}, engine.Options{})
	if err != nil {
		return false, err
	}
	s.observe(allowed, time.Since(start))
	return allowed, nil
}

// Catalog lists the guarded resources with their labels.
func (s *PermissionService) Catalog(ctx context.Context) (model.Catalog, error) {
	if s.catalog == nil {
		return model.Catalog{}, nil
	}
	c, err := s.catalog.Build(ctx)
	if err != nil {
		logger.Error("Failed to build permission catalog", zap.Error(err))
		return nil, err
	}
	return c, nil
}

// Decisions pages through the audit trail.
func (s *PermissionService) Decisions(ctx context.Context, query DecisionQuery) ([]audit.AuditLog, error) {
	logs, err := s.auditService.QueryLogs(ctx, query.From, query.To, query.SubjectID, query.ResourceKey)
	if err != nil {
		logger.Error("Failed to query decisions", zap.Error(err))
		return nil, err
	}
	if query.Offset >= len(logs) {
		return []audit.AuditLog{}, nil
	}
	logs = logs[query.Offset:]
	if query.Limit > 0 && query.Limit < len(logs) {
		logs = logs[:query.Limit]
	}
	return logs, nil
}

func (s *PermissionService) observe(allowed bool, took time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveDecision(allowed, took)
	}
}
