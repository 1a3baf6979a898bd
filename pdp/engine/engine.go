package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/model"
	pdp_model "github.com/dev-mohitbeniwal/permy/pdp/model"
)

// PermissionStore delivers the permission records a subject holds for a
// resource key, one per assigned grant.
type PermissionStore interface {
	RecordsFor(ctx context.Context, subjectID, resourceKey string) ([]EncodedRecord, error)
}

// Engine decides whether a subject may access a set of resources.
type Engine struct {
	resolver *Resolver
	store    PermissionStore
	policy   Policy
	sink     NotificationSink
}

type Option func(*Engine)

// WithSink installs the notification sink; the default ignores everything.
func WithSink(sink NotificationSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

func New(routes RouteResolver, store PermissionStore, policy Policy, opts ...Option) *Engine {
	policy.Operator = ParseOperator(string(policy.Operator), And)
	e := &Engine{
		resolver: NewResolver(routes),
		store:    store,
		policy:   policy,
		sink:     NopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate reports whether subject may access every reference combined as
// requested by opts. The error is non-nil only in debug mode.
func (e *Engine) Evaluate(ctx context.Context, subject *model.Subject, refs []RouteRef, opts Options) (bool, error) {
	decision, err := e.explain(ctx, subject, refs, opts, false)
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
}

// CheckSingle is Evaluate for one reference.
func (e *Engine) CheckSingle(ctx context.Context, subject *model.Subject, ref RouteRef, op Operator, extraCheck bool) (bool, error) {
	return e.Evaluate(ctx, subject, []RouteRef{ref}, Options{Operator: op, ExtraCheck: &extraCheck})
}

// Negate negates the access decision before folding it with ExtraCheck,
// which defaults to false here.
func (e *Engine) Negate(ctx context.Context, subject *model.Subject, refs []RouteRef, opts Options) (bool, error) {
	decision, err := e.explain(ctx, subject, refs, opts, true)
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
}

// Explain evaluates like Evaluate (or Negate when negate is set) and returns
// the per-resource trace.
func (e *Engine) Explain(ctx context.Context, subject *model.Subject, refs []RouteRef, opts Options, negate bool) (*pdp_model.Decision, error) {
	return e.explain(ctx, subject, refs, opts, negate)
}

func (e *Engine) explain(ctx context.Context, subject *model.Subject, refs []RouteRef, opts Options, negate bool) (*pdp_model.Decision, error) {
	r := e.newRun(subject, opts)

	extraCheck := !negate
	if opts.ExtraCheck != nil {
		extraCheck = *opts.ExtraCheck
	}

	decision := &pdp_model.Decision{
		Negated:          negate,
		Godmode:          r.godmode,
		Operator:         string(r.operator),
		ResourceOperator: string(r.resourceOperator),
		RecordOperator:   string(r.recordOperator),
		ExtraCheck:       extraCheck,
		Resources:        make([]pdp_model.ResourceDecision, 0, len(refs)),
	}
	if subject != nil {
		decision.SubjectID = subject.ID
	}

	terms := make([]bool, 0, len(refs))
	for _, ref := range refs {
		rd, err := r.resource(ctx, ref)
		if err != nil {
			return nil, err
		}
		decision.Resources = append(decision.Resources, rd)
		terms = append(terms, rd.Allowed)
	}

	// An empty request grants nothing unless godmode is on.
	permission := r.godmode || (len(terms) > 0 && Fold(terms, r.resourceOperator))
	if negate {
		permission = !permission
	}
	decision.Allowed = Combine(permission, extraCheck, r.operator)

	logger.Debug("Permission evaluated",
		zap.String("subjectID", decision.SubjectID),
		zap.Int("resources", len(refs)),
		zap.Bool("negated", negate),
		zap.Bool("allowed", decision.Allowed))
	return decision, nil
}

// run holds the effective settings of one evaluation call.
type run struct {
	*Engine
	subject          *model.Subject
	godmode          bool
	debug            bool
	operator         Operator
	resourceOperator Operator
	recordOperator   Operator
}

func (e *Engine) newRun(subject *model.Subject, opts Options) *run {
	r := &run{
		Engine:           e,
		subject:          subject,
		godmode:          e.policy.Godmode,
		debug:            e.policy.Debug,
		operator:         ParseOperator(string(opts.Operator), e.policy.Operator),
		resourceOperator: ParseOperator(string(opts.ResourceOperator), e.policy.Operator),
		recordOperator:   ParseOperator(string(opts.RecordOperator), e.policy.Operator),
	}
	if opts.Overrides.Godmode != nil {
		r.godmode = *opts.Overrides.Godmode
	}
	if opts.Overrides.Debug != nil {
		r.debug = *opts.Overrides.Debug
	}
	return r
}

func (r *run) resource(ctx context.Context, ref RouteRef) (pdp_model.ResourceDecision, error) {
	rd := pdp_model.ResourceDecision{Ref: ref.String()}

	if r.godmode {
		rd.Allowed = true
		rd.Reason = pdp_model.ReasonGodmode
		return rd, nil
	}

	if r.subject == nil || strings.TrimSpace(r.subject.ID) == "" {
		rd.Reason = pdp_model.ReasonSubjectNotSet
		return rd, r.raise(&permy_errors.DecisionError{Kind: permy_errors.ErrSubjectNotSet}, r.sink.SubjectNotSet)
	}
	if r.policy.SubjectType != "" && r.subject.Type != r.policy.SubjectType {
		rd.Reason = pdp_model.ReasonSubjectTypeMismatch
		return rd, r.raise(&permy_errors.DecisionError{Kind: permy_errors.ErrSubjectTypeMismatch, Subject: r.subject.ID},
			func() { r.sink.SubjectTypeMismatch(r.subject.Type) })
	}

	res, err := r.resolver.Resolve(ctx, ref)
	rd.URI = res.URI
	if err != nil {
		rd.Reason = pdp_model.ReasonResourceNotConfigured
		return rd, r.raise(&permy_errors.DecisionError{Kind: permy_errors.ErrResourceNotConfigured, Subject: r.subject.ID, URI: res.URI},
			func() { r.sink.ResourceNotConfigured(res.URI) })
	}
	rd.ResourceKey = res.ResourceKey
	rd.Action = res.Action

	records, err := r.records(ctx, res.ResourceKey)
	if err != nil {
		rd.Reason = pdp_model.ReasonStoreUnavailable
		return rd, r.raise(&permy_errors.DecisionError{Kind: permy_errors.ErrStoreUnavailable, Subject: r.subject.ID, Resource: res.ResourceKey, Err: err},
			r.sink.RecordsNotFound)
	}
	rd.Records = len(records)
	if len(records) == 0 {
		rd.Reason = pdp_model.ReasonRecordsNotFound
		return rd, r.raise(&permy_errors.DecisionError{Kind: permy_errors.ErrRecordsNotFound, Subject: r.subject.ID, Resource: res.ResourceKey},
			r.sink.RecordsNotFound)
	}

	terms := make([]bool, len(records))
	for i, raw := range records {
		switch Decode(raw).Get(res.Action) {
		case Allow:
			terms[i] = true
		case Deny:
			terms[i] = false
		case Unset:
			// Only a lone record reports the missing action; with several
			// records the gap silently counts as a deny.
			if len(records) == 1 {
				rd.Reason = pdp_model.ReasonActionNotConfigured
				err := r.raise(&permy_errors.DecisionError{Kind: permy_errors.ErrActionNotConfigured, Subject: r.subject.ID, Resource: res.ResourceKey, Action: res.Action},
					func() { r.sink.ActionNotConfigured(res.ResourceKey, res.Action) })
				if err != nil {
					return rd, err
				}
			}
			terms[i] = false
		}
	}

	rd.Allowed = Fold(terms, r.recordOperator)
	if rd.Reason == "" {
		rd.Reason = pdp_model.ReasonDenied
		if rd.Allowed {
			rd.Reason = pdp_model.ReasonGranted
		}
	}
	return rd, nil
}

func (r *run) records(ctx context.Context, resourceKey string) ([]EncodedRecord, error) {
	if r.store == nil {
		return nil, permy_errors.ErrStoreUnavailable
	}
	return r.store.RecordsFor(ctx, r.subject.ID, resourceKey)
}

// raise returns err in debug mode, otherwise fires notify and lets the
// evaluation carry on with a deny.
func (r *run) raise(err *permy_errors.DecisionError, notify func()) error {
	if r.debug {
		logger.Warn("Permission evaluation aborted", zap.Error(err))
		return err
	}
	logger.Debug("Permission defaulted to deny", zap.Error(err))
	notify()
	return nil
}
