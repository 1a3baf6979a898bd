package engine

import (
	"context"
	"strings"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	"github.com/dev-mohitbeniwal/permy/model"
)

// RouteHandle is an already-resolved route of the host application.
type RouteHandle interface {
	URI() string
	ControllerAction() (string, bool)
}

// RouteResolver looks routes up in the host application's route table.
type RouteResolver interface {
	ResolveByName(ctx context.Context, name string) (RouteHandle, bool)
	ResolveByAction(ctx context.Context, action string) (RouteHandle, bool)
}

// RouteRef references a protected resource: a route name, a
// "Namespace\Controller@method" action string or a route handle.
type RouteRef struct {
	handle RouteHandle
	ref    string
}

// Ref builds a reference from a route name or action string.
func Ref(ref string) RouteRef {
	return RouteRef{ref: strings.TrimSpace(ref)}
}

// RefHandle wraps a route that has already been resolved.
func RefHandle(handle RouteHandle) RouteRef {
	return RouteRef{handle: handle}
}

// Refs builds one reference per string.
func Refs(refs ...string) []RouteRef {
	out := make([]RouteRef, 0, len(refs))
	for _, ref := range refs {
		out = append(out, Ref(ref))
	}
	return out
}

// ParseRefs splits a comma separated list of route names and action strings.
func ParseRefs(list string) []RouteRef {
	var out []RouteRef
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, Ref(part))
		}
	}
	return out
}

// IsAction reports whether the reference is a "Controller@method" string.
func (r RouteRef) IsAction() bool {
	return r.handle == nil && strings.Contains(r.ref, model.ActionSeparator)
}

func (r RouteRef) String() string {
	if r.handle != nil {
		return r.handle.URI()
	}
	return r.ref
}

// Resolution is the canonical form of a RouteRef.
type Resolution struct {
	URI         string
	ResourceKey string
	Action      string
}

// Resolver turns route references into resource keys and action names.
type Resolver struct {
	routes RouteResolver
}

func NewResolver(routes RouteResolver) *Resolver {
	return &Resolver{routes: routes}
}

// Resolve returns ErrResourceNotConfigured when the route cannot be found or
// carries no controller action. The returned Resolution always holds the URI
// (or the original reference) for notifications.
func (r *Resolver) Resolve(ctx context.Context, ref RouteRef) (Resolution, error) {
	handle := ref.handle
	if handle == nil {
		found, ok := r.lookup(ctx, ref)
		if !ok {
			return Resolution{URI: ref.ref}, permy_errors.ErrResourceNotConfigured
		}
		handle = found
	}

	res := Resolution{URI: handle.URI()}
	action, ok := handle.ControllerAction()
	if !ok {
		return res, permy_errors.ErrResourceNotConfigured
	}
	controller, method, ok := model.SplitAction(action)
	if !ok {
		return res, permy_errors.ErrResourceNotConfigured
	}

	res.ResourceKey = FormatControllerName(controller)
	res.Action = method
	return res, nil
}

func (r *Resolver) lookup(ctx context.Context, ref RouteRef) (RouteHandle, bool) {
	if r.routes == nil || ref.ref == "" {
		return nil, false
	}
	if ref.IsAction() {
		return r.routes.ResolveByAction(ctx, ref.ref)
	}
	return r.routes.ResolveByName(ctx, ref.ref)
}

const (
	controllerSuffix   = "Controller"
	namespaceDelimiter = "::"
)

// FormatControllerName converts a controller class into its resource key:
// namespace separators become "::", the trailing "Controller" token is
// dropped and the result is lower-cased. Acme\Admin\UsersController becomes
// acme::admin::users.
//
// Distinct namespaces never collide, but the suffix strip can: App\Users and
// App\UsersController both map to app::users, as do App\Http\Controller and
// App\Http\ControllerController. Such classes share their permissions;
// routes.Table reports them in Collisions.
func FormatControllerName(controller string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(controller), "/", `\`)

	var segments []string
	for _, segment := range strings.Split(normalized, `\`) {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return ""
	}

	last := len(segments) - 1
	if trimmed := strings.TrimSuffix(segments[last], controllerSuffix); trimmed != "" {
		segments[last] = trimmed
	}
	return strings.ToLower(strings.Join(segments, namespaceDelimiter))
}
