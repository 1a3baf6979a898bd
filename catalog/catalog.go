// catalog/catalog.go
package catalog

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
	"github.com/dev-mohitbeniwal/permy/routes"
)

// Hooks observe changes made to the label file.
type Hooks interface {
	ControllerAppended(resourceKey string)
	MethodAppended(resourceKey, method string)
	FileUpdateError(err error)
}

// HookFuncs adapts closures to Hooks. Nil fields are skipped.
type HookFuncs struct {
	OnControllerAppended func(resourceKey string)
	OnMethodAppended     func(resourceKey, method string)
	OnFileUpdateError    func(err error)
}

func (h HookFuncs) ControllerAppended(resourceKey string) {
	if h.OnControllerAppended != nil {
		h.OnControllerAppended(resourceKey)
	}
}

func (h HookFuncs) MethodAppended(resourceKey, method string) {
	if h.OnMethodAppended != nil {
		h.OnMethodAppended(resourceKey, method)
	}
}

func (h HookFuncs) FileUpdateError(err error) {
	if h.OnFileUpdateError != nil {
		h.OnFileUpdateError(err)
	}
}

// TableProvider is satisfied by *routes.Cache.
type TableProvider interface {
	Table(ctx context.Context) (*routes.Table, error)
}

// Builder lists every guarded controller method with its labels, adding
// placeholders for the ones missing from the label file.
type Builder struct {
	routes  TableProvider
	labels  LabelStore
	filters map[string]struct{}
	hooks   Hooks
}

func NewBuilder(routes TableProvider, labels LabelStore, filters []string, hooks Hooks) *Builder {
	set := make(map[string]struct{}, len(filters))
	for _, f := range filters {
		set[f] = struct{}{}
	}
	if hooks == nil {
		hooks = HookFuncs{}
	}
	return &Builder{routes: routes, labels: labels, filters: set, hooks: hooks}
}

// Build returns the catalog of guarded resources. The label file is only
// written when entries were appended; a failed write is reported through
// Hooks.FileUpdateError and does not fail the build.
func (b *Builder) Build(ctx context.Context) (model.Catalog, error) {
	table, err := b.routes.Table(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := b.labels.Load()
	if err != nil {
		return nil, err
	}

	changed := false
	for _, route := range table.Routes {
		action, ok := route.ControllerAction()
		if !ok {
			continue
		}
		controller, method, ok := model.SplitAction(action)
		if !ok || !b.guarded(table, route, controller, method) {
			continue
		}

		key := engine.FormatControllerName(controller)
		entry, ok := labels[key]
		if !ok {
			entry = controllerLabels(key)
			changed = true
			b.hooks.ControllerAppended(key)
		}
		if entry.Methods == nil {
			entry.Methods = map[string]model.Label{}
		}
		if _, ok := entry.Methods[method]; !ok {
			entry.Methods[method] = methodLabel(key, method)
			changed = true
			b.hooks.MethodAppended(key, method)
		}
		labels[key] = entry
	}

	if changed {
		if err := b.labels.Save(labels); err != nil {
			logger.Warn("Failed to update permission labels", zap.Error(err))
			b.hooks.FileUpdateError(err)
		}
	}
	return labels, nil
}

// guarded reports whether one of the configured filters protects the route,
// either on the route itself or through the controller.
func (b *Builder) guarded(table *routes.Table, route model.Route, controller, method string) bool {
	for _, m := range route.Middleware {
		if _, ok := b.filters[m]; ok {
			return true
		}
	}
	for _, f := range table.FiltersFor(controller) {
		if _, ok := b.filters[f.Name]; !ok {
			continue
		}
		if f.AppliesTo(method) {
			return true
		}
	}
	return false
}
