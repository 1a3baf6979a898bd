// routes/cache.go
package routes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

// Table is an immutable, indexed snapshot of a Manifest.
type Table struct {
	Version  string
	Routes   []model.Route
	Filters  map[string][]model.ControllerFilter
	byName   map[string]int
	byAction map[string]int

	// Collisions maps a resource key to the controller classes sharing it.
	Collisions map[string][]string
}

func newTable(version string, manifest *Manifest) *Table {
	t := &Table{
		Version:  version,
		Routes:   manifest.Routes,
		Filters:  manifest.Controllers,
		byName:   make(map[string]int, len(manifest.Routes)),
		byAction: make(map[string]int, len(manifest.Routes)),
	}
	for i, r := range manifest.Routes {
		// The first registration wins, as in the host router.
		if r.Name != "" {
			if _, ok := t.byName[r.Name]; !ok {
				t.byName[r.Name] = i
			}
		}
		if action := NormalizeAction(r.Action); action != "" {
			if _, ok := t.byAction[action]; !ok {
				t.byAction[action] = i
			}
		}
	}
	t.Collisions = keyCollisions(manifest.Routes)
	for key, controllers := range t.Collisions {
		logger.Warn("Controllers share a resource key, their permissions are merged",
			zap.String("resourceKey", key),
			zap.Strings("controllers", controllers))
	}
	return t
}

// keyCollisions returns the resource keys claimed by more than one
// controller class, with the sorted classes claiming each.
func keyCollisions(routes []model.Route) map[string][]string {
	byKey := make(map[string][]string)
	seen := make(map[string]bool)
	for _, r := range routes {
		controller, _, ok := strings.Cut(NormalizeAction(r.Action), model.ActionSeparator)
		if !ok || controller == "" || seen[controller] {
			continue
		}
		seen[controller] = true
		key := engine.FormatControllerName(controller)
		byKey[key] = append(byKey[key], controller)
	}

	collisions := make(map[string][]string)
	for key, controllers := range byKey {
		if len(controllers) > 1 {
			sort.Strings(controllers)
			collisions[key] = controllers
		}
	}
	return collisions
}

// FiltersFor returns the controller level filters of a controller class.
func (t *Table) FiltersFor(controller string) []model.ControllerFilter {
	return t.Filters[NormalizeAction(controller)]
}

// Cache resolves route references against a lazily built snapshot of a
// Source. The snapshot is swapped atomically, so lookups never block on a
// rebuild.
type Cache struct {
	source   Source
	snapshot atomic.Pointer[Table]
	mu       sync.Mutex
}

var _ engine.RouteResolver = (*Cache)(nil)

func NewCache(source Source) *Cache {
	return &Cache{source: source}
}

// Table returns the current snapshot, building it on first use.
func (c *Cache) Table(ctx context.Context) (*Table, error) {
	if t := c.snapshot.Load(); t != nil {
		return t, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.snapshot.Load(); t != nil {
		return t, nil
	}
	return c.rebuild(ctx)
}

// Refresh rebuilds the snapshot when the source reports a new version. It
// reports whether a rebuild happened.
func (c *Cache) Refresh(ctx context.Context) (bool, error) {
	version, err := c.source.Version(ctx)
	if err != nil {
		return false, err
	}
	if t := c.snapshot.Load(); t != nil && t.Version == version {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.snapshot.Load(); t != nil && t.Version == version {
		return false, nil
	}
	if _, err := c.rebuild(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate drops the snapshot; the next lookup rebuilds it.
func (c *Cache) Invalidate() {
	c.snapshot.Store(nil)
}

// Routes returns every route of the current snapshot.
func (c *Cache) Routes(ctx context.Context) ([]model.Route, error) {
	t, err := c.Table(ctx)
	if err != nil {
		return nil, err
	}
	return t.Routes, nil
}

func (c *Cache) ResolveByName(ctx context.Context, name string) (engine.RouteHandle, bool) {
	t, ok := c.table(ctx)
	if !ok {
		return nil, false
	}
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.Routes[i], true
}

func (c *Cache) ResolveByAction(ctx context.Context, action string) (engine.RouteHandle, bool) {
	t, ok := c.table(ctx)
	if !ok {
		return nil, false
	}
	i, ok := t.byAction[NormalizeAction(action)]
	if !ok {
		return nil, false
	}
	return t.Routes[i], true
}

func (c *Cache) table(ctx context.Context) (*Table, bool) {
	t, err := c.Table(ctx)
	if err != nil {
		logger.Error("Failed to load route table", zap.Error(err))
		return nil, false
	}
	return t, true
}

// rebuild must be called with mu held. The snapshot takes the version
// stamped by Load. For sources that do not stamp one the version is read
// before loading, so a change racing the load only costs an extra rebuild.
func (c *Cache) rebuild(ctx context.Context) (*Table, error) {
	version, err := c.source.Version(ctx)
	if err != nil {
		return nil, err
	}
	manifest, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if manifest.Version != "" {
		version = manifest.Version
	}
	t := newTable(version, manifest)
	c.snapshot.Store(t)
	logger.Info("Route table built",
		zap.String("version", version),
		zap.Int("routes", len(t.Routes)))
	return t, nil
}
