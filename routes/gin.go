// routes/gin.go
package routes

import (
	"context"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/permy/model"
)

// RouteLister is satisfied by *gin.Engine.
type RouteLister interface {
	Routes() gin.RoutesInfo
}

// GinSource exposes the routes registered on a gin engine. Route names and
// middleware are not known to gin and come from the options.
type GinSource struct {
	engine      RouteLister
	names       map[string]string
	middleware  []string
	controllers map[string][]model.ControllerFilter
}

type GinOption func(*GinSource)

// WithNames names routes; keys have the form "METHOD /path".
func WithNames(names map[string]string) GinOption {
	return func(s *GinSource) {
		s.names = names
	}
}

// WithMiddleware lists the filters applied to every route of the engine.
func WithMiddleware(middleware ...string) GinOption {
	return func(s *GinSource) {
		s.middleware = middleware
	}
}

// WithControllerFilters declares filters per controller class.
func WithControllerFilters(filters map[string][]model.ControllerFilter) GinOption {
	return func(s *GinSource) {
		s.controllers = filters
	}
}

func NewGinSource(engine RouteLister, opts ...GinOption) *GinSource {
	s := &GinSource{engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GinSource) Load(ctx context.Context) (*Manifest, error) {
	info := s.engine.Routes()
	manifest := &Manifest{
		Routes:      make([]model.Route, 0, len(info)),
		Controllers: s.controllers,
		Version:     routesVersion(info),
	}
	for _, r := range info {
		manifest.Routes = append(manifest.Routes, model.Route{
			Name:       s.names[r.Method+" "+r.Path],
			Method:     r.Method,
			Path:       r.Path,
			Action:     HandlerAction(r.Handler),
			Middleware: s.middleware,
		})
	}
	return manifest, nil
}

// Version digests the sorted route list, so registering a route changes it.
func (s *GinSource) Version(ctx context.Context) (string, error) {
	return routesVersion(s.engine.Routes()), nil
}

func routesVersion(info gin.RoutesInfo) string {
	lines := make([]string, 0, len(info))
	for _, r := range info {
		lines = append(lines, r.Method+" "+r.Path+" "+r.Handler)
	}
	sort.Strings(lines)
	return digest([]byte(strings.Join(lines, "\n")))
}

// HandlerAction turns a gin handler name into a "Controller@method" action.
// Method values such as
// "github.com/acme/app/controller.(*UserController).List-fm" become
// `controller\UserController@List`. Plain functions and closures have no
// controller and yield "".
func HandlerAction(handler string) string {
	name := strings.TrimSuffix(handler, "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	parts := strings.Split(name, ".")
	if len(parts) != 3 {
		return ""
	}
	pkg, receiver, method := parts[0], parts[1], parts[2]
	receiver = strings.TrimSuffix(strings.TrimPrefix(receiver, "(*"), ")")
	receiver = strings.TrimPrefix(receiver, "(")
	if pkg == "" || receiver == "" || method == "" || strings.HasPrefix(method, "func") {
		return ""
	}
	return pkg + `\` + receiver + model.ActionSeparator + method
}
