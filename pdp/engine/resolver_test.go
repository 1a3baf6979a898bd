package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

// routeTable is an in-memory RouteResolver keyed by name and action.
type routeTable []model.Route

func (t routeTable) ResolveByName(_ context.Context, name string) (engine.RouteHandle, bool) {
	for _, r := range t {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

func (t routeTable) ResolveByAction(_ context.Context, action string) (engine.RouteHandle, bool) {
	for _, r := range t {
		if r.Action == action {
			return r, true
		}
	}
	return nil, false
}

func TestFormatControllerName(t *testing.T) {
	tests := map[string]string{
		`Acme\Admin\UsersController`:    "acme::admin::users",
		`\App\Http\PostController`:      "app::http::post",
		`App/Http/PostController`:       "app::http::post",
		`Reports`:                       "reports",
		`App\Controller`:                "app::controller",
		``:                              "",
		`App\Http\ControllerController`: "app::http::controller",
	}
	for in, want := range tests {
		assert.Equal(t, want, engine.FormatControllerName(in), in)
	}

	// The suffix strip makes these pairs share a key.
	assert.Equal(t, engine.FormatControllerName(`App\Users`), engine.FormatControllerName(`App\UsersController`))
	assert.Equal(t, engine.FormatControllerName(`App\Http\Controller`), engine.FormatControllerName(`App\Http\ControllerController`))
	assert.NotEqual(t, engine.FormatControllerName(`App\Admin\Users`), engine.FormatControllerName(`App\AdminUsers`))
}

func TestResolver_Resolve(t *testing.T) {
	routes := routeTable{
		{Name: "users.index", Path: "admin/users", Action: `Acme\Admin\UsersController@index`},
		{Name: "home", Path: "/", Action: ""},
	}
	resolver := engine.NewResolver(routes)
	ctx := context.Background()

	t.Run("by name", func(t *testing.T) {
		res, err := resolver.Resolve(ctx, engine.Ref("users.index"))
		require.NoError(t, err)
		assert.Equal(t, "admin/users", res.URI)
		assert.Equal(t, "acme::admin::users", res.ResourceKey)
		assert.Equal(t, "index", res.Action)
	})

	t.Run("by action", func(t *testing.T) {
		res, err := resolver.Resolve(ctx, engine.Ref(`Acme\Admin\UsersController@index`))
		require.NoError(t, err)
		assert.Equal(t, "acme::admin::users", res.ResourceKey)
	})

	t.Run("handle", func(t *testing.T) {
		res, err := resolver.Resolve(ctx, engine.RefHandle(model.Route{Path: "posts", Action: `PostController@show`}))
		require.NoError(t, err)
		assert.Equal(t, "post", res.ResourceKey)
		assert.Equal(t, "show", res.Action)
	})

	t.Run("unknown keeps original reference", func(t *testing.T) {
		res, err := resolver.Resolve(ctx, engine.Ref("missing.route"))
		assert.ErrorIs(t, err, permy_errors.ErrResourceNotConfigured)
		assert.Equal(t, "missing.route", res.URI)
	})

	t.Run("closure route", func(t *testing.T) {
		res, err := resolver.Resolve(ctx, engine.Ref("home"))
		assert.ErrorIs(t, err, permy_errors.ErrResourceNotConfigured)
		assert.Equal(t, "/", res.URI)
	})

	t.Run("nil table", func(t *testing.T) {
		_, err := engine.NewResolver(nil).Resolve(ctx, engine.Ref("users.index"))
		assert.ErrorIs(t, err, permy_errors.ErrResourceNotConfigured)
	})
}

func TestParseRefs(t *testing.T) {
	refs := engine.ParseRefs(` users.index, ,Acme\PostController@show `)
	require.Len(t, refs, 2)
	assert.Equal(t, "users.index", refs[0].String())
	assert.False(t, refs[0].IsAction())
	assert.True(t, refs[1].IsAction())
}
