package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/permy/catalog"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/routes"
)

type staticTable struct {
	table *routes.Table
}

func (s staticTable) Table(context.Context) (*routes.Table, error) {
	return s.table, nil
}

type memoryLabels struct {
	catalog model.Catalog
	saves   int
	err     error
}

func (m *memoryLabels) Load() (model.Catalog, error) {
	return m.catalog, nil
}

func (m *memoryLabels) Save(c model.Catalog) error {
	m.saves++
	return m.err
}

func testTable() *routes.Table {
	return &routes.Table{
		Routes: []model.Route{
			{Name: "users.index", Path: "admin/users", Action: `Acme\Admin\UsersController@index`, Middleware: []string{"auth", "permy"}},
			{Name: "users.store", Path: "admin/users", Action: `Acme\Admin\UsersController@store`},
			{Name: "posts.show", Path: "posts", Action: `Acme\PostController@show`},
			{Name: "posts.edit", Path: "posts/edit", Action: `Acme\PostController@edit`},
			{Name: "reports", Path: "reports", Action: `Acme\ReportController@index`, Middleware: []string{"auth"}},
			{Name: "home", Path: "/"},
		},
		Filters: map[string][]model.ControllerFilter{
			`Acme\PostController`: {
				{Name: "csrf"},
				{Name: "permy", Only: []string{"edit"}},
			},
		},
	}
}

func TestBuilder_AppendsDefaults(t *testing.T) {
	labels := &memoryLabels{catalog: model.Catalog{
		"acme::admin::users": {Name: "Users", Desc: "Manage users", Methods: map[string]model.Label{
			"index": {Name: "List", Desc: "List users"},
		}},
	}}

	var controllers, methods []string
	hooks := catalog.HookFuncs{
		OnControllerAppended: func(key string) { controllers = append(controllers, key) },
		OnMethodAppended:     func(key, method string) { methods = append(methods, key+"@"+method) },
	}

	got, err := catalog.NewBuilder(staticTable{testTable()}, labels, []string{"permy"}, hooks).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"acme::admin::users", "acme::post"}, got.Keys())
	assert.Equal(t, "List", got["acme::admin::users"].Methods["index"].Name)
	assert.NotContains(t, got["acme::admin::users"].Methods, "store")

	post := got["acme::post"]
	assert.Equal(t, "* acme::post - please update", post.Name)
	assert.Equal(t, "* The developer was way to busy to care describing the acme::post class", post.Desc)
	assert.Equal(t, model.Label{
		Name: "* acme::post@edit - please update",
		Desc: "* The developer was way to busy to care describing the edit method of acme::post class",
	}, post.Methods["edit"])
	assert.NotContains(t, post.Methods, "show")

	assert.Equal(t, []string{"acme::post"}, controllers)
	assert.Equal(t, []string{"acme::post@edit"}, methods)
	assert.Equal(t, 1, labels.saves)
}

func TestBuilder_UpToDateDoesNotWrite(t *testing.T) {
	labels := &memoryLabels{catalog: model.Catalog{}}
	b := catalog.NewBuilder(staticTable{testTable()}, labels, []string{"permy"}, nil)

	_, err := b.Build(context.Background())
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, labels.saves)
}

func TestBuilder_FileUpdateError(t *testing.T) {
	labels := &memoryLabels{catalog: model.Catalog{}, err: errors.New("read-only")}
	var reported error
	b := catalog.NewBuilder(staticTable{testTable()}, labels, []string{"auth"},
		catalog.HookFuncs{OnFileUpdateError: func(err error) { reported = err }})

	got, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"acme::admin::users", "acme::report"}, got.Keys())
	assert.EqualError(t, reported, "read-only")
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lang", "permy.yaml")
	store := catalog.NewFileStore(path)

	empty, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, empty)

	c := model.Catalog{"acme::post": {Name: "Posts", Desc: "Blog posts", Methods: map[string]model.Label{
		"show": {Name: "Show", Desc: "Show a post"},
	}}}
	require.NoError(t, store.Save(c))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	require.NoError(t, os.WriteFile(path, []byte("acme: ["), 0o644))
	_, err = store.Load()
	assert.Error(t, err)
}
