package dao_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/permy/dao"
	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

type cypherCall struct {
	query  string
	params map[string]any
}

func stubQuery(calls *[]cypherCall, records []*neo4j.Record, err error) dao.QueryFunc {
	return func(_ context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
		*calls = append(*calls, cypherCall{query: query, params: params})
		return records, err
	}
}

func TestNeo4jStore_RecordsFor(t *testing.T) {
	var calls []cypherCall
	store := dao.NewNeo4jStore(stubQuery(&calls, []*neo4j.Record{
		{Keys: []string{"rule"}, Values: []any{`{"index":true}`}},
		{Keys: []string{"rule"}, Values: []any{nil}},
	}, nil), nil)

	records, err := store.RecordsFor(context.Background(), "42", "acme::admin::users")
	require.NoError(t, err)
	assert.Equal(t, []engine.EncodedRecord{engine.EncodedRecord(`{"index":true}`), nil}, records)

	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].query, "-[:HAS_PERMY]->(p:Permy)")
	assert.Contains(t, calls[0].query, "p[$resourceKey]")
	assert.Equal(t, map[string]any{"subjectId": "42", "resourceKey": "acme::admin::users"}, calls[0].params)
}

func TestNeo4jStore_FindSubject(t *testing.T) {
	var calls []cypherCall
	store := dao.NewNeo4jStore(stubQuery(&calls, []*neo4j.Record{
		{Keys: []string{"id", "name", "email"}, Values: []any{"42", "Alice", "alice@example.com"}},
	}, nil), nil)

	subject, err := store.FindSubject(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, &model.Subject{ID: "42", Type: model.SubjectTypeUser, Name: "Alice", Email: "alice@example.com"}, subject)

	_, err = dao.NewNeo4jStore(stubQuery(&calls, nil, nil), nil).FindSubject(context.Background(), "404")
	assert.ErrorIs(t, err, permy_errors.ErrSubjectNotFound)

	_, err = dao.NewNeo4jStore(stubQuery(&calls, nil, errors.New("unavailable")), nil).FindSubject(context.Background(), "1")
	assert.ErrorIs(t, err, permy_errors.ErrDatabaseOperation)
}
