package dao_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/permy/dao"
	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

func TestPgStore_FindSubject(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	store := dao.NewPgStore(conn)

	mock.ExpectQuery("select id, name, email.*from users").
		WithArgs("42").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow("42", "Alice", nil))

	subject, err := store.FindSubject(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, &model.Subject{ID: "42", Type: model.SubjectTypeUser, Name: "Alice"}, subject)

	mock.ExpectQuery("select id, name, email.*from users").
		WithArgs("404").
		WillReturnError(sql.ErrNoRows)
	_, err = store.FindSubject(context.Background(), "404")
	assert.ErrorIs(t, err, permy_errors.ErrSubjectNotFound)

	mock.ExpectQuery("select id, name, email.*from users").
		WithArgs("500").
		WillReturnError(errors.New("connection reset"))
	_, err = store.FindSubject(context.Background(), "500")
	assert.ErrorIs(t, err, permy_errors.ErrDatabaseOperation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStore_RecordsFor(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	store := dao.NewPgStore(conn)

	mock.ExpectQuery("select r.actions.*from permy_user pu.*left join permy_rules").
		WithArgs("42", "acme::admin::users").
		WillReturnRows(sqlmock.NewRows([]string{"actions"}).
			AddRow([]byte(`{"index":true}`)).
			AddRow(nil))

	records, err := store.RecordsFor(context.Background(), "42", "acme::admin::users")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, engine.EncodedRecord(`{"index":true}`), records[0])
	assert.Nil(t, records[1])

	mock.ExpectQuery("select r.actions.*from permy_user").
		WithArgs("7", "acme::post").
		WillReturnRows(sqlmock.NewRows([]string{"actions"}))
	records, err = store.RecordsFor(context.Background(), "7", "acme::post")
	require.NoError(t, err)
	assert.Empty(t, records)

	mock.ExpectQuery("select r.actions.*from permy_user").
		WithArgs("7", "acme::post").
		WillReturnError(errors.New("timeout"))
	_, err = store.RecordsFor(context.Background(), "7", "acme::post")
	assert.ErrorIs(t, err, permy_errors.ErrDatabaseOperation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStore_NoConnection(t *testing.T) {
	store := dao.NewPgStore(nil)
	_, err := store.RecordsFor(context.Background(), "1", "acme::post")
	assert.ErrorIs(t, err, permy_errors.ErrDatabaseOperation)
}
