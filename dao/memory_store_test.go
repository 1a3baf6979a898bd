package dao_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/permy/dao"
	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

const fixturesYAML = `
subjects:
  - id: "1"
    name: alice
  - id: "2"
    type: robot
records:
  - id: editors
    name: Editors
    rules:
      acme::post: '{"show": true, "edit": true}'
  - id: auditors
    name: Auditors
    rules:
      acme::post: |
        {
          // read only
          "show": true,
          "edit": false,
        }
assignments:
  - subject_id: "1"
    permy_id: editors
  - subject_id: "1"
    permy_id: auditors
`

func TestMemoryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixturesYAML), 0o644))

	store, err := dao.LoadMemoryStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	alice, err := store.FindSubject(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "user", alice.Type)

	robot, err := store.FindSubject(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "robot", robot.Type)

	_, err = store.FindSubject(ctx, "3")
	assert.ErrorIs(t, err, permy_errors.ErrSubjectNotFound)

	records, err := store.RecordsFor(ctx, "1", "acme::post")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, engine.Allow, engine.Decode(records[0]).Get("edit"))
	assert.Equal(t, engine.Deny, engine.Decode(records[1]).Get("edit"))

	records, err = store.RecordsFor(ctx, "1", "acme::users")
	require.NoError(t, err)
	assert.Equal(t, []engine.EncodedRecord{nil, nil}, records)

	records, err = store.RecordsFor(ctx, "2", "acme::post")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryStore_InvalidFixtures(t *testing.T) {
	_, err := dao.NewMemoryStore(dao.Fixtures{
		Assignments: []model.Assignment{{SubjectID: "1", PermyID: "ghost"}},
	})
	assert.ErrorIs(t, err, permy_errors.ErrInvalidFixtures)
}
