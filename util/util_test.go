package util_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdp_model "github.com/dev-mohitbeniwal/permy/pdp/model"
	"github.com/dev-mohitbeniwal/permy/util"
	helper_util "github.com/dev-mohitbeniwal/permy/util/helper"
)

func TestEventBus_Publish(t *testing.T) {
	bus := util.NewEventBus()
	var calls atomic.Int32
	var payload atomic.Value

	bus.Subscribe(util.EventPermissionChecked, func(ctx context.Context, e util.Event) error {
		calls.Add(1)
		payload.Store(e.Payload)
		return nil
	})
	bus.Subscribe(util.EventPermissionChecked, func(ctx context.Context, e util.Event) error {
		calls.Add(1)
		return errors.New("handler failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, util.EventPermissionChecked, "decision-1")
	cancel()
	bus.Publish(ctx, "unknown.event", nil)
	bus.Wait()

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "decision-1", payload.Load())
	select {
	case err := <-bus.Errors():
		assert.ErrorContains(t, err, "handler failed")
	case <-time.After(time.Second):
		t.Fatal("expected handler error")
	}
}

func TestValidateCheckRequest(t *testing.T) {
	v := util.NewValidationUtil()

	req := &pdp_model.CheckRequest{SubjectID: " 42 ", Resources: []string{" users.index ", "", "posts.show"}}
	require.NoError(t, v.ValidateCheckRequest(req))
	assert.Equal(t, "42", req.SubjectID)
	assert.Equal(t, []string{"users.index", "posts.show"}, req.Resources)

	assert.Error(t, v.ValidateCheckRequest(&pdp_model.CheckRequest{SubjectID: " ", Resources: []string{"a"}}))
	assert.Error(t, v.ValidateCheckRequest(&pdp_model.CheckRequest{SubjectID: "1", Resources: []string{" "}}))
	assert.Error(t, v.ValidateCheckRequest(&pdp_model.CheckRequest{SubjectID: "1", Resources: make([]string, util.MaxResourcesPerCheck+1)}))

	many := make([]string, util.MaxResourcesPerCheck+1)
	for i := range many {
		many[i] = "r"
	}
	assert.Error(t, v.ValidateCheckRequest(&pdp_model.CheckRequest{SubjectID: "1", Resources: many}))
}

// queryContext builds a fresh context per query: gin caches the parsed
// query string on first access.
func queryContext(query string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/"+query, nil)
	return c
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		expectedLimit  int
		expectedOffset int
		expectError    bool
	}{
		{name: "Explicit values", query: "?limit=20&offset=40", expectedLimit: 20, expectedOffset: 40},
		{name: "Defaults", query: "", expectedLimit: 50, expectedOffset: 0},
		{name: "Upper bound", query: "?limit=500", expectedLimit: 500, expectedOffset: 0},
		{name: "Zero limit", query: "?limit=0", expectError: true},
		{name: "Limit too large", query: "?limit=501", expectError: true},
		{name: "Negative offset", query: "?offset=-1", expectError: true},
		{name: "Not a number", query: "?limit=ten", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := helper_util.GetPaginationParams(queryContext(tt.query))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLimit, limit)
			assert.Equal(t, tt.expectedOffset, offset)
		})
	}
}

func TestHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := queryContext("")

	_, ok := util.GetSubjectIDFromContext(c)
	assert.False(t, ok)
	c.Set(util.ContextSubjectID, "42")
	id, ok := util.GetSubjectIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	from, to, err := helper_util.ParseTimeRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, now, to)
	assert.Equal(t, now.Add(-24*time.Hour), from)

	_, _, err = helper_util.ParseTimeRange("yesterday", "", now)
	assert.Error(t, err)
}
