package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasks_RequireAuthentication(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/todos"},
		{http.MethodPost, "/api/todos"},
		{http.MethodGet, "/api/todos/some-id"},
		{http.MethodPut, "/api/todos/some-id"},
		{http.MethodDelete, "/api/todos/some-id"},
		{http.MethodPatch, "/api/todos/some-id/complete"},
	} {
		rec := env.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "UNAUTHENTICATED", env.decode(rec)["error_code"])
	}
}

func TestTasks_RejectsMalformedAuthHeader(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	req := env.do(http.MethodGet, "/api/todos", "", nil)
	require.Equal(t, http.StatusUnauthorized, req.Code)

	rec := env.do(http.MethodGet, "/api/todos", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTasks_RejectsRefreshTokenOnProtectedRoute(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, _, refresh := env.register("Alice", "alice@example.com", "pw123456")

	rec := env.do(http.MethodGet, "/api/todos", refresh, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTasks_CreateAndListScenario(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, access, _ := env.register("Alice", "alice@example.com", "pw123456")

	rec := env.do(http.MethodPost, "/api/todos", access, map[string]string{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code)

	task := env.decode(rec)
	assert.Equal(t, "Buy milk", task["title"])
	assert.Equal(t, false, task["completed"])
	assert.Equal(t, "medium", task["priority"])

	list := env.do(http.MethodGet, "/api/todos", access, nil)
	require.Equal(t, http.StatusOK, list.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0]["title"])
}

func TestTasks_CreateCoercesInvalidPriority(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, access, _ := env.register("Alice", "alice@example.com", "pw123456")

	rec := env.do(http.MethodPost, "/api/todos", access, map[string]string{
		"title":    "urgent thing",
		"priority": "URGENT",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "medium", env.decode(rec)["priority"])
}

func TestTasks_CreateValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, access, _ := env.register("Alice", "alice@example.com", "pw123456")

	rec := env.do(http.MethodPost, "/api/todos", access, map[string]string{"title": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.decode(rec)["error_code"])
}

func TestTasks_CrossUserAccessIsNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, aliceTok, _ := env.register("Alice", "alice@example.com", "pw123456")
	_, bobTok, _ := env.register("Bob", "bob@example.com", "pw123456")

	rec := env.do(http.MethodPost, "/api/todos", aliceTok, map[string]string{"title": "private"})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID := env.decode(rec)["id"].(string)

	get := env.do(http.MethodGet, "/api/todos/"+taskID, bobTok, nil)
	assert.Equal(t, http.StatusNotFound, get.Code)

	put := env.do(http.MethodPut, "/api/todos/"+taskID, bobTok, map[string]string{"title": "hijacked"})
	assert.Equal(t, http.StatusNotFound, put.Code)

	del := env.do(http.MethodDelete, "/api/todos/"+taskID, bobTok, nil)
	assert.Equal(t, http.StatusNotFound, del.Code)

	patch := env.do(http.MethodPatch, "/api/todos/"+taskID+"/complete", bobTok, nil)
	assert.Equal(t, http.StatusNotFound, patch.Code)

	// The task is unchanged for its owner.
	own := env.do(http.MethodGet, "/api/todos/"+taskID, aliceTok, nil)
	require.Equal(t, http.StatusOK, own.Code)
	task := env.decode(own)
	assert.Equal(t, "private", task["title"])
	assert.Equal(t, false, task["completed"])
}

func TestTasks_ListStatusFilter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, access, _ := env.register("Alice", "alice@example.com", "pw123456")
	_, bobTok, _ := env.register("Bob", "bob@example.com", "pw123456")

	rec := env.do(http.MethodPost, "/api/todos", access, map[string]string{"title": "done"})
	doneID := env.decode(rec)["id"].(string)
	env.do(http.MethodPost, "/api/todos", access, map[string]string{"title": "open"})
	env.do(http.MethodPost, "/api/todos", bobTok, map[string]string{"title": "bobs done"})

	patch := env.do(http.MethodPatch, "/api/todos/"+doneID+"/complete", access, nil)
	require.Equal(t, http.StatusOK, patch.Code)

	list := env.do(http.MethodGet, "/api/todos?status=completed", access, nil)
	require.Equal(t, http.StatusOK, list.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "done", items[0]["title"])
	assert.Equal(t, true, items[0]["completed"])
}

func TestTasks_UpdatePartial(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, access, _ := env.register("Alice", "alice@example.com", "pw123456")

	rec := env.do(http.MethodPost, "/api/todos", access, map[string]string{
		"title":       "original",
		"description": "desc",
		"priority":    "high",
	})
	taskID := env.decode(rec)["id"].(string)

	put := env.do(http.MethodPut, "/api/todos/"+taskID, access, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, put.Code)

	task := env.decode(put)
	assert.Equal(t, true, task["completed"])
	assert.Equal(t, "original", task["title"])
	assert.Equal(t, "desc", task["description"])
	assert.Equal(t, "high", task["priority"])
}

func TestTasks_ToggleVariants(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, access, _ := env.register("Alice", "alice@example.com", "pw123456")

	rec := env.do(http.MethodPost, "/api/todos", access, map[string]string{"title": "t"})
	taskID := env.decode(rec)["id"].(string)

	// No body: pure toggle.
	flip := env.do(http.MethodPatch, "/api/todos/"+taskID+"/complete", access, nil)
	require.Equal(t, http.StatusOK, flip.Code)
	assert.Equal(t, true, env.decode(flip)["completed"])

	// Explicit body: set to the requested value.
	set := env.do(http.MethodPatch, "/api/todos/"+taskID+"/complete", access, map[string]any{"completed": false})
	require.Equal(t, http.StatusOK, set.Code)
	assert.Equal(t, false, env.decode(set)["completed"])
}

func TestTasks_Delete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, access, _ := env.register("Alice", "alice@example.com", "pw123456")

	rec := env.do(http.MethodPost, "/api/todos", access, map[string]string{"title": "t"})
	taskID := env.decode(rec)["id"].(string)

	del := env.do(http.MethodDelete, "/api/todos/"+taskID, access, nil)
	require.Equal(t, http.StatusOK, del.Code)

	again := env.do(http.MethodDelete, "/api/todos/"+taskID, access, nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestUsers_OwnerGate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	aliceID, aliceTok, _ := env.register("Alice", "alice@example.com", "pw123456")
	bobID, _, _ := env.register("Bob", "bob@example.com", "pw123456")

	own := env.do(http.MethodGet, "/api/users/"+aliceID, aliceTok, nil)
	require.Equal(t, http.StatusOK, own.Code)
	assert.Equal(t, "Alice", env.decode(own)["name"])

	other := env.do(http.MethodGet, "/api/users/"+bobID, aliceTok, nil)
	require.Equal(t, http.StatusForbidden, other.Code)
	assert.Equal(t, "FORBIDDEN", env.decode(other)["error_code"])

	del := env.do(http.MethodDelete, "/api/users/"+bobID, aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, del.Code)
}

func TestUsers_UpdateName(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	aliceID, aliceTok, _ := env.register("Alice", "alice@example.com", "pw123456")

	rec := env.do(http.MethodPut, "/api/users/"+aliceID, aliceTok, map[string]string{"name": "Alice B"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice B", env.decode(rec)["name"])
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := env.decode(rec)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, true, resp["database_connected"])
}
