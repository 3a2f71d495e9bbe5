package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/testutil"
)

func TestRoleHandler_CRUD(t *testing.T) {
	tc, cleanup := setupRouter(t)
	defer cleanup()

	w := tc.do("POST", "/role", []map[string]interface{}{
		{"name": "admin", "description": "全部权限"},
		{"name": "reader"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	roles := parseList(t, w)
	require.Len(t, roles, 2)
	id := roles[0]["id"]

	w = tc.do("PATCH", fmt.Sprintf("/role/%v", id), map[string]interface{}{"name": "owner"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner", parseObject(t, w)["name"])

	w = tc.do("GET", "/role", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseList(t, w), 2)

	w = tc.do("DELETE", fmt.Sprintf("/role/%v", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assertNotFound(t, tc.do("GET", fmt.Sprintf("/role/%v", id), nil))
}

func TestRoleHandler_Create_Invalid(t *testing.T) {
	tc, cleanup := setupRouter(t)
	defer cleanup()

	w := tc.do("POST", "/role", []map[string]interface{}{{"description": "no name"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	first := parseObject(t, w)["0"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Missing data for required field."}, first["name"])
}

func TestRoleHandler_DuplicateName(t *testing.T) {
	tc, cleanup := setupRouter(t)
	defer cleanup()

	testutil.TestRole(t, tc.DB, "admin")

	w := tc.do("POST", "/role", []map[string]interface{}{{"name": "admin"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, int64(1), testutil.Count(t, tc.DB, &model.Role{}))
}
