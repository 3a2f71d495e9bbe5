package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/blog_server/internal/service"
	"github.com/qs3c/blog_server/internal/testutil"
)

func parentErrors(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	msgs, ok := body["parent_comment_id"].([]interface{})
	require.True(t, ok, body)
	return msgs
}

func TestCommentHandler_CreateReply(t *testing.T) {
	tc, cleanup := setupRouter(t)
	defer cleanup()

	user := testutil.TestUser(t, tc.DB, testutil.WithProfile("Linus", ""))
	post := testutil.TestPost(t, tc.DB, &user.ID)
	parent := testutil.TestComment(t, tc.DB, post.ID, user.ID)

	w := tc.do("POST", "/comment", []map[string]interface{}{
		{"body": "reply", "post_id": post.ID, "commented_by": user.ID, "parent_comment_id": parent.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(parent.ID), parseList(t, w)[0]["parent_comment_id"])

	w = tc.do("GET", fmt.Sprintf("/comment/%d", parent.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	children := parseObject(t, w)["children_comment"].([]interface{})
	require.Len(t, children, 1)
	assert.Equal(t, "reply", children[0].(map[string]interface{})["body"])
}

func TestCommentHandler_ParentPolicy(t *testing.T) {
	tc, cleanup := setupRouter(t)
	defer cleanup()

	user := testutil.TestUser(t, tc.DB)
	post := testutil.TestPost(t, tc.DB, &user.ID)
	other := testutil.TestPost(t, tc.DB, &user.ID)
	root := testutil.TestComment(t, tc.DB, post.ID, user.ID)
	child := testutil.TestReply(t, tc.DB, root, user.ID)
	grandchild := testutil.TestReply(t, tc.DB, child, user.ID)
	foreign := testutil.TestComment(t, tc.DB, other.ID, user.ID)

	t.Run("create with missing parent", func(t *testing.T) {
		w := tc.do("POST", "/comment", []map[string]interface{}{
			{"body": "x", "post_id": post.ID, "commented_by": user.ID, "parent_comment_id": 9999},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		first := parseObject(t, w)["0"].(map[string]interface{})
		assert.Equal(t, []interface{}{service.MsgParentNotFound}, parentErrors(t, first))
	})

	t.Run("create under other post", func(t *testing.T) {
		w := tc.do("POST", "/comment", []map[string]interface{}{
			{"body": "x", "post_id": post.ID, "commented_by": user.ID, "parent_comment_id": foreign.ID},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		first := parseObject(t, w)["0"].(map[string]interface{})
		assert.Equal(t, []interface{}{service.MsgParentOtherPost}, parentErrors(t, first))
	})

	t.Run("own parent", func(t *testing.T) {
		w := tc.do("PATCH", fmt.Sprintf("/comment/%d", root.ID), map[string]interface{}{"parent_comment_id": root.ID})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []interface{}{service.MsgParentSelf}, parentErrors(t, parseObject(t, w)))
	})

	t.Run("under descendant", func(t *testing.T) {
		w := tc.do("PATCH", fmt.Sprintf("/comment/%d", root.ID), map[string]interface{}{"parent_comment_id": grandchild.ID})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []interface{}{service.MsgParentIsDescendant}, parentErrors(t, parseObject(t, w)))
	})

	t.Run("valid move", func(t *testing.T) {
		w := tc.do("PATCH", fmt.Sprintf("/comment/%d", grandchild.ID), map[string]interface{}{"parent_comment_id": root.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, float64(root.ID), parseObject(t, w)["parent_comment_id"])
	})
}

func TestCommentHandler_UpdatePostMovesReplies(t *testing.T) {
	tc, cleanup := setupRouter(t)
	defer cleanup()

	user := testutil.TestUser(t, tc.DB)
	from := testutil.TestPost(t, tc.DB, &user.ID)
	to := testutil.TestPost(t, tc.DB, &user.ID)
	root := testutil.TestComment(t, tc.DB, from.ID, user.ID)
	child := testutil.TestReply(t, tc.DB, root, user.ID)

	t.Run("reply cannot leave its parent's post", func(t *testing.T) {
		w := tc.do("PATCH", fmt.Sprintf("/comment/%d", child.ID), map[string]interface{}{"post_id": to.ID})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []interface{}{service.MsgParentOtherPost}, parentErrors(t, parseObject(t, w)))
	})

	t.Run("root carries its replies", func(t *testing.T) {
		w := tc.do("PATCH", fmt.Sprintf("/comment/%d", root.ID), map[string]interface{}{"post_id": to.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, float64(to.ID), parseObject(t, w)["post_id"])

		w = tc.do("GET", fmt.Sprintf("/comment/%d", child.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := parseObject(t, w)
		assert.Equal(t, float64(to.ID), got["post_id"])
		assert.Equal(t, float64(root.ID), got["parent_comment_id"])
	})
}

func TestCommentHandler_DeleteKeepsChildren(t *testing.T) {
	tc, cleanup := setupRouter(t)
	defer cleanup()

	user := testutil.TestUser(t, tc.DB)
	post := testutil.TestPost(t, tc.DB, &user.ID)
	root := testutil.TestComment(t, tc.DB, post.ID, user.ID)
	child := testutil.TestReply(t, tc.DB, root, user.ID)

	require.Equal(t, http.StatusNoContent, tc.do("DELETE", fmt.Sprintf("/comment/%d", root.ID), nil).Code)

	w := tc.do("GET", fmt.Sprintf("/comment/%d", child.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, parseObject(t, w)["parent_comment_id"])
}

func TestCommentHandler_Create_Invalid(t *testing.T) {
	tc, cleanup := setupRouter(t)
	defer cleanup()

	w := tc.do("POST", "/comment", []map[string]interface{}{{"post_id": "one"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
