package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosocial-app/backend/models"
)

func TestListPostsRequiresAuth(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodGet, "/posts", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostStartsEmpty(t *testing.T) {
	r, _ := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	token := loginUser(t, r, "a@x.com", "password")

	body := createPost(t, r, token, "hello world")
	assert.Equal(t, "hello world", body["content"])
	assert.Equal(t, float64(0), body["like_count"])
	assert.Equal(t, float64(0), body["comment_count"])
	assert.Equal(t, false, body["liked_by_user"])

	author, ok := body["author"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a", author["username"])
}

func TestCreatePostEmptyContent(t *testing.T) {
	r, _ := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	token := loginUser(t, r, "a@x.com", "password")

	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{"content": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPostNotFound(t *testing.T) {
	r, _ := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	token := loginUser(t, r, "a@x.com", "password")

	w := doJSON(t, r, http.MethodGet, "/posts/9999", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeObject(t, w)["error"], "9999")
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	r, _ := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	registerUser(t, r, "b@x.com", "b", "password")
	tokenA := loginUser(t, r, "a@x.com", "password")
	tokenB := loginUser(t, r, "b@x.com", "password")

	post := createPost(t, r, tokenA, "original")
	path := fmt.Sprintf("/posts/%d", int(post["id"].(float64)))

	w := doJSON(t, r, http.MethodPut, path, gin.H{"content": "hijacked"}, tokenB)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A forbidden update leaves the post unchanged.
	w = doJSON(t, r, http.MethodGet, path, nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "original", decodeObject(t, w)["content"])

	w = doJSON(t, r, http.MethodPut, path, gin.H{"content": "edited"}, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "edited", body["content"])
	assert.NotNil(t, body["updated_at"])
}

func TestDeletePostScenario(t *testing.T) {
	r, db := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	registerUser(t, r, "b@x.com", "b", "password")
	tokenA := loginUser(t, r, "a@x.com", "password")
	tokenB := loginUser(t, r, "b@x.com", "password")

	post := createPost(t, r, tokenA, "short lived")
	path := fmt.Sprintf("/posts/%d", int(post["id"].(float64)))

	w := doJSON(t, r, http.MethodDelete, path, nil, tokenB)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w = doJSON(t, r, http.MethodDelete, path, nil, tokenA)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, path, nil, tokenA)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeToggle(t *testing.T) {
	r, db := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	token := loginUser(t, r, "a@x.com", "password")

	post := createPost(t, r, token, "likeable")
	postID := int(post["id"].(float64))
	likePath := fmt.Sprintf("/posts/%d/like", postID)
	postPath := fmt.Sprintf("/posts/%d", postID)

	w := doJSON(t, r, http.MethodPost, likePath, nil, token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Post liked", decodeObject(t, w)["message"])

	w = doJSON(t, r, http.MethodGet, postPath, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, float64(1), body["like_count"])
	assert.Equal(t, true, body["liked_by_user"])

	w = doJSON(t, r, http.MethodPost, likePath, nil, token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Post unliked", decodeObject(t, w)["message"])

	w = doJSON(t, r, http.MethodGet, postPath, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeObject(t, w)
	assert.Equal(t, float64(0), body["like_count"])
	assert.Equal(t, false, body["liked_by_user"])

	// At most one row ever exists for the pair.
	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestLikeMissingPost(t *testing.T) {
	r, _ := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	token := loginUser(t, r, "a@x.com", "password")

	w := doJSON(t, r, http.MethodPost, "/posts/9999/like", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeMembershipIsPerUser(t *testing.T) {
	r, _ := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	registerUser(t, r, "b@x.com", "b", "password")
	tokenA := loginUser(t, r, "a@x.com", "password")
	tokenB := loginUser(t, r, "b@x.com", "password")

	post := createPost(t, r, tokenA, "liked by a only")
	postID := int(post["id"].(float64))

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID), nil, tokenA)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/posts/%d", postID), nil, tokenB)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, float64(1), body["like_count"])
	assert.Equal(t, false, body["liked_by_user"])
}

func TestListPostsSearchAndPagination(t *testing.T) {
	r, _ := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	token := loginUser(t, r, "a@x.com", "password")

	createPost(t, r, token, "morning coffee")
	createPost(t, r, token, "gopher conference notes")
	createPost(t, r, token, "more gopher thoughts")

	w := doJSON(t, r, http.MethodGet, "/posts?search=gopher", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = doJSON(t, r, http.MethodGet, "/posts?limit=1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = doJSON(t, r, http.MethodGet, "/posts?limit=10&skip=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
}

func TestListPostsEmpty(t *testing.T) {
	r, _ := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	token := loginUser(t, r, "a@x.com", "password")

	w := doJSON(t, r, http.MethodGet, "/posts", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestDeletePostCascades(t *testing.T) {
	r, db := setupTest(t)
	registerUser(t, r, "a@x.com", "a", "password")
	token := loginUser(t, r, "a@x.com", "password")

	post := createPost(t, r, token, "with attachments")
	postID := int(post["id"].(float64))

	w := doJSON(t, r, http.MethodPost, "/comments", gin.H{"content": "c", "post_id": postID}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID), nil, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	var comments, likes int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&comments).Error)
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&likes).Error)
	assert.Equal(t, int64(0), comments)
	assert.Equal(t, int64(0), likes)
}
