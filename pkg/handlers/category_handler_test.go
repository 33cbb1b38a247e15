package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryHandler_List(t *testing.T) {
	user := handlerTestUser(false)
	prompts := &mockPromptServiceForHandler{categories: []string{"coding", "writing", "zines"}}
	handler := NewCategoryHandler(prompts, &mockUserServiceForHandler{user: user}, zap.NewNop())

	req := authedRequest(http.MethodGet, "/api/categories", nil, user)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	response := decodeApiResponse(t, rec)
	dataBytes, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var listResponse CategoryListResponse
	require.NoError(t, json.Unmarshal(dataBytes, &listResponse))
	assert.Equal(t, []string{"coding", "writing", "zines"}, listResponse.Categories)
}

func TestCategoryHandler_List_ServiceError(t *testing.T) {
	user := handlerTestUser(false)
	prompts := &mockPromptServiceForHandler{err: errors.New("db down")}
	handler := NewCategoryHandler(prompts, &mockUserServiceForHandler{user: user}, zap.NewNop())

	req := authedRequest(http.MethodGet, "/api/categories", nil, user)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCategoryHandler_List_NoClaims(t *testing.T) {
	handler := NewCategoryHandler(&mockPromptServiceForHandler{}, &mockUserServiceForHandler{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
