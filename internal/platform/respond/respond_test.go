// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/respond"
	"github.com/taibuivan/plume/pkg/pagination"
)

type errorBody struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details"`
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/comments", nil)

	err := fmt.Errorf("comment_service_create: %w", apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "content", Message: "This field is required"}))
	respond.Error(recorder, request, err)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	body := decodeError(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "Validation failed", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "content", body.Details[0].Field)
}

/*
TestError_PlainErrorIsInternal keeps driver messages out of the response.
*/
func TestError_PlainErrorIsInternal(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/v1/blogs", nil)

	respond.Error(recorder, request, errors.New(`relation "content.blog" does not exist`))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "relation")
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, recorder).Code)
}

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a", "b"}, pagination.NewMeta(2, 2, 5))

	var body struct {
		Data []string        `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

func TestNoContent(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.NoContent(recorder)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}
