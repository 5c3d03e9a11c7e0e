package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/domain/dto"
	"github.com/guttosm/sash-quote-service/internal/middleware"
	"github.com/guttosm/sash-quote-service/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	middleware.RequestID()(c)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestResponseBuilder_Success(t *testing.T) {
	tests := []struct {
		name       string
		send       func(*ResponseBuilder)
		wantStatus int
	}{
		{
			name:       "SuccessOK",
			send:       func(b *ResponseBuilder) { b.SuccessOK(map[string]int{"version": 3}) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "SuccessAccepted",
			send:       func(b *ResponseBuilder) { b.SuccessAccepted(map[string]string{"status": "reloading"}) },
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "custom status",
			send:       func(b *ResponseBuilder) { b.Success(http.StatusCreated, "ok") },
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("")

			tt.send(NewResponseBuilder(c))

			var resp dto.SuccessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, resp.RequestID)
			assert.NotZero(t, resp.Timestamp)
			assert.NotNil(t, resp.Data)
		})
	}
}

func TestResponseBuilder_Error(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		key         string
		err         error
		wantCode    string
		wantMessage string
	}{
		{"bad request with raw text", http.StatusBadRequest, "invalid input", nil, dto.ErrCodeInvalidRequest, "invalid input"},
		{"translated key", http.StatusUnauthorized, "error.invalid_credentials", errors.New("invalid password"), dto.ErrCodeUnauthorized, "Wrong password"},
		{"upstream failure", http.StatusBadGateway, "error.price_table_unavailable", nil, dto.ErrCodeUpstream, ""},
		{"internal", http.StatusInternalServerError, "error.internal_error", nil, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("")

			NewResponseBuilder(c).Error(tt.statusCode, tt.key, tt.err)

			resp := decodeError(t, w)
			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, tt.wantCode, resp.Error)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
			assert.NotEmpty(t, resp.RequestID)
			assert.True(t, c.IsAborted())
			if tt.err != nil {
				assert.Len(t, c.Errors, 1)
			}
		})
	}
}

func TestResponseBuilder_ErrorWithMessage(t *testing.T) {
	c, w := newTestContext("")

	NewResponseBuilder(c).ErrorWithMessage(http.StatusConflict, "already saved", nil)

	resp := decodeError(t, w)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeConflict, resp.Error)
	assert.Equal(t, "already saved", resp.Message)
	assert.Empty(t, c.Errors)
}

func TestResponseBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantDetails map[string]string
	}{
		{
			name: "pricing validation errors",
			err: &pricing.ValidationErrors{Errors: []pricing.FieldError{
				{UnitID: 1, Field: "kind", Message: "is required"},
			}},
			wantCode:    dto.ErrCodeValidation,
			wantDetails: map[string]string{"units[1].kind": "is required"},
		},
		{
			name:        "dto validation error",
			err:         &dto.ValidationError{Field: "count", Message: "must be between 1 and 100"},
			wantCode:    dto.ErrCodeValidation,
			wantDetails: map[string]string{"count": "must be between 1 and 100"},
		},
		{
			name:     "binding error",
			err:      errors.New("unexpected EOF"),
			wantCode: dto.ErrCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("")

			NewResponseBuilder(c).Invalid(tt.err)

			resp := decodeError(t, w)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, tt.wantDetails, resp.Details)
		})
	}
}

func TestBuildRequestAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantCount int
	}{
		{"valid", `{"count": 3}`, false, 3},
		{"fails validation", `{"count": 101}`, true, 0},
		{"missing required", `{}`, true, 0},
		{"malformed json", `{"count":`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(tt.body)

			req, err := BuildRequestAndValidate[dto.UnitBatchRequest](c)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, req)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, req.Count)
		})
	}
}

func TestBuildRequest_NoValidation(t *testing.T) {
	c, _ := newTestContext(`{"count": 500}`)

	req, err := BuildRequest[dto.UnitBatchRequest](c)
	require.NoError(t, err)
	assert.Equal(t, 500, req.Count)
}
