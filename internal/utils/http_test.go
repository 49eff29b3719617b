package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
		data       interface{}
	}{
		{
			name:       "Success with string data",
			statusCode: http.StatusOK,
			message:    "Operation successful",
			data:       "test data",
		},
		{
			name:       "Success with map data",
			statusCode: http.StatusOK,
			message:    "Dashboard generated",
			data:       map[string]interface{}{"status": "ok", "rows": "42"},
		},
		{
			name:       "Success with nil data",
			statusCode: http.StatusOK,
			message:    "Success",
			data:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := SuccessResponse(c, tt.statusCode, tt.message, tt.data)
			assert.NoError(t, err)
			assert.Equal(t, tt.statusCode, rec.Code)

			var response Response
			err = json.Unmarshal(rec.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.True(t, response.Success)
			assert.Equal(t, tt.message, response.Message)
			assert.Equal(t, tt.data, response.Data)
		})
	}
}

func TestErrorResponseHandler(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		errorMessage string
	}{
		{
			name:         "Internal server error",
			statusCode:   http.StatusInternalServerError,
			errorMessage: "Internal server error occurred",
		},
		{
			name:         "Bad request",
			statusCode:   http.StatusBadRequest,
			errorMessage: "Invalid request",
		},
		{
			name:         "Empty error message",
			statusCode:   http.StatusNotFound,
			errorMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := ErrorResponseHandler(c, tt.statusCode, tt.errorMessage)
			assert.NoError(t, err)
			assert.Equal(t, tt.statusCode, rec.Code)

			var response ErrorResponse
			err = json.Unmarshal(rec.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.False(t, response.Success)
			assert.Equal(t, tt.errorMessage, response.Error)
			assert.Equal(t, tt.statusCode, response.Code)
		})
	}
}

func TestBadRequestResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	errorMessage := "Invalid input"
	err := BadRequestResponse(c, errorMessage)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	err = json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, errorMessage, response.Error)
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestNotFoundResponse(t *testing.T) {
	tests := []struct {
		name         string
		errorMessage string
		expected     string
	}{
		{
			name:         "Custom error message",
			errorMessage: "Report not found",
			expected:     "Report not found",
		},
		{
			name:         "Empty error message",
			errorMessage: "",
			expected:     "Resource not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := NotFoundResponse(c, tt.errorMessage)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, rec.Code)

			var response ErrorResponse
			err = json.Unmarshal(rec.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.False(t, response.Success)
			assert.Equal(t, tt.expected, response.Error)
		})
	}
}

func TestInternalServerErrorResponse(t *testing.T) {
	tests := []struct {
		name         string
		errorMessage string
		expected     string
	}{
		{
			name:         "Custom error message",
			errorMessage: "Database connection failed",
			expected:     "Database connection failed",
		},
		{
			name:         "Empty error message",
			errorMessage: "",
			expected:     "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := InternalServerErrorResponse(c, tt.errorMessage)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var response ErrorResponse
			err = json.Unmarshal(rec.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.False(t, response.Success)
			assert.Equal(t, tt.expected, response.Error)
		})
	}
}

func TestBadGatewayResponse(t *testing.T) {
	tests := []struct {
		name         string
		errorMessage string
		expected     string
	}{
		{
			name:         "Custom error message",
			errorMessage: "Athena query failed",
			expected:     "Athena query failed",
		},
		{
			name:         "Empty error message",
			errorMessage: "",
			expected:     "Upstream query failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := BadGatewayResponse(c, tt.errorMessage)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadGateway, rec.Code)

			var response ErrorResponse
			err = json.Unmarshal(rec.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.False(t, response.Success)
			assert.Equal(t, tt.expected, response.Error)
			assert.Equal(t, http.StatusBadGateway, response.Code)
		})
	}
}
