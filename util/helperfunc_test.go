package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorResponders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		call   func(*gin.Context, APIErrorParams)
		status int
	}{
		{"user error", CallUserError, http.StatusBadRequest},
		{"server error", CallServerError, http.StatusInternalServerError},
		{"too many requests", CallTooManyRequests, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tc.call(c, APIErrorParams{Msg: "detail", Err: errors.New("boom")})

			assert.Equal(t, tc.status, w.Code)
			var resp APIResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, "boom", resp.Error)
			assert.Equal(t, "detail", resp.Msg)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trim leading whitespace",
			input:    "  John Doe",
			expected: "John Doe",
		},
		{
			name:     "trim trailing whitespace",
			input:    "John Doe  ",
			expected: "John Doe",
		},
		{
			name:     "trim leading and trailing whitespace",
			input:    "  John Doe  ",
			expected: "John Doe",
		},
		{
			name:     "collapse multiple internal spaces",
			input:    "John  Doe",
			expected: "John Doe",
		},
		{
			name:     "collapse many internal spaces",
			input:    "John     Doe",
			expected: "John Doe",
		},
		{
			name:     "trim and collapse combined",
			input:    "  John    Doe  ",
			expected: "John Doe",
		},
		{
			name:     "already normalized",
			input:    "John Doe",
			expected: "John Doe",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "tabs and newlines",
			input:    "John\t\nDoe",
			expected: "John Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeName(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
