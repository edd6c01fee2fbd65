package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", ErrPropertyAlreadySold)
	assert.Equal(t, CodeConflict, CodeOf(wrapped))
	assert.Equal(t, CodeNotFound, CodeOf(ErrNotFoundIn(errors.New("no rows"), "booking", "Booking not found")))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := DatabaseError(cause)

	assert.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
}

func TestWithDetails_DoesNotMutate(t *testing.T) {
	detailed := ErrInsufficientPermissions.WithDetails(map[string]string{"role": "buyer"})

	assert.NotNil(t, detailed.Details)
	assert.Nil(t, ErrInsufficientPermissions.Details)
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		debug       bool
		wantStatus  int
		wantMessage string
	}{
		{"app error", ErrPropertyAlreadySold, false, http.StatusConflict, "This property has already been sold"},
		{"plain error hidden", errors.New("pq: secret detail"), false, http.StatusInternalServerError, "Internal server error"},
		{"db error debug", DatabaseError(errors.New("timeout")), true, http.StatusInternalServerError, "Database operation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)

			h := &GinErrorHandler{Debug: tt.debug}
			h.HandleGinError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Error.Message)
			assert.NotContains(t, w.Body.String(), "secret detail")
		})
	}
}
