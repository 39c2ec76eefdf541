package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
)

func TestValidator_UsesMessageTag(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&RegisterRequest{Name: "T", Email: "t@x.com", Password: "12345"})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be 6 or more characters", verr.Message)

	assert.NoError(t, v.Validate(&RegisterRequest{Name: "T", Email: "t@x.com", Password: "123456"}))
	assert.NoError(t, v.Validate(&UpdateProfileRequest{}))

	multibyte := strings.Repeat("é", 40)
	err = v.Validate(&RegisterRequest{Name: "T", Email: "t@x.com", Password: multibyte})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be 72 bytes or fewer", verr.Message)

	short := "123"
	err = v.Validate(&UpdateProfileRequest{Password: &short})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be 6 or more characters", verr.Message)

	long := strings.Repeat("a", 73)
	err = v.Validate(&UpdateProfileRequest{Password: &long})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be 72 bytes or fewer", verr.Message)
}

func TestHTTPErrorHandler(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	render := func(debug bool, err error) (int, apperrors.ErrorResponse) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/users", nil), rec)
		NewHTTPErrorHandler(debug, log)(err, c)

		var body apperrors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	code, body := render(false, apperrors.ErrNotAdmin)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not authorized as an admin", body.Message)
	assert.Equal(t, "NOT_ADMIN", body.Code)
	assert.Empty(t, body.Stack)

	code, body = render(true, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not Found - /api/auth/users", body.Message)
	assert.NotEmpty(t, body.Stack)

	code, body = render(false, echo.NewHTTPError(http.StatusRequestEntityTooLarge))
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "Request Entity Too Large", body.Message)
}
