package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
)

// NewHTTPErrorHandler renders every error as {message, code, stack}. The
// stack field carries the raw error only when debug is set. Failed requests
// are logged by the request logger, not here.
func NewHTTPErrorHandler(debug bool, log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var resp apperrors.ErrorResponse
		status := http.StatusInternalServerError

		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			status = echoErr.Code
			switch {
			case status == http.StatusNotFound:
				resp.Message = "Not Found - " + c.Request().RequestURI
				resp.Code = "NOT_FOUND"
			default:
				resp.Message = http.StatusText(status)
				if msg, ok := echoErr.Message.(string); ok && msg != "" {
					resp.Message = msg
				}
			}
		} else {
			httpErr := apperrors.MapErrorToHTTP(err)
			status = httpErr.StatusCode
			resp = httpErr.ToErrorResponse()
		}

		if debug {
			resp.Stack = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			log.WithError(err).Error("write error response")
		}
	}
}
