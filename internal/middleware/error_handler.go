package middleware

import (
	"easyShop/domain"
	"easyShop/pkg/logger"
	"errors"
	"net/http"
	"strings"

	jsonres "easyShop/pkg/response"

	"github.com/labstack/echo/v4"
)

var statusByKind = map[domain.ErrorKind]int{
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
	domain.KindInvalid:      http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindInternal:     http.StatusInternalServerError,
}

// ErrorHandler is the only place errors returned by handlers become HTTP
// responses. Causes of internal errors are logged, never sent.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := string(domain.KindInternal)
	message := domain.PublicMessage(err)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		code = strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	} else {
		kind := domain.KindOf(err)
		code = string(kind)
		if s, ok := statusByKind[kind]; ok {
			status = s
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}
