package http

import (
	"errors"
	"net/http"

	"lectio/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the body of every non-2xx answer. ExpectedStatus is set on 409.
type Error struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	ExpectedStatus string `json:"expected_status,omitempty"`
}

// toError maps the domain error taxonomy to a response. Authorization
// failures never say why.
func toError(err error) Error {
	var (
		httpErr  *echo.HTTPError
		rejected *errs.TransitionRejectedError
		notFound *errs.ObjectNotFoundError
	)

	switch {
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return Error{Code: httpErr.Code, Message: msg}
	case errors.As(err, &notFound):
		return Error{Code: http.StatusNotFound, Message: notFound.ParamName + " not found"}
	case errors.Is(err, errs.ErrUnauthorized):
		return Error{Code: http.StatusForbidden, Message: "permission denied"}
	case errors.As(err, &rejected):
		return Error{
			Code:           http.StatusConflict,
			Message:        "order is " + rejected.Current + ", expected " + rejected.Expected,
			ExpectedStatus: rejected.Expected,
		}
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return Error{Code: http.StatusBadRequest, Message: err.Error()}
	default:
		return Error{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	body := toError(err)
	if body.Code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
	} else if body.Code == http.StatusForbidden {
		s.logger.Info("request denied",
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	if writeErr := c.JSON(body.Code, body); writeErr != nil {
		s.logger.Warn("failed to write error response", zap.Error(writeErr))
	}
}
