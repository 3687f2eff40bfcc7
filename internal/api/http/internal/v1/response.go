package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rubbishit/backend/internal/service"
	"github.com/rubbishit/backend/pkg/logger"
)

type successResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
}

type sessionResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

func errorResponse(c *gin.Context, status int, code ErrorCode) {
	c.AbortWithStatusJSON(status, getErrorStruct(code))
}

func invalidBodyResponse(c *gin.Context) {
	errorResponse(c, http.StatusBadRequest, ValidationErrorCode)
}

// serviceErrorResponse maps a service error onto status, code and message.
func serviceErrorResponse(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, &ErrorStruct{
			Message:   verr.Message,
			ErrorCode: ValidationErrorCode,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		errorResponse(c, http.StatusBadRequest, EmailAlreadyRegisteredCode)
	case errors.Is(err, service.ErrUsernameTaken):
		errorResponse(c, http.StatusBadRequest, UsernameTakenCode)
	case errors.Is(err, service.ErrTooManyCodes):
		errorResponse(c, http.StatusTooManyRequests, TooManyCodesCode)
	case errors.Is(err, service.ErrDelivery):
		logger.Error("verification email delivery failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, DeliveryFailedCode)
	case errors.Is(err, service.ErrInvalidCode):
		errorResponse(c, http.StatusBadRequest, InvalidCodeCode)
	case errors.Is(err, service.ErrNotRegistered):
		errorResponse(c, http.StatusUnauthorized, NotRegisteredCode)
	case errors.Is(err, service.ErrWrongPassword):
		errorResponse(c, http.StatusUnauthorized, WrongPasswordCode)
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, UnknownErrorCode)
	}
}
