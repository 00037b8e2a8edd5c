package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/logging"
	"techshop-backend/internal/store"
)

// ErrorResponse is the only error body the API produces.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    Kind   `json:"code"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Respond writes err as an ErrorResponse and aborts the chain. Store errors
// are translated; anything unclassified is logged and hidden behind a
// generic message.
func Respond(c *gin.Context, err error) {
	e := classify(err)
	log := logging.FromContext(c)

	switch {
	case e.Kind.Status() >= http.StatusInternalServerError:
		log.Error("request failed", zap.String("code", string(e.Kind)), zap.Error(err))
	default:
		log.Debug("request rejected", zap.String("code", string(e.Kind)), zap.String("message", e.Message))
	}

	c.AbortWithStatusJSON(e.Kind.Status(), ErrorResponse{
		Error:   true,
		Code:    e.Kind,
		Message: e.Message,
	})
}

// OK writes a 200 confirmation message.
func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var dup *store.DuplicateError
	if errors.As(err, &dup) {
		return New(KindConflict, dup.Message())
	}
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Requested resource doesn't exist")
	}
	if errors.Is(err, store.ErrOutOfStock) {
		return Validation(err.Error())
	}
	if errors.Is(err, store.ErrInvalidID) {
		return Validation("Invalid id")
	}
	return Wrap(KindInternal, "Something went wrong, try again", err)
}
