package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"merge-tactics-server/auth"
	"merge-tactics-server/gameerrors"
	"merge-tactics-server/storage"
)

// statusFor maps command and store errors to HTTP status codes. Anything
// unrecognized is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gameerrors.ErrSessionNotFound),
		errors.Is(err, gameerrors.ErrCardNotFound),
		errors.Is(err, gameerrors.ErrDecisionNotFound),
		errors.Is(err, storage.ErrAccountNotFound),
		errors.Is(err, storage.ErrSaveNotFound):
		return http.StatusNotFound
	case errors.Is(err, gameerrors.ErrUnknownCard),
		errors.Is(err, gameerrors.ErrInsufficientElixir),
		errors.Is(err, gameerrors.ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, gameerrors.ErrGameOver),
		errors.Is(err, storage.ErrUsernameTaken),
		errors.Is(err, storage.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the standard error body for err.
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
