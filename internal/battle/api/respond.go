package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
)

// envelope is the uniform response body. ok mirrors the status class so
// clients can branch without inspecting codes.
type envelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{OK: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{OK: status < 400, Message: message})
}

// respondError maps a domain error kind onto its HTTP status. Unknown
// errors are flattened to a generic 500 so internals never leak.
func respondError(c *gin.Context, err error) {
	var domErr *domain.Error
	if !errors.As(err, &domErr) {
		c.JSON(http.StatusInternalServerError, envelope{OK: false, Message: "an unexpected error occurred"})
		return
	}
	c.JSON(statusForKind(domErr.Kind), envelope{OK: false, Message: domErr.Message})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
