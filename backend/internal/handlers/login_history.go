package handlers

import (
	"net/http"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type LoginHistoryHandler struct {
	history services.LoginHistoryService
	authz   services.AuthorizationService
}

func NewLoginHistoryHandler(history services.LoginHistoryService, authz services.AuthorizationService) *LoginHistoryHandler {
	return &LoginHistoryHandler{history: history, authz: authz}
}

// Stamp records a login for the caller.
func (h *LoginHistoryHandler) Stamp(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	entry, err := h.history.Stamp(c.Request.Context(), caller.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// List is admin only.
func (h *LoginHistoryHandler) List(c *gin.Context) {
	respond(c, func() (interface{}, error) { return h.history.List(c.Request.Context()) })
}

func (h *LoginHistoryHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	caller, ok := identity(c)
	if !ok {
		return
	}
	if err := h.authz.CanAccessUser(caller, userID); err != nil {
		writeError(c, err)
		return
	}
	respond(c, func() (interface{}, error) { return h.history.ListByUser(c.Request.Context(), userID) })
}
