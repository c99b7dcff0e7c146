package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Nienta-PK/taskmanager/backend/internal/middleware"
	"github.com/Nienta-PK/taskmanager/backend/internal/services"
	"github.com/Nienta-PK/taskmanager/backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// writeError maps service sentinels onto HTTP statuses. Unclassified errors
// are logged and hidden behind a generic 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		badRequest(c, name+": "+err.Error())
		return 0, false
	}
	return id, true
}

func identity(c *gin.Context) (services.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	}
	return id, ok
}

// targetUser resolves the user_id query parameter, defaulting to the caller,
// and checks the caller may act on it.
func targetUser(c *gin.Context, authz services.AuthorizationService) (int64, bool) {
	caller, ok := identity(c)
	if !ok {
		return 0, false
	}

	userID := caller.UserID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := utils.ParseID(raw)
		if err != nil {
			badRequest(c, "user_id: "+err.Error())
			return 0, false
		}
		userID = parsed
	}

	if err := authz.CanAccessUser(caller, userID); err != nil {
		writeError(c, err)
		return 0, false
	}
	return userID, true
}

func queryBool(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, name+" must be a boolean")
		return false, false
	}
	return v, true
}
