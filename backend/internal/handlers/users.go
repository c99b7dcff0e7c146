package handlers

import (
	"fmt"
	"net/http"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
	authz       services.AuthorizationService
}

func NewUserHandler(userService services.UserService, authz services.AuthorizationService) *UserHandler {
	return &UserHandler{userService: userService, authz: authz}
}

// ListUsers answers a username search with the single matching user and
// otherwise with the sorted listing. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	reverse, ok := queryBool(c, "reverse")
	if !ok {
		return
	}

	q := services.UserQuery{
		SortBy:   c.Query("sort_by"),
		Reverse:  reverse,
		Username: c.Query("username"),
	}
	users, err := h.userService.ListUsers(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	if q.Username != "" {
		c.JSON(http.StatusOK, users[0])
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User with user_id '%d' deleted successfully", userID)})
}

func (h *UserHandler) authorizedUser(c *gin.Context) (int64, bool) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return 0, false
	}
	caller, ok := identity(c)
	if !ok {
		return 0, false
	}
	if err := h.authz.CanAccessUser(caller, userID); err != nil {
		writeError(c, err)
		return 0, false
	}
	return userID, true
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := h.authorizedUser(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := h.authorizedUser(c)
	if !ok {
		return
	}

	var in services.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
