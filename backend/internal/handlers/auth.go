package handlers

import (
	"net/http"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	authz       services.AuthorizationService
}

func NewAuthHandler(authService services.AuthService, authz services.AuthorizationService) *AuthHandler {
	return &AuthHandler{authService: authService, authz: authz}
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login accepts an OAuth2-style form post or a JSON body. The username field
// may also carry an email address.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Revoke(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.authService.Revoke(c.Request.Context(), req.RefreshToken); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UserInfo issues a fresh access token for the account behind :email. Only
// the account owner or an admin may ask.
func (h *AuthHandler) UserInfo(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	info, err := h.authService.UserInfoByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.authz.CanAccessUser(caller, info.UserID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
