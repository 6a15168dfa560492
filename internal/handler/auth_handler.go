package handler

import (
	"net/http"

	"bizdesk/internal/middleware"
	"bizdesk/internal/policy"
	"bizdesk/internal/service"
	"bizdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler sets up the routing dependencies for auth endpoints
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// RegisterRoutes binds the public auth endpoints
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	router.POST("/auth/login", h.Login)
	router.POST("/auth/register", h.Register)
	router.POST("/auth/logout", auth.RequireAuth(), h.Logout)
}

// RegisterProtected binds endpoints that need a resolved session
func (h *AuthHandler) RegisterProtected(router *gin.RouterGroup) {
	router.GET("/me", h.Me)
}

// Login handles POST /auth/login to authenticate and return a JWT token
// @Summary      Login user
// @Description  Authenticates by username and password, optionally checking the selected role, and returns a JWT plus the role's allowed routes and landing path
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	authRes, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookie(c, authRes.Token)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, authRes))
}

// Register handles POST /auth/register for self-service signup
// @Summary      Register user
// @Description  Creates an account with the selected role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserRequest  true  "Registration Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// Logout handles POST /auth/logout to revoke the session and clear cookies
// @Summary      Logout user
// @Description  Revokes the current session; the JWT stops working even before it expires
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, ok := middleware.SessionToken(c.Request.Context()); ok {
		_ = h.authService.Logout(c.Request.Context(), token)
	}
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Logged out"))
}

// Me handles GET /me to return the current identity and its route grants
// @Summary      Get current user
// @Description  Returns the authenticated identity with its allowed routes and landing path
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"user":           identity,
		"landing_path":   policy.LandingPath(identity.Role),
		"allowed_routes": policy.AllowedRoutes(identity.Role),
	}))
}
