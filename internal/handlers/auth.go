package handlers

import (
	"errors"
	"net/http"

	"taskmanager/internal/auth"
	"taskmanager/internal/dto"
	"taskmanager/internal/logging"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles register, login, logout and session checks.
type AuthHandler struct {
	sessions     *auth.Store
	userSvc      *service.UserService
	log          logging.Logger
	cookieSecure bool
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(sessions *auth.Store, userSvc *service.UserService, log logging.Logger, cookieSecure bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, userSvc: userSvc, log: log, cookieSecure: cookieSecure}
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "New account"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info(c.Request.Context(), "user registered", "user_id", u.ID)
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "User registered successfully"})
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	u, err := h.userSvc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	// Never reuse a session ID that existed before authentication.
	if old, err := c.Cookie(auth.SessionCookieName); err == nil && old != "" {
		_ = h.sessions.Delete(ctx, old)
	}
	sessionID, err := h.sessions.Create(ctx, u.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	auth.SetSessionCookie(c, sessionID, h.cookieSecure)
	c.JSON(http.StatusOK, dto.LoginResponse{Message: "Login successful", UserID: u.ID, Username: u.Username})
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(auth.SessionCookieName); err == nil && sessionID != "" {
		if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
			h.log.Warn(c.Request.Context(), "session delete failed", "error", err)
		}
	}
	auth.ClearSessionCookie(c, h.cookieSecure)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// CheckSession godoc
// @Summary      Report the logged-in user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /check-session [get]
func (h *AuthHandler) CheckSession(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, notLoggedIn())
		return
	}
	u, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusOK, notLoggedIn())
			return
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{LoggedIn: true, UserID: u.ID, Username: u.Username})
}

func notLoggedIn() dto.SessionResponse {
	return dto.SessionResponse{LoggedIn: false, Message: "not logged in"}
}
