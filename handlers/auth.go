package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/blog/backend/go-services/internal/config"
	"github.com/inkwell/blog/backend/go-services/internal/sessions"
	"github.com/inkwell/blog/backend/go-services/internal/tokens"
	"github.com/inkwell/blog/backend/go-services/internal/uploads"
	"github.com/inkwell/blog/backend/go-services/internal/users"
	"github.com/inkwell/blog/backend/go-services/pkg/logger"
	"github.com/inkwell/blog/backend/go-services/pkg/middleware"
	"github.com/inkwell/blog/backend/go-services/pkg/response"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// LoginRequest accepts either a username or an email in Login.
type LoginRequest struct {
	Login    string `json:"login" form:"login"`
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type registerForm struct {
	FullName string `form:"fullName"`
	Email    string `form:"email"`
	Username string `form:"username"`
	Password string `form:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	blacklist   *sessions.Blacklist
	uploads     uploads.Stager
}

func NewAuthHandler(cfg *config.Config, u *users.Service, s *sessions.Service, bl *sessions.Blacklist, up uploads.Stager) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, sessionsSvc: s, blacklist: bl, uploads: up}
}

// Register routes under /users. auth guards logout and me.
func (h *AuthHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	a := rg.Group("/users")
	a.POST("/register", h.SignUp)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", auth, h.Logout)
	a.GET("/me", auth, h.Me)
}

// SignUp handles the multipart registration form with its avatar file.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	avatar, cleanup, err := h.uploads.Save(c, "avatar")
	defer cleanup()
	if err != nil {
		if errors.Is(err, uploads.ErrTooLarge) {
			response.Error(c, http.StatusBadRequest, "Uploaded file is too large")
			return
		}
		logger.Errorf("stage avatar: %v", err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	u, err := h.usersSvc.Register(c.Request.Context(), users.RegisterInput{
		FullName:   form.FullName,
		Email:      form.Email,
		Username:   form.Username,
		Password:   form.Password,
		AvatarPath: avatar,
	})
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, u, "User registered successfully")
}

// Login checks credentials, opens a refresh session and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	login := firstNonEmpty(req.Login, req.Username, req.Email)
	if login == "" || req.Password == "" {
		response.Error(c, http.StatusBadRequest, "Username or email and password are required")
		return
	}
	u, err := h.usersSvc.Authenticate(c.Request.Context(), login, req.Password)
	if err != nil {
		writeUserError(c, err)
		return
	}
	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.ID, c.Request.UserAgent())
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Errorf("failed to create access token: %v", err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.setCookies(c, access, rft)
	response.OK(c, http.StatusOK, gin.H{"accessToken": access, "refreshToken": rft, "user": u}, "User logged in successfully")
}

// Refresh rotates the refresh session and returns a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBind(&req)
	refresh := req.RefreshToken
	if refresh == "" {
		refresh, _ = c.Cookie(refreshCookie)
	}
	if refresh == "" {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}
	sess, next, err := h.sessionsSvc.Rotate(c.Request.Context(), refresh, c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, sessions.ErrInvalidRefresh) {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		logger.Errorf("refresh rotation failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	u, err := h.usersSvc.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		logger.Errorf("user lookup failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.setCookies(c, access, next)
	response.OK(c, http.StatusOK, gin.H{"accessToken": access, "refreshToken": next}, "Access token refreshed")
}

// Logout removes the refresh session and blacklists the current access token
// for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBind(&req)
	refresh := req.RefreshToken
	if refresh == "" {
		refresh, _ = c.Cookie(refreshCookie)
	}

	if at := middleware.AccessToken(c); at != "" {
		if claims, err := tokens.ParseAccessToken(h.cfg.JWT.Secret, at); err == nil {
			if err := h.blacklist.Add(c.Request.Context(), at, tokens.ExpiresIn(claims)); err != nil {
				logger.Errorf("failed to blacklist access token: %v", err)
				response.Error(c, http.StatusInternalServerError, "Internal server error")
				return
			}
		}
	}
	if refresh != "" {
		if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), refresh); err != nil {
			logger.Errorf("failed to remove session: %v", err)
			response.Error(c, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	h.clearCookies(c)
	response.OK(c, http.StatusOK, gin.H{}, "User logged out")
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.usersSvc.GetByID(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "Current user fetched successfully")
}

func (h *AuthHandler) setCookies(c *gin.Context, access, refresh string) {
	secure := h.cfg.Server.Environment == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, access, int(h.cfg.JWT.AccessTokenTTL.Seconds()), "/", "", secure, true)
	c.SetCookie(refreshCookie, refresh, int(h.cfg.JWT.RefreshTokenTTL.Seconds()), "/", "", secure, true)
}

func (h *AuthHandler) clearCookies(c *gin.Context) {
	secure := h.cfg.Server.Environment == "production"
	c.SetCookie(accessCookie, "", -1, "/", "", secure, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", secure, true)
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case users.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, users.ErrUserExists):
		response.Error(c, http.StatusConflict, userMessage(err))
	case errors.Is(err, users.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, userMessage(err))
	case errors.Is(err, users.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, userMessage(err))
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}

// userMessage capitalizes a users error for display.
func userMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
