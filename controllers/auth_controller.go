package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/utils"
)

// AuthController issues and revokes the admin session.
type AuthController struct {
	cfg config.AppConfig
}

func NewAuthController(cfg config.AppConfig) *AuthController {
	return &AuthController{cfg: cfg}
}

func (a *AuthController) ttl() time.Duration {
	return time.Duration(a.cfg.JWTTTLHours) * time.Hour
}

// startSession validates credentials and sets the session cookie. It returns
// an empty token when the credentials are wrong.
func (a *AuthController) startSession(ctx *gin.Context, username, password string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	if !utils.CheckAdminCredentials(a.cfg, username, password) {
		utils.Sugar.Warnw("admin login failed", "username", username, "ip", ctx.ClientIP())
		return "", time.Time{}, nil
	}
	token, expires, err := utils.GenerateAdminToken(username, a.ttl())
	if err != nil {
		return "", time.Time{}, err
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AdminCookieName, token, int(a.ttl().Seconds()), "/", "", ctx.Request.TLS != nil, true)
	utils.Sugar.Infow("admin login", "username", username, "ip", ctx.ClientIP())
	return token, expires, nil
}

// endSession revokes the current token and clears the cookie.
func (a *AuthController) endSession(ctx *gin.Context) {
	token, _ := middleware.TokenFromRequest(ctx)
	if token != "" {
		expires := time.Now().Add(a.ttl())
		if claims, err := utils.ParseAdminToken(token); err == nil && claims.ExpiresAt != nil {
			expires = claims.ExpiresAt.Time
		}
		utils.RevokeToken(ctx.Request.Context(), token, expires)
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AdminCookieName, "", -1, "/", "", ctx.Request.TLS != nil, true)
}

// Login authenticates the admin and returns a bearer token. The same token is
// set as an HttpOnly cookie for the admin pages.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "username and password are required")
		return
	}

	token, expires, err := a.startSession(ctx, req.Username, req.Password)
	if err != nil {
		utils.Sugar.Errorw("token generation failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid credentials")
		return
	}
	utils.Success(ctx, gin.H{
		"token":     token,
		"expiresAt": expires.Format(time.RFC3339),
		"username":  a.cfg.AdminUsername,
	})
}

// Logout revokes the caller's token.
func (a *AuthController) Logout(ctx *gin.Context) {
	a.endSession(ctx)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated admin.
func (a *AuthController) Me(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"username": ctx.GetString(middleware.ContextUsernameKey)})
}
