package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/utils"
)

const (
	// ContextAdminKey is set to true in the Gin context for admin requests.
	ContextAdminKey = "admin"
	// ContextUsernameKey stores the admin username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw session token, used by logout.
	ContextTokenKey = "token"
	// AdminCookieName carries the session token for browser pages.
	AdminCookieName = "admin_token"
)

// TokenFromRequest returns the bearer token, falling back to the session
// cookie. The second value is a short reason when the header is malformed.
func TokenFromRequest(ctx *gin.Context) (string, string) {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", "invalid authorization header format"
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return "", "empty bearer token"
		}
		return token, ""
	}
	if cookie, err := ctx.Cookie(AdminCookieName); err == nil && cookie != "" {
		return cookie, ""
	}
	return "", "authorization missing"
}

// authenticate validates the request token and stores the admin identity in
// ctx. It returns the error code and message on failure.
func authenticate(ctx *gin.Context) (int, string) {
	token, reason := TokenFromRequest(ctx)
	if token == "" {
		return 40101, reason
	}
	if utils.IsTokenRevoked(ctx.Request.Context(), token) {
		return 40104, "token revoked"
	}
	claims, err := utils.ParseAdminToken(token)
	if err != nil {
		return 40105, "invalid token"
	}
	ctx.Set(ContextAdminKey, true)
	ctx.Set(ContextUsernameKey, claims.Username)
	ctx.Set(ContextTokenKey, token)
	return 0, ""
}

// AuthRequired rejects API requests without a valid admin token.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if code, msg := authenticate(ctx); code != 0 {
			utils.Abort(ctx, http.StatusUnauthorized, code, msg)
			return
		}
		ctx.Next()
	}
}

// OptionalAuth marks admin requests without rejecting anonymous ones.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		_, _ = authenticate(ctx)
		ctx.Next()
	}
}

// AdminPageRequired redirects unauthenticated browsers to the login page.
func AdminPageRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if code, _ := authenticate(ctx); code != 0 {
			target := "/admin/login?next=" + url.QueryEscape(ctx.Request.URL.RequestURI())
			ctx.Redirect(http.StatusSeeOther, target)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// IsAdmin reports whether the request carries a valid admin session.
func IsAdmin(ctx *gin.Context) bool {
	return ctx.GetBool(ContextAdminKey)
}
