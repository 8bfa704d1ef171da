package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// validateUserInput requires username and password in the form. Failures go
// back to the page the form came from.
func (a *app) validateUserInput(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(form.Username) == "" {
		a.log.Debug("Missing username or password.")
		page := "/login"
		if c.Request.URL.Path == "/save" {
			page = "/signup"
		}
		redirect(c, page+"?error=missing")
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	c.Set(credentialsKey, form)
	c.Next()
}

const credentialsKey = "credentials"

// credentials returns the form bound by validateUserInput.
func credentials(c *gin.Context) credentialsForm {
	return c.MustGet(credentialsKey).(credentialsForm)
}

// checkUserExists stops a signup whose username is already taken.
func (a *app) checkUserExists(c *gin.Context) {
	username := credentials(c).Username
	exists, err := a.store.UserExists(c.Request.Context(), username)
	if err != nil {
		fail(c, err)
		return
	}
	if exists {
		a.log.Debug("User already exists", slog.String("username", username))
		redirect(c, "/signup?error=exists")
		return
	}
	c.Next()
}

// verifyUserCredentials sets currentUser on success.
func (a *app) verifyUserCredentials(c *gin.Context) {
	form := credentials(c)
	user, err := authenticate(c.Request.Context(), a.store, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			a.log.Debug("Invalid username or password.")
			redirect(c, "/login?error=invalid")
			return
		}
		fail(c, err)
		return
	}
	c.Set("currentUser", user)
	c.Next()
}

// requireSession lets the request through only when the session cookie names
// the same user as the path (or, for form posts, the username field).
func (a *app) requireSession(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		username = strings.TrimSpace(c.PostForm("username"))
	}
	if raw, err := c.Cookie(sessionCookie); err == nil && username != "" {
		claims, err := a.tokens.parse(raw)
		if err == nil && claims.Username == username {
			c.Set("sessionUser", username)
			c.Next()
			return
		}
	}
	a.log.Debug("no session for user", slog.String("username", username))
	redirect(c, "/login?error=invalid")
}

// adminOnly guards the diagnostic routes with an administrator bearer token.
func (a *app) adminOnly(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 8 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
		return
	}
	claims, err := a.tokens.parse(authHeader[7:])
	if err != nil || claims.Role != roleAdmin {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.Next()
}
