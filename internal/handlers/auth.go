package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/imvicky69/wandermore/internal/auth"
	"github.com/imvicky69/wandermore/internal/identity"
)

const (
	currentUserKey  = "current_user"
	sessionUserID   = "user_id"
	sessionOAuthKey = "oauth_state"
)

// LoadUser resolves the request identity from the session or a bearer token
// and stashes it in the request context. Missing identity is not an error
// here; AuthRequired gates the routes that need one.
func (h *Handler) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get(sessionUserID).(string); ok && userID != "" {
			if user, err := h.idp.UserByID(c.Request.Context(), userID); err == nil {
				c.Set(currentUserKey, identity.FromUser(user))
				c.Next()
				return
			}
		}

		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			if claims, err := auth.ValidateToken(token); err == nil {
				c.Set(currentUserKey, &identity.Identity{
					UID:         claims.UserID,
					DisplayName: claims.Name,
					PhotoURL:    claims.PhotoURL,
				})
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests with no resolved identity.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(currentUserKey); !ok {
			authError(c, "you must be signed in")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *identity.Identity {
	if v, ok := c.Get(currentUserKey); ok {
		if ident, ok := v.(*identity.Identity); ok {
			return ident
		}
	}
	return nil
}

// StartGoogleLogin kicks off the OAuth flow. Both /login and /signup land
// here; Google does not distinguish the two.
func (h *Handler) StartGoogleLogin(c *gin.Context) {
	state, err := identity.NewStateToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start sign-in"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionOAuthKey, state)
	session.Save()

	c.Redirect(http.StatusTemporaryRedirect, h.idp.AuthURL(state))
}

// GoogleCallback finishes the OAuth flow and opens the session.
func (h *Handler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState, _ := session.Get(sessionOAuthKey).(string)
	session.Delete(sessionOAuthKey)
	session.Save()

	if savedState == "" || c.Query("state") != savedState {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	user, err := h.idp.SignIn(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}

	session.Set(sessionUserID, user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionUserID)
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
