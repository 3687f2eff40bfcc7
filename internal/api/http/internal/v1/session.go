package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/domain"
)

const (
	SessionName = "rj_session"

	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

// SessionOptions are the cookie attributes for every session cookie.
func SessionOptions(cfg config.SessionConfig) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge / time.Second),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func startSession(c *gin.Context, account *domain.Account) error {
	session := sessions.Default(c)
	session.Set(sessionUserIDKey, account.ID)
	session.Set(sessionUsernameKey, account.Username)

	if err := session.Save(); err != nil {
		return fmt.Errorf("save session failed: %w", err)
	}

	return nil
}

func endSession(c *gin.Context, cfg config.SessionConfig) error {
	opts := SessionOptions(cfg)
	opts.MaxAge = -1

	session := sessions.Default(c)
	session.Clear()
	session.Options(opts)

	if err := session.Save(); err != nil {
		return fmt.Errorf("save session failed: %w", err)
	}

	return nil
}

func sessionUserID(c *gin.Context) (int64, bool) {
	id, ok := sessions.Default(c).Get(sessionUserIDKey).(int64)
	return id, ok
}
