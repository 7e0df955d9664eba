package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/service"
	"github.com/retailcatalog/admin-console/internal/core/session"
)

// CookieName carries the session id.
const CookieName = "console_session"

const ctxStoreKey = "session_store"

// TokenVerifier checks that a session token is authentic, unexpired and
// bound to the given session.
type TokenVerifier interface {
	Verify(token, sessionID string) (*service.TokenClaims, error)
}

// SessionTerminator signs out the session attached to ctx.
type SessionTerminator interface {
	Logout(ctx context.Context)
}

type SessionConfig struct {
	Manager  *session.Manager
	Verifier TokenVerifier
	Auth     SessionTerminator
	Secure   bool
	MaxAge   time.Duration
	Logger   zerolog.Logger

	// OnLogout runs after a session is cleared because its token failed
	// verification.
	OnLogout func(sessionID string)
}

// Session resolves the browser's session store from its cookie, issuing a
// new id when needed, and attaches the store to the request context. A store
// whose token no longer verifies is logged out before the handler runs.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			var sid string
			if ck, err := c.Cookie(CookieName); err == nil {
				sid = ck.Value
			}

			store, err := cfg.Manager.Open(req.Context(), sid)
			if err != nil {
				return err
			}
			if store.ID() != sid {
				c.SetCookie(sessionCookie(store.ID(), cfg))
			}

			if store.IsAuthenticated() {
				identity, _ := store.Identity()
				claims, err := cfg.Verifier.Verify(store.Token(), store.ID())
				if err == nil && claims.Role != identity.Role {
					err = service.ErrTokenSessionMismatch
				}
				if err != nil {
					cfg.Logger.Warn().Err(err).Str("session_id", store.ID()).Msg("session token rejected, logging out")
					cfg.Auth.Logout(session.ContextWithStore(req.Context(), store))
					if cfg.OnLogout != nil {
						cfg.OnLogout(store.ID())
					}
				}
			}

			c.Set(ctxStoreKey, store)
			c.SetRequest(req.WithContext(session.ContextWithStore(req.Context(), store)))
			return next(c)
		}
	}
}

// StoreFrom returns the store attached by Session.
func StoreFrom(c echo.Context) (*session.Store, bool) {
	s, ok := c.Get(ctxStoreKey).(*session.Store)
	return s, ok && s != nil
}

func sessionCookie(id string, cfg SessionConfig) *http.Cookie {
	ck := &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.MaxAge > 0 {
		ck.MaxAge = int(cfg.MaxAge.Seconds())
	}
	return ck
}
