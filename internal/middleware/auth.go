package middleware

import (
	"context"
	"net/http"

	"github.com/AdamBeresnev/bracket-app/internal/config"
	"github.com/AdamBeresnev/bracket-app/internal/httputil"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
)

type ContextKey string

const (
	CallerIDKey ContextKey = "callerID"

	// SessionCallerKey is the session entry holding the caller identity. It is
	// only ever written by the server after a login.
	SessionCallerKey = "callerID"

	guestPrefix = "guest:"
)

// InitAuth registers the OAuth providers that have credentials configured and
// returns their names.
func InitAuth(cfg config.OAuthConfig) []string {
	var providers []goth.Provider
	if cfg.DiscordKey != "" {
		providers = append(providers, discord.New(cfg.DiscordKey, cfg.DiscordSecret, cfg.DiscordCallbackURL, discord.ScopeIdentify))
	}
	if cfg.GoogleKey != "" {
		providers = append(providers, google.New(cfg.GoogleKey, cfg.GoogleSecret, cfg.GoogleCallbackURL, "profile"))
	}
	goth.UseProviders(providers...)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}

// CallerIDForUser derives the caller identity from a completed OAuth login.
// Provider user ids are only unique per provider.
func CallerIDForUser(user goth.User) string {
	return user.Provider + ":" + user.UserID
}

// NewGuestCallerID issues a fresh anonymous identity.
func NewGuestCallerID() string {
	return guestPrefix + uuid.NewString()
}

// LoadCaller puts the session's caller identity, if any, on the request
// context. Anonymous requests pass through.
func LoadCaller(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerID := sessionManager.GetString(r.Context(), SessionCallerKey)
			if callerID == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CallerIDKey, callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCaller rejects requests without a caller identity. It must run after
// LoadCaller.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetCallerID(r.Context()); !ok {
			httputil.Unauthorized(w, "session required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetCallerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CallerIDKey).(string)
	return id, ok && id != ""
}

// CallerID returns the caller identity or "" for anonymous requests.
func CallerID(ctx context.Context) string {
	id, _ := GetCallerID(ctx)
	return id
}

// ReadSession loads the session without committing it on the way out. It is
// used on routes that hijack the connection, where LoadAndSave cannot write
// the session cookie.
func ReadSession(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(sessionManager.Cookie.Name); err == nil {
				token = cookie.Value
			}

			ctx, err := sessionManager.Load(r.Context(), token)
			if err != nil {
				httputil.InternalServerError(w, "Failed to load session", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
