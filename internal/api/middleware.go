package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/identity"
	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/telegram"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const (
	identityContextKey contextKey = "identity"
	guestCookieName               = "guest_id"
)

func identityFromContext(ctx context.Context) identity.Identity {
	if v := ctx.Value(identityContextKey); v != nil {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Identity{}
}

// identityMiddleware resolves the caller. Telegram init data wins when
// present and valid; otherwise a guest identity is read from the header
// or cookie, and minted on first contact.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if initData := r.Header.Get(backend.HeaderTelegramInitData); initData != "" {
			verified, err := telegram.Validate(initData, s.BotToken)
			if err != nil {
				log.Warn("telegram init data rejected: %v", err)
				handleError(w, r, err)
				return
			}
			id := identity.Identity{TelegramID: verified.TelegramID, InitData: initData}
			ctx := context.WithValue(r.Context(), identityContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		guestID := r.Header.Get(backend.HeaderGuestUserID)
		if guestID == "" {
			if cookie, err := r.Cookie(guestCookieName); err == nil {
				guestID = cookie.Value
			}
		}

		if guestID != "" {
			known, err := s.Identities.GuestExists(r.Context(), guestID)
			if err != nil {
				handleError(w, r, errors.NewPersistenceError(err))
				return
			}
			if !known {
				log.Warn("unknown guest id presented, minting a new one")
				guestID = ""
			}
		}

		if guestID == "" {
			minted, err := s.Identities.CreateGuest(r.Context())
			if err != nil {
				handleError(w, r, errors.NewPersistenceError(err))
				return
			}
			guestID = minted
			setGuestCookie(w, guestID)
			log.Debug("minted guest identity %s", guestID)
		}

		id := identity.Identity{GuestID: guestID}
		ctx := context.WithValue(r.Context(), identityContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func setGuestCookie(w http.ResponseWriter, guestID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    guestID,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		ctx := logger.NewContext(r.Context(), log)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": duration.Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
