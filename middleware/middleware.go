package middleware

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/auth"
	"shoestore/globals"
	"shoestore/utils"
)

const SessionTTL = 30 * 24 * time.Hour

// RequireAdmin rejects requests without a valid admin cookie and stores the
// admin's id and email in the request context.
func RequireAdmin(secret []byte) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			claims, err := auth.VerifyRequest(secret, r)
			if err != nil {
				utils.RespondWithErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), globals.AdminIDKey, claims.AdminID)
			ctx = context.WithValue(ctx, globals.AdminEmailKey, claims.Email)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// Session gives every visitor a stable anonymous id in the "sid" cookie.
// Carts and favorites are keyed by it.
func Session(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(globals.SessionCookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					sid = c.Value
				}
			}
			if sid == "" {
				sid = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     globals.SessionCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(SessionTTL / time.Second),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), globals.SessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DashboardGate guards the dashboard pages under /dashboard/. Without a
// valid admin cookie they redirect to the login page, and the login page
// redirects signed-in admins to the dashboard home. When dir is set the
// pages are served from it.
func DashboardGate(secret []byte, dir string) func(http.Handler) http.Handler {
	var files http.Handler
	if dir != "" {
		files = http.StripPrefix("/dashboard", http.FileServer(http.Dir(dir)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if p != "/dashboard" && !strings.HasPrefix(p, "/dashboard/") {
				next.ServeHTTP(w, r)
				return
			}

			_, err := auth.VerifyRequest(secret, r)
			signedIn := err == nil
			login := strings.HasPrefix(p, "/dashboard/login")

			switch {
			case login && signedIn:
				http.Redirect(w, r, "/dashboard/", http.StatusFound)
				return
			case !login && !signedIn:
				http.Redirect(w, r, "/dashboard/login", http.StatusFound)
				return
			}

			if files != nil {
				files.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets the standard hardening headers. Uploaded images stay
// cacheable.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if !strings.HasPrefix(r.URL.Path, "/static/") {
			h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// Hijack lets websocket upgrades pass through the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AccessLog logs one line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
