// Package idempotency replays the first response of a mutating request
// that carries an Idempotency-Key header.
package idempotency

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/apperr"
	"shoestore/models"
	"shoestore/utils"
)

const (
	Header = "Idempotency-Key"
	TTL    = 24 * time.Hour
)

func requestHash(r *http.Request, body []byte, sessionID string) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + sessionID + ":"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *captureWriter) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
		c.ResponseWriter.WriteHeader(code)
	}
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.WriteHeader(http.StatusOK)
	}
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

// Middleware passes requests without the header straight through. The first
// request with a key runs and its response is stored; a repeat with the
// same body gets the stored response, and a repeat with a different body is
// a conflict. Server errors are not stored so the client can retry.
func Middleware(store Store) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			key := r.Header.Get(Header)
			if key == "" {
				next(w, r, ps)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				utils.RespondWithErr(w, r, apperr.Validation("", apperr.MsgInvalidBody))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sid := utils.GetSessionID(r)
			hash := requestHash(r, body, sid)
			now := time.Now()
			ctx := r.Context()

			err = store.Insert(ctx, models.IdempotencyRecord{
				Key:         key,
				Method:      r.Method,
				Path:        r.URL.Path,
				SessionID:   sid,
				RequestHash: hash,
				CreatedAt:   now,
				ExpiresAt:   now.Add(TTL),
			})
			if err == nil {
				cw := &captureWriter{ResponseWriter: w}
				next(cw, r, ps)

				status := cw.status
				if status == 0 {
					status = http.StatusOK
				}
				if status >= http.StatusInternalServerError {
					if err := store.Delete(ctx, key); err != nil {
						zap.L().Warn("release idempotency key", zap.String("key", key), zap.Error(err))
					}
					return
				}
				resp := models.CachedResponse{
					Status:      status,
					ContentType: w.Header().Get("Content-Type"),
					Body:        cw.buf.Bytes(),
				}
				if err := store.SaveResponse(ctx, key, resp); err != nil {
					zap.L().Warn("store idempotent response", zap.String("key", key), zap.Error(err))
				}
				return
			}

			if !errors.Is(err, ErrDuplicate) {
				utils.RespondWithErr(w, r, apperr.Persistence("reserve idempotency key", err))
				return
			}

			existing, err := store.Find(ctx, key)
			if err != nil {
				utils.RespondWithErr(w, r, apperr.Persistence("find idempotency key", err))
				return
			}
			if existing.RequestHash != hash {
				utils.RespondWithErr(w, r, apperr.Conflict("مفتاح الطلب مستخدم لطلب مختلف"))
				return
			}
			if existing.Response == nil {
				utils.RespondWithErr(w, r, apperr.Conflict("الطلب قيد المعالجة"))
				return
			}

			zap.L().Info("replayed idempotent response", zap.String("key", key), zap.String("path", r.URL.Path))
			if existing.Response.ContentType != "" {
				w.Header().Set("Content-Type", existing.Response.ContentType)
			}
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(existing.Response.Status)
			w.Write(existing.Response.Body)
		}
	}
}
