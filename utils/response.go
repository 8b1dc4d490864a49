package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"shoestore/apperr"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithErr maps a domain error to its status and a shopper-safe body.
func RespondWithErr(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	body := map[string]string{"error": apperr.PublicMessage(err)}
	if field := apperr.FieldOf(err); field != "" {
		body["field"] = field
	}
	RespondWithJSON(w, status, body)
}

// DecodeJSON reads a JSON body of at most 1 MB into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("", apperr.MsgInvalidBody)
	}
	return nil
}

type M map[string]any
