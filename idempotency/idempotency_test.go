package idempotency

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/globals"
)

func request(key, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	if key != "" {
		r.Header.Set(Header, key)
	}
	return r.WithContext(context.WithValue(r.Context(), globals.SessionIDKey, "sid-1"))
}

func TestReplaysFirstResponse(t *testing.T) {
	calls := 0
	h := Middleware(NewMemoryStore())(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id":"ord-%d"}`, calls)
	})

	w := httptest.NewRecorder()
	h(w, request("k1", `{"name":"سارة"}`), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"ord-1"}`, w.Body.String())

	w = httptest.NewRecorder()
	h(w, request("k1", `{"name":"سارة"}`), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"ord-1"}`, w.Body.String())
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	w = httptest.NewRecorder()
	h(w, request("k1", `{"name":"other"}`), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	h(w, request("", `{"name":"سارة"}`), nil)
	assert.Equal(t, 2, calls)
}

func TestServerErrorsReleaseKey(t *testing.T) {
	fail := true
	calls := 0
	h := Middleware(NewMemoryStore())(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		calls++
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	h(w, request("k2", `{}`), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	fail = false
	w = httptest.NewRecorder()
	h(w, request("k2", `{}`), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, calls)
}

func TestHandlerSeesBody(t *testing.T) {
	var got string
	h := Middleware(NewMemoryStore())(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(http.StatusOK)
	})
	h(httptest.NewRecorder(), request("k3", `payload`), nil)
	assert.Equal(t, "payload", got)
}
