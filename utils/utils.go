package utils

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"shoestore/globals"
)

type QueryOptions struct {
	Page   int
	Limit  int
	Sort   string
	Status string
}

// Skip is the number of documents before the requested page.
func (q QueryOptions) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 12
	}
	if limit > 100 {
		limit = 100
	}

	return QueryOptions{
		Page:   page,
		Limit:  limit,
		Sort:   strings.TrimSpace(q.Get("sort")),
		Status: strings.TrimSpace(q.Get("status")),
	}
}

func GetUUID() string {
	return uuid.New().String()
}

func GetSessionID(r *http.Request) string {
	sid, _ := r.Context().Value(globals.SessionIDKey).(string)
	return sid
}

func GetAdminID(r *http.Request) string {
	id, _ := r.Context().Value(globals.AdminIDKey).(string)
	return id
}
