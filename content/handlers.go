// Package content serves the editable static pages: the policy pages and
// the About page.
package content

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"shoestore/apperr"
	"shoestore/filemgr"
	"shoestore/models"
	"shoestore/utils"
)

type Store interface {
	Page(ctx context.Context, slug string) (*models.PolicyPage, error)
	SavePage(ctx context.Context, p *models.PolicyPage) error
	About(ctx context.Context) (*models.About, error)
	SaveAbout(ctx context.Context, a *models.About) error
}

type Handler struct {
	store  Store
	images filemgr.Storage
	now    func() time.Time
}

func NewHandler(store Store, images filemgr.Storage) *Handler {
	return &Handler{store: store, images: images, now: time.Now}
}

func slugParam(ps httprouter.Params) (string, error) {
	slug := ps.ByName("slug")
	if !ValidSlug(slug) {
		return "", apperr.NotFound(apperr.MsgNotFound)
	}
	return slug, nil
}

func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	slug, err := slugParam(ps)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	p, err := h.store.Page(ctx, slug)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

type pageRequest struct {
	Title    string           `json:"title" validate:"required"`
	Content  string           `json:"content"`
	FAQItems []models.FAQItem `json:"faqItems"`
}

func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	slug, err := slugParam(ps)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	var req pageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	p := &models.PolicyPage{
		Slug:        slug,
		Title:       req.Title,
		Content:     req.Content,
		LastUpdated: h.now(),
	}
	for _, it := range req.FAQItems {
		it.Question = strings.TrimSpace(it.Question)
		it.Answer = strings.TrimSpace(it.Answer)
		if it.Question != "" && it.Answer != "" {
			p.FAQItems = append(p.FAQItems, it)
		}
	}

	if err := h.store.SavePage(ctx, p); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) GetAbout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	a, err := h.store.About(ctx)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a)
}

// UpdateAbout takes JSON, or a multipart form with a "data" JSON field and
// an optional "image" upload.
func (h *Handler) UpdateAbout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	current, err := h.store.About(ctx)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	var in models.About
	image := ""
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(filemgr.MaxImageSize + 1<<20); err != nil {
			utils.RespondWithErr(w, r, apperr.Validation("", apperr.MsgInvalidBody))
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &in); err != nil {
			utils.RespondWithErr(w, r, apperr.Validation("data", apperr.MsgInvalidBody))
			return
		}
		if image, err = filemgr.SaveFormImage(ctx, h.images, r, "image", filemgr.EntityAbout, false); err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
	} else if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	if strings.TrimSpace(in.Title) == "" {
		utils.RespondWithErr(w, r, apperr.Validation("title", apperr.MsgFieldRequired))
		return
	}

	current.Title = strings.TrimSpace(in.Title)
	current.Description = in.Description
	current.Mission = in.Mission
	current.Vision = in.Vision
	current.Values = []string{}
	for _, v := range in.Values {
		if v = strings.TrimSpace(v); v != "" {
			current.Values = append(current.Values, v)
		}
	}
	switch {
	case image != "":
		current.Image = image
	case in.Image != "":
		current.Image = in.Image
	}
	current.UpdatedAt = h.now()

	if err := h.store.SaveAbout(ctx, current); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, current)
}
