// Package settings holds the store-wide settings document: site name,
// contact details, currency, tax and shipping.
package settings

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"shoestore/apperr"
	"shoestore/db"
	"shoestore/models"
	"shoestore/rdx"
	"shoestore/utils"
)

const documentID = "general"

// Defaults is the settings document written on first read.
func Defaults() models.Settings {
	return models.Settings{
		ID:              documentID,
		SiteName:        "متجر الأحذية",
		SiteDescription: "أفضل متجر للأحذية في المملكة",
		Currency:        "ريال",
		TaxRate:         15,
		ShippingCost:    30,
		UpdatedAt:       time.Now(),
	}
}

type Store interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

func (r *Repository) Get(ctx context.Context) (*models.Settings, error) {
	s, err := db.LoadOrInit(ctx, r.collection, documentID, Defaults)
	if err != nil {
		return nil, apperr.Persistence("load settings", err)
	}
	return s, nil
}

func (r *Repository) Save(ctx context.Context, s *models.Settings) error {
	s.ID = documentID
	if err := db.Upsert(ctx, r.collection, documentID, s); err != nil {
		return apperr.Persistence("save settings", err)
	}
	return nil
}

type Handler struct {
	store Store
	cache *rdx.Cache
	now   func() time.Time
}

func NewHandler(store Store, cache *rdx.Cache) *Handler {
	return &Handler{store: store, cache: cache, now: time.Now}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var s models.Settings
	if h.cache.Get(ctx, documentID, &s) {
		utils.RespondWithJSON(w, http.StatusOK, s)
		return
	}

	found, err := h.store.Get(ctx)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if err := h.cache.Set(ctx, documentID, found); err != nil {
		zap.L().Warn("cache settings", zap.Error(err))
	}
	utils.RespondWithJSON(w, http.StatusOK, found)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var s models.Settings
	if err := utils.DecodeJSON(r, &s); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	s.SiteName = strings.TrimSpace(s.SiteName)
	s.Currency = strings.TrimSpace(s.Currency)
	s.ContactEmail = strings.TrimSpace(s.ContactEmail)
	if err := utils.ValidateStruct(s); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	s.UpdatedAt = h.now()
	if err := h.store.Save(ctx, &s); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if err := h.cache.Del(ctx, documentID); err != nil {
		zap.L().Warn("invalidate settings cache", zap.Error(err))
	}
	zap.L().Info("settings updated", zap.String("admin_id", utils.GetAdminID(r)))
	utils.RespondWithJSON(w, http.StatusOK, s)
}
