package content

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"shoestore/apperr"
	"shoestore/db"
	"shoestore/models"
)

type Repository struct {
	pages *mongo.Collection
	about *mongo.Collection
}

func NewRepository(pages, about *mongo.Collection) *Repository {
	return &Repository{pages: pages, about: about}
}

func (r *Repository) Page(ctx context.Context, slug string) (*models.PolicyPage, error) {
	p, err := db.LoadOrInit(ctx, r.pages, slug, func() models.PolicyPage { return DefaultPage(slug) })
	if err != nil {
		return nil, apperr.Persistence("load page", err)
	}
	return p, nil
}

func (r *Repository) SavePage(ctx context.Context, p *models.PolicyPage) error {
	if err := db.Upsert(ctx, r.pages, p.Slug, p); err != nil {
		return apperr.Persistence("save page", err)
	}
	return nil
}

func (r *Repository) About(ctx context.Context) (*models.About, error) {
	a, err := db.LoadOrInit(ctx, r.about, aboutID, DefaultAbout)
	if err != nil {
		return nil, apperr.Persistence("load about", err)
	}
	return a, nil
}

func (r *Repository) SaveAbout(ctx context.Context, a *models.About) error {
	a.ID = aboutID
	if err := db.Upsert(ctx, r.about, aboutID, a); err != nil {
		return apperr.Persistence("save about", err)
	}
	return nil
}
