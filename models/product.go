package models

import "time"

// Catalog entities share an active/inactive switch.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ColorQuantity is the stock held for one color of a product.
// Color is either a palette name or a free-form value such as a hex code.
type ColorQuantity struct {
	Color    string `json:"color" bson:"color"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// Variant is the size and color definition of a product.
type Variant struct {
	Sizes        []int           `json:"sizes" bson:"sizes"`
	Colors       []ColorQuantity `json:"colors" bson:"colors"`
	CustomColors []ColorQuantity `json:"customColors" bson:"customColors"`
}

type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	CategoryID  string    `json:"categoryId" bson:"categoryId"`
	Image       string    `json:"image" bson:"image"`
	Variant     `bson:",inline"`
	Stock       int       `json:"stock" bson:"stock"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p *Product) Active() bool {
	return p.Status == StatusActive
}

type Category struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	Status      string    `json:"status" bson:"status" validate:"omitempty,oneof=active inactive"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
