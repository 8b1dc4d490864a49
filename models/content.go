package models

import "time"

type CarouselSlide struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title" validate:"required"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	Link        string    `json:"link" bson:"link"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
	Order       int       `json:"order" bson:"order" validate:"gte=0"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type SocialMedia struct {
	Facebook  string `json:"facebook" bson:"facebook"`
	Twitter   string `json:"twitter" bson:"twitter"`
	Instagram string `json:"instagram" bson:"instagram"`
}

// Settings is the single "general" settings document.
type Settings struct {
	ID              string      `json:"-" bson:"_id"`
	SiteName        string      `json:"siteName" bson:"siteName" validate:"required"`
	SiteDescription string      `json:"siteDescription" bson:"siteDescription"`
	ContactEmail    string      `json:"contactEmail" bson:"contactEmail" validate:"omitempty,email"`
	ContactPhone    string      `json:"contactPhone" bson:"contactPhone"`
	Address         string      `json:"address" bson:"address"`
	SocialMedia     SocialMedia `json:"socialMedia" bson:"socialMedia"`
	Currency        string      `json:"currency" bson:"currency" validate:"required"`
	TaxRate         float64     `json:"taxRate" bson:"taxRate" validate:"gte=0,lte=100"`
	ShippingCost    float64     `json:"shippingCost" bson:"shippingCost" validate:"gte=0"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updatedAt"`
}

type FAQItem struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

type PolicyPage struct {
	Slug        string    `json:"slug" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Content     string    `json:"content" bson:"content"`
	FAQItems    []FAQItem `json:"faqItems,omitempty" bson:"faqItems,omitempty"`
	LastUpdated time.Time `json:"lastUpdated" bson:"lastUpdated"`
}

type About struct {
	ID          string    `json:"-" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	Mission     string    `json:"mission" bson:"mission"`
	Vision      string    `json:"vision" bson:"vision"`
	Values      []string  `json:"values" bson:"values"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type ContactMessage struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=5"`
	Message string `json:"message" validate:"required,min=5"`
}

type Admin struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// IdempotencyRecord stores the first response for an Idempotency-Key.
type IdempotencyRecord struct {
	Key         string          `bson:"key" json:"key"`
	Method      string          `bson:"method" json:"method"`
	Path        string          `bson:"path" json:"path"`
	SessionID   string          `bson:"session_id" json:"session_id"`
	RequestHash string          `bson:"request_hash" json:"request_hash"`
	Response    *CachedResponse `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time       `bson:"expires_at" json:"expires_at"`
}

type CachedResponse struct {
	Status      int    `bson:"status" json:"status"`
	ContentType string `bson:"content_type" json:"content_type"`
	Body        []byte `bson:"body" json:"body"`
}
