package models

import "time"

// CartItem is one line of a cart, and the snapshot form stored on orders.
type CartItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	UnitPrice float64 `json:"unitPrice" bson:"unitPrice"`
	Image     string  `json:"image" bson:"image"`
	Size      int     `json:"size" bson:"size"`
	Color     string  `json:"color" bson:"color"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

type CustomerInfo struct {
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
	City    string `json:"city" bson:"city"`
	Street  string `json:"street" bson:"street"`
	Phone1  string `json:"phone1" bson:"phone1"`
	Phone2  string `json:"phone2,omitempty" bson:"phone2,omitempty"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID           string       `json:"id" bson:"_id"`
	CustomerInfo CustomerInfo `json:"customerInfo" bson:"customerInfo"`
	Items        []CartItem   `json:"items" bson:"items"`
	Total        float64      `json:"total" bson:"total"`
	Status       OrderStatus  `json:"status" bson:"status"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

type Customer struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2"`
	Email       string    `json:"email" bson:"email" validate:"omitempty,email"`
	Phone       string    `json:"phone" bson:"phone" validate:"required,min=5"`
	Address     string    `json:"address" bson:"address"`
	City        string    `json:"city" bson:"city"`
	Status      string    `json:"status" bson:"status" validate:"omitempty,oneof=active inactive"`
	TotalOrders int       `json:"totalOrders" bson:"totalOrders"`
	TotalSpent  float64   `json:"totalSpent" bson:"totalSpent"`
	JoinDate    time.Time `json:"joinDate" bson:"joinDate"`
}
