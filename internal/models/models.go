package models

import (
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null"     json:"email"`
	Password  string    `gorm:"not null"                 json:"-"`
	Role      string    `gorm:"not null;default:USER"    json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Authority is the role label carried in the access token, e.g. "ROLE_USER".
func (u User) Authority() string {
	return "ROLE_" + u.Role
}

type Profile struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID         uint      `gorm:"primaryKey"           json:"id"`
	Token      string    `gorm:"uniqueIndex;not null" json:"token"`
	UserID     uint      `gorm:"index;not null"       json:"user_id"`
	ExpiryDate time.Time `gorm:"not null"             json:"expiry_date"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                          json:"id"`
	UserID    uint `gorm:"index;not null"                      json:"user_id"`
	ProductID uint `gorm:"not null"                            json:"product_id"`
	Quantity  int  `gorm:"not null;default:1;check:quantity>0" json:"quantity"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey"                                     json:"id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_products_name_deleted" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                                       json:"price"`
	Stock       int       `gorm:"not null;check:stock>=0"                        json:"stock"`
	CategoryID  int       `gorm:"not null"                                       json:"category_id"`
	Brand       string    `gorm:"not null"                                       json:"brand"`
	ImgURL      string    `json:"img_url"`
	IsDeleted   bool      `gorm:"not null;default:false;uniqueIndex:idx_products_name_deleted" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          uint        `gorm:"primaryKey"               json:"id"`
	UserID      uint        `gorm:"index;not null"           json:"user_id"`
	Status      OrderStatus `gorm:"not null;default:PENDING" json:"status"`
	TotalAmount float64     `gorm:"not null"                 json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem snapshots product name and price at checkout time, so later
// catalog edits never change a placed order.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey"     json:"id"`
	OrderID     uint    `gorm:"index;not null" json:"order_id"`
	ProductID   uint    `gorm:"not null"       json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `gorm:"not null"       json:"quantity"`
}
