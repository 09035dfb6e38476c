package transport

import "time"

// Auth

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"freshToken"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type RefreshTokenResponse struct {
	NewToken     string `json:"newToken"`
	RefreshToken string `json:"refreshToken"`
}

// Cart

type AddItemRequest struct {
	ProductID uint `json:"productId" validate:"required,gt=0"`
}

type UpdateItemRequest struct {
	CartItemID uint `json:"cartItemId" validate:"required,gt=0"`
	Amount     int  `json:"amount"     validate:"required,gte=1"`
}

type CartItemDto struct {
	ID        uint `json:"id"`
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CartResponse struct {
	Carts      []CartItemDto `json:"carts"`
	TotalPrice float64       `json:"totalPrice"`
}

// Products

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	CategoryID  int     `json:"categoryId"  validate:"required,gt=0"`
	Brand       string  `json:"brand"       validate:"required"`
	ImgURL      string  `json:"imgUrl"`
}

// UpdateProductRequest carries optional fields; nil means "leave unchanged".
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	CategoryID  *int     `json:"categoryId"  validate:"omitempty,gt=0"`
	Brand       *string  `json:"brand"`
	ImgURL      *string  `json:"imgUrl"`
}

type StockRequest struct {
	Stock int `json:"stock" validate:"required,gt=0"`
}

type StockResponse struct {
	Stock int `json:"stock"`
}

type StockInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  int     `json:"categoryId"`
	Brand       string  `json:"brand"`
	ImgURL      string  `json:"imgUrl"`
}

type ProductPreview struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Brand  string  `json:"brand"`
	ImgURL string  `json:"imgUrl"`
}

// Orders

type OrderLineRequest struct {
	ID        uint `json:"id"        validate:"required,gt=0"`
	ProductID uint `json:"productId" validate:"required,gt=0"`
	Quantity  int  `json:"quantity"  validate:"required,gte=1"`
}

type OrderRequest struct {
	OrderItems []OrderLineRequest `json:"orderItems" validate:"required,min=1,dive"`
}

type OrderResponse struct {
	ID          uint      `json:"id"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UpdateOrderRequest struct {
	OrderID uint   `json:"orderId" validate:"required,gt=0"`
	Status  string `json:"status"  validate:"required"`
}

type OrderItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Profile

type ProfileRequest struct {
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone"   validate:"required,max=20"`
}

type ProfileResponse struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Pagination metadata attached to every listing response.
type PaginationResponse struct {
	CurrentPage int   `json:"currentPage"`
	TotalPage   int   `json:"totalPage"`
	TotalItems  int64 `json:"totalItems"`
	PageSize    int   `json:"pageSize"`
}

type ProductListResponse struct {
	Products   []ProductPreview   `json:"products"`
	Pagination PaginationResponse `json:"pagination"`
}

type OrderListResponse struct {
	Orders     []OrderResponse    `json:"orders"`
	Pagination PaginationResponse `json:"pagination"`
}

type OrderItemListResponse struct {
	Items      []OrderItemResponse `json:"items"`
	Pagination PaginationResponse  `json:"pagination"`
}
