package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

type ProductImage struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	AltText   string `json:"alt_text,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

type Inventory struct {
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	LastRestockedAt   time.Time `json:"last_restocked_at"`
	IsLowStock        bool      `json:"is_low_stock"`
}

type Product struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug,omitempty"`
	Description     string           `json:"description,omitempty"`
	Brand           string           `json:"brand,omitempty"`
	SKU             string           `json:"sku,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	MainImageURL    string           `json:"main_image_url,omitempty"`
	Images          []ProductImage   `json:"images,omitempty"`
	Inventory       *Inventory       `json:"inventory,omitempty"`
	SubCategoryID   int64            `json:"sub_category_id,omitempty"`
	SubCategoryName string           `json:"sub_category_name,omitempty"`
	IsFeatured      bool             `json:"is_featured,omitempty"`
	IsActive        bool             `json:"is_active,omitempty"`
}

// EffectivePrice is the price a buyer actually pays: the discounted price when
// one is set and positive, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil && p.DiscountedPrice.IsPositive() {
		return *p.DiscountedPrice
	}
	return p.Price
}

// Summary strips a product down to the fields worth keeping in bounded
// client-side lists (recently viewed, cached snapshots).
func (p Product) Summary() Product {
	return Product{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Brand:           p.Brand,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		MainImageURL:    p.MainImageURL,
	}
}

type CartLine struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is always derived from quantity and the effective price; it is
// never stored independently of its inputs.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	ID    int64      `json:"id"`
	Items []CartLine `json:"items"`
}

// Total sums the derived subtotals of all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

type WishlistItem struct {
	ID      int64     `json:"id"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}

type OrderItem struct {
	ID       int64           `json:"id"`
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Order is an immutable historical record once created.
type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CreatedAt       time.Time       `json:"created_at"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	ShippingAddress string          `json:"shipping_address"`
	BillingAddress  string          `json:"billing_address"`
	Notes           string          `json:"notes,omitempty"`
	Items           []OrderItem     `json:"items"`
}

type User struct {
	ID                int64  `json:"id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	PhoneNumber       string `json:"phone_number,omitempty"`
	Address           string `json:"address,omitempty"`
	DateOfBirth       string `json:"date_of_birth,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type SubCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	IsActive    bool      `json:"is_active"`
	Products    []Product `json:"products,omitempty"`
}

type Banner struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Image       string `json:"image"`
	SubCategory *int64 `json:"subcategory,omitempty"`
	Product     *int64 `json:"product,omitempty"`
}

type Video struct {
	ID       int64  `json:"id"`
	VideoURL string `json:"video_url"`
}

// ProductHighlight wraps a product surfaced on the home page (featured,
// exclusive, deal of the day).
type ProductHighlight struct {
	ID        int64     `json:"id"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

type ShopHotspot struct {
	ID      int64   `json:"id"`
	Top     float64 `json:"top"`
	Left    float64 `json:"left,omitempty"`
	Right   float64 `json:"right,omitempty"`
	Product Product `json:"product"`
}

type ShopTheLook struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	PlayerImage string        `json:"player_image"`
	Hotspots    []ShopHotspot `json:"hotspots"`
}

// HomeData is the composite home page payload served by the API.
type HomeData struct {
	FeaturedCategories []Category         `json:"featured_categories"`
	Banners            []Banner           `json:"banners"`
	Videos             []Video            `json:"videos,omitempty"`
	FeaturedProducts   []ProductHighlight `json:"featured_products"`
	ExclusiveProducts  []ProductHighlight `json:"exclusive_products"`
	ShopTheLook        []ShopTheLook      `json:"shop_the_look"`
}

// Payment is the provider-side payment handle created for an order before the
// external checkout widget takes over.
type Payment struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	ProviderOrderID string          `json:"provider_order_id"`
}

// PaymentProof is the confirmation the external widget hands back; the server
// must verify it before a checkout counts as complete.
type PaymentProof struct {
	PaymentID       string `json:"payment_id"`
	ProviderOrderID string `json:"provider_order_id"`
	Signature       string `json:"signature"`
}
