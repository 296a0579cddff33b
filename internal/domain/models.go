// internal/domain/models.go
package domain

import (
	"database/sql"
	"time"
)

// Ingredient is a raw material ("insumo") tracked by how much was
// purchased in its presentation vs how much has been consumed by sales.
type Ingredient struct {
	ID               int64           `json:"id" db:"id"`
	Name             string          `json:"name" db:"name"`
	Unit             string          `json:"unit" db:"unit"`
	TotalQuantity    float64         `json:"total_quantity" db:"total_quantity"`
	PackagePrice     float64         `json:"package_price" db:"package_price"`
	UnitCost         float64         `json:"unit_cost" db:"unit_cost"`
	ConsumedQuantity float64         `json:"consumed_quantity" db:"consumed_quantity"`
	MinThreshold     float64         `json:"min_threshold" db:"min_threshold"`
	QtyPerProduct    float64         `json:"qty_per_product" db:"qty_per_product"`
	ReferenceNote    sql.NullString  `json:"-" db:"reference_note"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// Available returns the quantity still usable by recipes.
func (i Ingredient) Available() float64 {
	return i.TotalQuantity - i.ConsumedQuantity
}

// RecipeItem ties one ingredient quantity to one unit of a product.
type RecipeItem struct {
	ID           int64   `json:"id" db:"id"`
	ProductID    int64   `json:"product_id" db:"product_id"`
	IngredientID int64   `json:"ingredient_id" db:"ingredient_id"`
	Quantity     float64 `json:"quantity" db:"quantity"`
}

// RecipeSubmission is the full replacement payload for a product's recipe.
type RecipeSubmission struct {
	IngredientID int64   `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

// OnDemandStock marks a product whose availability is governed entirely
// by its recipe's ingredients, with no independent stock count.
const OnDemandStock = -1

// Product is a sellable catalog entry. StockQuantity is either a literal
// count or the OnDemandStock sentinel.
type Product struct {
	ID            int64          `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Variant       sql.NullString `json:"-" db:"variant"`
	Price         float64        `json:"price" db:"price"`
	CategoryID    sql.NullInt64  `json:"-" db:"category_id"`
	CategoryName  sql.NullString `json:"-" db:"category_name"`
	IsActive      bool           `json:"is_active" db:"is_active"`
	StockQuantity int            `json:"stock_quantity" db:"stock_quantity"`
	MinStock      int            `json:"min_stock" db:"min_stock"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// OnDemand reports whether the product carries the stock sentinel.
func (p Product) OnDemand() bool {
	return p.StockQuantity == OnDemandStock
}

// VariantLabel returns the variant or "" when none is set.
func (p Product) VariantLabel() string {
	if p.Variant.Valid {
		return p.Variant.String
	}
	return ""
}

// Category groups products for the catalog views.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DefaultAdditionStatus is the condition label a new addition starts
// with unless the caller says otherwise.
const DefaultAdditionStatus = "bien"

// Addition is a topping, sauce or fruit sold on top of a product. It
// carries its own counted stock, independent of the ingredient ledger.
type Addition struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Kind      string    `json:"kind" db:"kind"`
	Price     float64   `json:"price" db:"price"`
	Stock     int       `json:"stock" db:"stock"`
	MinStock  int       `json:"min_stock" db:"min_stock"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StockLevel is the Stock Calculator's producible-units answer for one
// product. OnDemand=true means the recipe is empty, so ingredient
// availability places no cap at all; Units is meaningless in that case.
type StockLevel struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Variant   string `json:"variant,omitempty"`
	Units     int    `json:"units"`
	OnDemand  bool   `json:"on_demand"`
}

// IngredientStockDetail explains how one recipe ingredient constrains a
// product's producible units.
type IngredientStockDetail struct {
	IngredientID    int64   `json:"ingredient_id"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	Available       float64 `json:"available"`
	RequiredPerUnit float64 `json:"required_per_unit"`
	PossibleUnits   int     `json:"possible_units"`
	IsLimiting      bool    `json:"is_limiting"`
}

// ProductStockDetail is the per-product drill-down view.
type ProductStockDetail struct {
	Product     StockLevel              `json:"product"`
	Ingredients []IngredientStockDetail `json:"ingredients"`
}

// StockSummary buckets active products by their derived stock state.
type StockSummary struct {
	TotalProducts int `json:"total_products"`
	OutOfStock    int `json:"out_of_stock"`
	LowStock      int `json:"low_stock"`
	Available     int `json:"available"`
	OnDemand      int `json:"on_demand"`
}

// SaleLine is one line item as submitted by the billing frontend. The
// product description may arrive denormalized ("Name - Variant"), so
// the processor resolves it through a fallback chain.
type SaleLine struct {
	ProductName    string  `json:"product_name"`
	ProductVariant string  `json:"product_variant,omitempty"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	Subtotal       float64 `json:"subtotal"`
}

// InvoiceMeta carries the header fields of a sale submission.
type InvoiceMeta struct {
	InvoiceNumber    string  `json:"invoice_number"`
	ClientName       string  `json:"client_name"`
	ClientPhone      string  `json:"client_phone,omitempty"`
	DeliveryFee      float64 `json:"delivery_fee"`
	AmountPaid       float64 `json:"amount_paid"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentReference string  `json:"payment_reference,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// Invoice is a committed sale with its line items.
type Invoice struct {
	ID                 int64          `json:"id" db:"id"`
	InvoiceNumber      string         `json:"invoice_number" db:"invoice_number"`
	InvoiceDate        time.Time      `json:"invoice_date" db:"invoice_date"`
	ClientName         string         `json:"client_name" db:"client_name"`
	ClientPhone        sql.NullString `json:"-" db:"client_phone"`
	SellerUsername     string         `json:"seller_username" db:"seller_username"`
	Subtotal           float64        `json:"subtotal" db:"subtotal"`
	DeliveryFee        float64        `json:"delivery_fee" db:"delivery_fee"`
	TotalAmount        float64        `json:"total_amount" db:"total_amount"`
	AmountPaid         float64        `json:"amount_paid" db:"amount_paid"`
	ChangeReturned     float64        `json:"change_returned" db:"change_returned"`
	PaymentMethod      string         `json:"payment_method" db:"payment_method"`
	PaymentReference   sql.NullString `json:"-" db:"payment_reference"`
	Notes              sql.NullString `json:"-" db:"notes"`
	IsCancelled        bool           `json:"is_cancelled" db:"is_cancelled"`
	CancellationReason sql.NullString `json:"-" db:"cancellation_reason"`
	CancelledAt        sql.NullTime   `json:"-" db:"cancelled_at"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	Items              []InvoiceItem  `json:"items" db:"-"`
}

// InvoiceItem is a persisted line of a committed invoice. ProductID is
// null when the description could not be matched to the catalog.
type InvoiceItem struct {
	ID             int64          `json:"id" db:"id"`
	InvoiceID      int64          `json:"invoice_id" db:"invoice_id"`
	ProductID      sql.NullInt64  `json:"-" db:"product_id"`
	ProductName    string         `json:"product_name" db:"product_name"`
	ProductVariant sql.NullString `json:"-" db:"product_variant"`
	Quantity       int            `json:"quantity" db:"quantity"`
	UnitPrice      float64        `json:"unit_price" db:"unit_price"`
	Subtotal       float64        `json:"subtotal" db:"subtotal"`
}

// User is an authenticated operator of the system.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RoleID       int64     `json:"role_id" db:"role_id"`
	RoleName     string    `json:"role_name" db:"role_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Principal is the verified identity attached to mutating requests.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Role names a permission bundle. Enforcement beyond authentication is
// left to the frontend, matching the original system.
type Role struct {
	ID          int64    `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Permissions []string `json:"permissions" db:"-"`
}

// DashboardSummary is the landing-page snapshot.
type DashboardSummary struct {
	RevenueToday   float64      `json:"revenue_today"`
	InvoicesToday  int          `json:"invoices_today"`
	Stock          StockSummary `json:"stock"`
	LowIngredients int          `json:"low_ingredients"`
}

// TopProduct is a best-seller statistics row.
type TopProduct struct {
	ProductName    string         `json:"product_name" db:"product_name"`
	ProductVariant sql.NullString `json:"-" db:"product_variant"`
	QuantitySold   int            `json:"quantity_sold" db:"quantity_sold"`
	Revenue        float64        `json:"revenue" db:"revenue"`
}

// PaymentBreakdown aggregates invoices per payment method.
type PaymentBreakdown struct {
	PaymentMethod string  `json:"payment_method" db:"payment_method"`
	Count         int     `json:"count" db:"count"`
	Total         float64 `json:"total" db:"total"`
}

// DailyRevenue is one point of the revenue time series.
type DailyRevenue struct {
	Date    string  `json:"date" db:"date"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Count   int     `json:"count" db:"count"`
}
