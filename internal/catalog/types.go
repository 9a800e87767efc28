package catalog

import "time"

// Category is a catalog category. A category fetched from the database has a
// UUID id; a synthetic category (built in memory when a slug resolves to
// nothing persisted) carries the slug itself as its id and is never written
// back.
type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ParentID    *string  `json:"parent_id,omitempty"`
	Level       int      `json:"level"`
	Path        []string `json:"path,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Synthetic   bool     `json:"synthetic,omitempty"`
}

// CategoryWithChildren is a tree node for the admin category view.
type CategoryWithChildren struct {
	Category
	Children []*CategoryWithChildren `json:"children,omitempty"`
}

// Availability flag values on products. Only AvailabilityYes rows are ever
// served by the storefront fetch path.
const (
	AvailabilityYes = "Y"
	AvailabilityNo  = "N"
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	CategoryID    *string   `json:"category_id,omitempty"`
	Cuisine       *string   `json:"cuisine,omitempty"`
	Availability  string    `json:"availability"`
	ImageURL      *string   `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductCategory is a row of the product_categories junction table. When at
// least one row exists for a category id set, junction membership takes
// priority over the product's direct category_id foreign key.
type ProductCategory struct {
	ProductID          string   `json:"product_id"`
	CategoryID         string   `json:"category_id"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	DiscountedPrice    *float64 `json:"discounted_price,omitempty"`
}
