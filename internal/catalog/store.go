package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryHasChildren = errors.New("category has child categories")
	ErrProductNotFound     = errors.New("product not found")
)

// Store is the data access abstraction for the catalog domain.
// Implemented by Repository (which uses pgxpool.Pool).
type Store interface {
	// Categories
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	ListActiveCategories(ctx context.Context) ([]*Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]*Category, int, error)
	ChildCategories(ctx context.Context, parentID string) ([]*Category, error)
	SearchCategoriesByName(ctx context.Context, fragment string) ([]*Category, error)
	CategoryPath(ctx context.Context, id string) ([]*Category, error)
	GetCategoryTree(ctx context.Context) ([]*CategoryWithChildren, error)
	CreateCategory(ctx context.Context, c *Category) (*Category, error)
	UpdateCategory(ctx context.Context, c *Category) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Junction rows
	AssociationsByCategoryIDs(ctx context.Context, categoryIDs []string) ([]*ProductCategory, error)

	// Products
	GetProductByID(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*Product, int, error)
	AvailableProductsByIDs(ctx context.Context, ids []string) ([]*Product, error)
	AvailableProductsByCategoryIDs(ctx context.Context, categoryIDs []string) ([]*Product, error)
	AllAvailableProducts(ctx context.Context) ([]*Product, error)
	SearchAvailableProducts(ctx context.Context, term string) ([]*Product, error)
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SetProductImage(ctx context.Context, id, url string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const categoryColumns = `id, name, parent_id, level, path, description, image_url`

func scanCategory(row pgx.Row) (*Category, error) {
	c := &Category{}
	err := row.Scan(&c.ID, &c.Name, &c.ParentID, &c.Level, &c.Path, &c.Description, &c.ImageURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ------------------------------------
// Categories
// ------------------------------------

func (r *Repository) GetCategoryByID(ctx context.Context, id string) (*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1;`
	c, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return c, nil
}

// ListActiveCategories returns every category, root-first. The resolver
// matches slugs against this list, so no pagination is applied.
func (r *Repository) ListActiveCategories(ctx context.Context) ([]*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY level, name;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

func (r *Repository) ListCategories(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	if limit < 1 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + categoryColumns + `, COUNT(*) OVER() AS total_count
		FROM categories
		ORDER BY level, name
		LIMIT $1 OFFSET $2;`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories page: %w", err)
	}
	defer rows.Close()

	var list []*Category
	var totalCount int
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.Level, &c.Path,
			&c.Description, &c.ImageURL, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return list, totalCount, nil
}

// ChildCategories returns the direct children of a category, one level only.
func (r *Repository) ChildCategories(ctx context.Context, parentID string) ([]*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE parent_id = $1 ORDER BY name;`
	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("child categories: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

// SearchCategoriesByName performs a case-insensitive substring search.
func (r *Repository) SearchCategoriesByName(ctx context.Context, fragment string) ([]*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name ILIKE '%' || $1 || '%' ORDER BY name;`
	rows, err := r.db.Query(ctx, query, fragment)
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

// CategoryPath returns the ancestor chain for a category, ordered root to
// leaf, the category itself included.
func (r *Repository) CategoryPath(ctx context.Context, id string) ([]*Category, error) {
	query := `
		WITH RECURSIVE ancestors AS (
			SELECT ` + categoryColumns + `, 0 AS depth
			FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id, c.name, c.parent_id, c.level, c.path, c.description, c.image_url, a.depth + 1
			FROM categories c
			INNER JOIN ancestors a ON c.id = a.parent_id
		)
		SELECT ` + categoryColumns + ` FROM ancestors ORDER BY depth DESC;`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("category path: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

func (r *Repository) GetCategoryTree(ctx context.Context) ([]*CategoryWithChildren, error) {
	query := `
		WITH RECURSIVE category_tree AS (
			SELECT ` + categoryColumns + `
			FROM categories WHERE parent_id IS NULL
			UNION ALL
			SELECT c.id, c.name, c.parent_id, c.level, c.path, c.description, c.image_url
			FROM categories c
			INNER JOIN category_tree ct ON c.parent_id = ct.id
		)
		SELECT * FROM category_tree ORDER BY level, name;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("category tree: %w", err)
	}
	defer rows.Close()

	var flat []*CategoryWithChildren
	for rows.Next() {
		var node CategoryWithChildren
		if err := rows.Scan(&node.ID, &node.Name, &node.ParentID, &node.Level,
			&node.Path, &node.Description, &node.ImageURL); err != nil {
			return nil, fmt.Errorf("scan category tree: %w", err)
		}
		flat = append(flat, &node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return buildCategoryTree(flat), nil
}

// buildCategoryTree converts flat rows into a hierarchical structure.
func buildCategoryTree(nodes []*CategoryWithChildren) []*CategoryWithChildren {
	byID := make(map[string]*CategoryWithChildren, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var roots []*CategoryWithChildren
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if parent, ok := byID[*n.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
	}
	return roots
}

// CreateCategory inserts a category. The id is generated here so the
// materialized path can include it; level and path derive from the parent.
func (r *Repository) CreateCategory(ctx context.Context, c *Category) (*Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}

	c.ID = uuid.New().String()
	c.Level = 0
	c.Path = []string{c.ID}
	if c.ParentID != nil {
		parent, err := r.GetCategoryByID(ctx, *c.ParentID)
		if err != nil {
			return nil, err
		}
		c.Level = parent.Level + 1
		c.Path = append(append([]string{}, parent.Path...), c.ID)
	}

	query := `
		INSERT INTO categories (id, name, parent_id, level, path, description, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + categoryColumns + `;`

	created, err := scanCategory(r.db.QueryRow(ctx, query,
		c.ID, c.Name, c.ParentID, c.Level, c.Path, c.Description, c.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// UpdateCategory is a partial update. An empty name and nil description or
// image url keep the stored values; moving a category to another parent is
// not supported.
func (r *Repository) UpdateCategory(ctx context.Context, c *Category) (*Category, error) {
	query := `
		UPDATE categories
		SET
			name = COALESCE(NULLIF($1, ''), name),
			description = COALESCE($2, description),
			image_url = COALESCE($3, image_url)
		WHERE id = $4
		RETURNING ` + categoryColumns + `;`

	updated, err := scanCategory(r.db.QueryRow(ctx, query,
		c.Name, c.Description, c.ImageURL, c.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	hasChildren, err := r.hasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return ErrCategoryHasChildren
	}

	result, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) hasChildren(ctx context.Context, parentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`,
		parentID).Scan(&exists)
	return exists, err
}

func validateCategory(c *Category) error {
	if c == nil {
		return fmt.Errorf("category cannot be nil")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return fmt.Errorf("category cannot be its own parent")
	}
	return nil
}

func collectCategories(rows pgx.Rows) ([]*Category, error) {
	var list []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.Level, &c.Path,
			&c.Description, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

// ------------------------------------
// Junction rows
// ------------------------------------

func (r *Repository) AssociationsByCategoryIDs(ctx context.Context, categoryIDs []string) ([]*ProductCategory, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT product_id, category_id, discount_percentage, discounted_price
		FROM product_categories
		WHERE category_id = ANY($1);`

	rows, err := r.db.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("associations by category ids: %w", err)
	}
	defer rows.Close()

	var list []*ProductCategory
	for rows.Next() {
		var pc ProductCategory
		if err := rows.Scan(&pc.ProductID, &pc.CategoryID, &pc.DiscountPercentage, &pc.DiscountedPrice); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		list = append(list, &pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

// ------------------------------------
// Products
// ------------------------------------

const productColumns = `id, name, description, price, stock_quantity, category_id, cuisine, availability, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity,
		&p.CategoryID, &p.Cuisine, &p.Availability, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]*Product, error) {
	var list []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity,
			&p.CategoryID, &p.Cuisine, &p.Availability, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *Repository) GetProductByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProducts(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	if limit < 1 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + productColumns + `, COUNT(*) OVER() AS total_count
		FROM products
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2;`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*Product
	var totalCount int
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity,
			&p.CategoryID, &p.Cuisine, &p.Availability, &p.ImageURL,
			&p.CreatedAt, &p.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return list, totalCount, nil
}

func (r *Repository) AvailableProductsByIDs(ctx context.Context, ids []string) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE availability = 'Y' AND id = ANY($1);`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("products by ids: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *Repository) AvailableProductsByCategoryIDs(ctx context.Context, categoryIDs []string) ([]*Product, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE availability = 'Y' AND category_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("products by category ids: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *Repository) AllAvailableProducts(ctx context.Context) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE availability = 'Y';`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("all products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *Repository) SearchAvailableProducts(ctx context.Context, term string) ([]*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE availability = 'Y'
		  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%');`

	rows, err := r.db.Query(ctx, query, term)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *Repository) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if p.Availability == "" {
		p.Availability = AvailabilityYes
	}

	query := `
		INSERT INTO products (name, description, price, stock_quantity, category_id, cuisine, availability, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns + `;`

	created, err := scanProduct(r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.StockQuantity, p.CategoryID, p.Cuisine, p.Availability, p.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *Product) (*Product, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("product id is required")
	}

	query := `
		UPDATE products
		SET
			name = COALESCE(NULLIF($1, ''), name),
			description = COALESCE($2, description),
			price = $3,
			stock_quantity = $4,
			category_id = COALESCE($5, category_id),
			cuisine = COALESCE($6, cuisine),
			availability = COALESCE(NULLIF($7, ''), availability),
			image_url = COALESCE($8, image_url),
			updated_at = now()
		WHERE id = $9
		RETURNING ` + productColumns + `;`

	updated, err := scanProduct(r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.StockQuantity, p.CategoryID,
		p.Cuisine, p.Availability, p.ImageURL, p.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) SetProductImage(ctx context.Context, id, url string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE products SET image_url = $1, updated_at = now() WHERE id = $2;`, url, id)
	if err != nil {
		return fmt.Errorf("set product image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func validateProduct(p *Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name cannot be empty")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price cannot be negative")
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative")
	}
	return nil
}
