package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"nextbase/internal/model"
)

const productSelect = "SELECT p.*, c.name AS category_name FROM products p LEFT JOIN categories c ON p.category_id = c.id"

var ProductSource = Source{
	From:      "products p LEFT JOIN categories c ON p.category_id = c.id",
	CountFrom: "products p",
	Columns:   "p.*, c.name AS category_name",
	Sortable: map[string]string{
		"id":         "p.id",
		"name":       "p.name",
		"price":      "p.price",
		"stock":      "p.stock",
		"created_at": "p.created_at",
		"updated_at": "p.updated_at",
	},
	DefaultSort:      "created_at",
	DefaultDirection: Desc,
}

type ProductFields struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	CategoryID  *int64
}

type ProductRepository struct {
	ex *Executor
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{ex: NewExecutor(db)}
}

// FindAll pages products with their category name. A non-nil categoryID restricts both
// the data and the count query.
func (r *ProductRepository) FindAll(ctx context.Context, opts PageOptions, categoryID *int64) (*Page[model.Product], error) {
	var (
		where string
		args  []any
	)
	if categoryID != nil {
		where = "p.category_id = ?"
		args = append(args, *categoryID)
	}

	page, err := Paginate[model.Product](ctx, r.ex, ProductSource, opts, where, args...)
	if err != nil {
		return nil, fmt.Errorf("list products failed: %w", err)
	}
	return page, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := QueryOne[model.Product](ctx, r.ex, productSelect+" WHERE p.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query product by id failed: %w", err)
	}
	return product, nil
}

func (r *ProductRepository) Create(ctx context.Context, f ProductFields) (int64, error) {
	id, err := r.ex.Insert(ctx,
		"INSERT INTO products (name, description, price, stock, category_id) VALUES (?, ?, ?, ?, ?)",
		f.Name, nullableString(f.Description), f.Price, f.Stock, nullableInt64(f.CategoryID),
	)
	if err != nil {
		return 0, fmt.Errorf("create product failed: %w", err)
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, f ProductFields) (int64, error) {
	affected, err := r.ex.Update(ctx,
		"UPDATE products SET name = ?, description = ?, price = ?, stock = ?, category_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		f.Name, nullableString(f.Description), f.Price, f.Stock, nullableInt64(f.CategoryID), id,
	)
	if err != nil {
		return 0, fmt.Errorf("update product failed: %w", err)
	}
	return affected, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	affected, err := r.ex.Delete(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete product failed: %w", err)
	}
	return affected, nil
}

func (r *ProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	exists, err := r.ex.Exists(ctx, TableProducts, "name = ?", name)
	if err != nil {
		return false, fmt.Errorf("check product name failed: %w", err)
	}
	return exists, nil
}
