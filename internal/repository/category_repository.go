package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nextbase/internal/model"
)

var CategorySource = Source{
	From:    string(TableCategories),
	Columns: "*",
	Sortable: map[string]string{
		"id":         "id",
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultSort:      "name",
	DefaultDirection: Asc,
}

type CategoryFields struct {
	Name        string
	Description *string
}

type CategoryRepository struct {
	ex *Executor
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{ex: NewExecutor(db)}
}

func (r *CategoryRepository) FindAll(ctx context.Context, opts PageOptions) (*Page[model.Category], error) {
	page, err := Paginate[model.Category](ctx, r.ex, CategorySource, opts, "")
	if err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	return page, nil
}

// ListAll returns every category ordered by name, for pickers that need the full set.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	list, err := Query[model.Category](ctx, r.ex, "SELECT * FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list all categories failed: %w", err)
	}
	return list, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	category, err := QueryOne[model.Category](ctx, r.ex, "SELECT * FROM categories WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query category by id failed: %w", err)
	}
	return category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, f CategoryFields) (int64, error) {
	id, err := r.ex.Insert(ctx, "INSERT INTO categories (name, description) VALUES (?, ?)", f.Name, nullableString(f.Description))
	if err != nil {
		return 0, fmt.Errorf("create category failed: %w", err)
	}
	return id, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, f CategoryFields) (int64, error) {
	affected, err := r.ex.Update(ctx,
		"UPDATE categories SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		f.Name, nullableString(f.Description), id,
	)
	if err != nil {
		return 0, fmt.Errorf("update category failed: %w", err)
	}
	return affected, nil
}

// Delete removes the category; the products foreign key sets their category_id to NULL.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) (int64, error) {
	affected, err := r.ex.Delete(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete category failed: %w", err)
	}
	return affected, nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	exists, err := r.ex.Exists(ctx, TableCategories, "name = ?", name)
	if err != nil {
		return false, fmt.Errorf("check category name failed: %w", err)
	}
	return exists, nil
}

// ExistsByNameExcept ignores the category with the given id, so a rename that only
// changes letter case does not collide with itself.
func (r *CategoryRepository) ExistsByNameExcept(ctx context.Context, name string, id int64) (bool, error) {
	exists, err := r.ex.Exists(ctx, TableCategories, "name = ? AND id <> ?", name, id)
	if err != nil {
		return false, fmt.Errorf("check category name failed: %w", err)
	}
	return exists, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	category, err := QueryOne[model.Category](ctx, r.ex, "SELECT * FROM categories WHERE name = ?", name)
	if err != nil {
		return nil, fmt.Errorf("query category by name failed: %w", err)
	}
	return category, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
