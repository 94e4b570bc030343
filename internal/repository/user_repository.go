package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nextbase/internal/model"
)

var UserSource = Source{
	From:    string(TableUsers),
	Columns: "*",
	Sortable: map[string]string{
		"id":         "id",
		"username":   "username",
		"email":      "email",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultSort:      "created_at",
	DefaultDirection: Desc,
}

type UserFields struct {
	Username string
	Email    string
}

type UserRepository struct {
	ex *Executor
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{ex: NewExecutor(db)}
}

func (r *UserRepository) FindAll(ctx context.Context, opts PageOptions) (*Page[model.User], error) {
	page, err := Paginate[model.User](ctx, r.ex, UserSource, opts, "")
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return page, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := QueryOne[model.User](ctx, r.ex, "SELECT * FROM users WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := QueryOne[model.User](ctx, r.ex, "SELECT * FROM users WHERE email = ?", email)
	if err != nil {
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, f UserFields) (int64, error) {
	id, err := r.ex.Insert(ctx, "INSERT INTO users (username, email) VALUES (?, ?)", f.Username, f.Email)
	if err != nil {
		return 0, fmt.Errorf("create user failed: %w", err)
	}
	return id, nil
}

// Update replaces every mutable column and reports how many rows matched.
func (r *UserRepository) Update(ctx context.Context, id int64, f UserFields) (int64, error) {
	affected, err := r.ex.Update(ctx,
		"UPDATE users SET username = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		f.Username, f.Email, id,
	)
	if err != nil {
		return 0, fmt.Errorf("update user failed: %w", err)
	}
	return affected, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	affected, err := r.ex.Delete(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete user failed: %w", err)
	}
	return affected, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.ex.Exists(ctx, TableUsers, "email = ?", email)
	if err != nil {
		return false, fmt.Errorf("check user email failed: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := r.ex.Exists(ctx, TableUsers, "username = ?", username)
	if err != nil {
		return false, fmt.Errorf("check username failed: %w", err)
	}
	return exists, nil
}

// ExistsByEmailExcept probes for another user holding email. The column collation is
// case-insensitive, so the row being updated must be excluded explicitly.
func (r *UserRepository) ExistsByEmailExcept(ctx context.Context, email string, id int64) (bool, error) {
	exists, err := r.ex.Exists(ctx, TableUsers, "email = ? AND id <> ?", email, id)
	if err != nil {
		return false, fmt.Errorf("check user email failed: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByUsernameExcept(ctx context.Context, username string, id int64) (bool, error) {
	exists, err := r.ex.Exists(ctx, TableUsers, "username = ? AND id <> ?", username, id)
	if err != nil {
		return false, fmt.Errorf("check username failed: %w", err)
	}
	return exists, nil
}
