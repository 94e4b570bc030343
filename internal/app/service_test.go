package app

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nextbase/internal/model"
	"nextbase/internal/platform/mysql/mysqltest"
	"nextbase/internal/repository"
)

type recordingPublisher struct {
	events []model.EntityEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.EntityEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := mysqltest.New(t)
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return db, mock
}

var now = time.Date(2025, 10, 18, 4, 20, 0, 0, time.UTC)

func userRow(id int64, username, email string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}).
		AddRow(id, username, email, now, now)
}

func noRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"1"})
}

func oneRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"1"}).AddRow(1)
}

const (
	userByID       = "SELECT * FROM users WHERE id = ?"
	usernameProbe  = "SELECT 1 FROM users WHERE username = ? LIMIT 1"
	emailProbe     = "SELECT 1 FROM users WHERE email = ? LIMIT 1"
	categoryByID   = "SELECT * FROM categories WHERE id = ?"
	categoryProbe  = "SELECT 1 FROM categories WHERE name = ? LIMIT 1"
	renameProbe    = "SELECT 1 FROM categories WHERE name = ? AND id <> ? LIMIT 1"
	usernameOther  = "SELECT 1 FROM users WHERE username = ? AND id <> ? LIMIT 1"
	emailOther     = "SELECT 1 FROM users WHERE email = ? AND id <> ? LIMIT 1"
	productInsert  = "INSERT INTO products (name, description, price, stock, category_id) VALUES (?, ?, ?, ?, ?)"
	productByIDSQL = "SELECT p.*, c.name AS category_name FROM products p LEFT JOIN categories c ON p.category_id = c.id WHERE p.id = ?"
)

func TestUserCreate(t *testing.T) {
	db, mock := newMockDB(t)
	pub := &recordingPublisher{}
	svc := NewUserService(repository.NewUserRepository(db), pub)

	mock.ExpectQuery(regexp.QuoteMeta(usernameProbe)).WithArgs("admin").WillReturnRows(noRows())
	mock.ExpectQuery(regexp.QuoteMeta(emailProbe)).WithArgs("admin@example.com").WillReturnRows(noRows())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, email) VALUES (?, ?)")).
		WithArgs("admin", "admin@example.com").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta(userByID)).WithArgs(int64(7)).
		WillReturnRows(userRow(7, "admin", "admin@example.com"))

	user, err := svc.Create(context.Background(), repository.UserFields{Username: "admin", Email: "admin@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "admin", user.Username)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.EntityUser, pub.events[0].Entity)
	assert.Equal(t, model.ActionCreated, pub.events[0].Action)
	assert.Equal(t, int64(7), pub.events[0].EntityID)
	assert.Contains(t, string(pub.events[0].Payload), `"username":"admin"`)
}

func TestUserCreateRejectsDuplicates(t *testing.T) {
	t.Run("username", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewUserService(repository.NewUserRepository(db), nil)
		mock.ExpectQuery(regexp.QuoteMeta(usernameProbe)).WithArgs("admin").WillReturnRows(oneRow())

		_, err := svc.Create(context.Background(), repository.UserFields{Username: "admin", Email: "new@example.com"})
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("email", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewUserService(repository.NewUserRepository(db), nil)
		mock.ExpectQuery(regexp.QuoteMeta(usernameProbe)).WithArgs("fresh").WillReturnRows(noRows())
		mock.ExpectQuery(regexp.QuoteMeta(emailProbe)).WithArgs("admin@example.com").WillReturnRows(oneRow())

		_, err := svc.Create(context.Background(), repository.UserFields{Username: "fresh", Email: "admin@example.com"})
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestUserCreatePublishFailureIsIgnored(t *testing.T) {
	db, mock := newMockDB(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewUserService(repository.NewUserRepository(db), pub)

	mock.ExpectQuery(regexp.QuoteMeta(usernameProbe)).WillReturnRows(noRows())
	mock.ExpectQuery(regexp.QuoteMeta(emailProbe)).WillReturnRows(noRows())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta(userByID)).WithArgs(int64(3)).
		WillReturnRows(userRow(3, "u3", "u3@example.com"))

	user, err := svc.Create(context.Background(), repository.UserFields{Username: "u3", Email: "u3@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Len(t, pub.events, 1)
}

func TestUserUpdate(t *testing.T) {
	t.Run("missing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewUserService(repository.NewUserRepository(db), nil)
		mock.ExpectQuery(regexp.QuoteMeta(userByID)).WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.Update(context.Background(), 9, repository.UserFields{Username: "x12", Email: "x@x.com"})
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unchanged fields skip probes", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewUserService(repository.NewUserRepository(db), nil)
		mock.ExpectQuery(regexp.QuoteMeta(userByID)).WithArgs(int64(1)).
			WillReturnRows(userRow(1, "admin", "admin@example.com"))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET username = ?, email = ?")).
			WithArgs("admin", "admin@example.com", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(userByID)).WithArgs(int64(1)).
			WillReturnRows(userRow(1, "admin", "admin@example.com"))

		user, err := svc.Update(context.Background(), 1, repository.UserFields{Username: "admin", Email: "admin@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Username)
	})

	t.Run("changed email taken", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewUserService(repository.NewUserRepository(db), nil)
		mock.ExpectQuery(regexp.QuoteMeta(userByID)).WithArgs(int64(1)).
			WillReturnRows(userRow(1, "admin", "admin@example.com"))
		mock.ExpectQuery(regexp.QuoteMeta(emailOther)).WithArgs("user1@example.com", int64(1)).WillReturnRows(oneRow())

		_, err := svc.Update(context.Background(), 1, repository.UserFields{Username: "admin", Email: "user1@example.com"})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("case-only rename does not collide with itself", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewUserService(repository.NewUserRepository(db), nil)
		mock.ExpectQuery(regexp.QuoteMeta(userByID)).WithArgs(int64(1)).
			WillReturnRows(userRow(1, "Alice", "alice@example.com"))
		mock.ExpectQuery(regexp.QuoteMeta(usernameOther)).WithArgs("alice", int64(1)).WillReturnRows(noRows())
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET username = ?, email = ?")).
			WithArgs("alice", "alice@example.com", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(userByID)).WithArgs(int64(1)).
			WillReturnRows(userRow(1, "alice", "alice@example.com"))

		user, err := svc.Update(context.Background(), 1, repository.UserFields{Username: "alice", Email: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})
}

func TestUserDelete(t *testing.T) {
	db, mock := newMockDB(t)
	pub := &recordingPublisher{}
	svc := NewUserService(repository.NewUserRepository(db), pub)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.ErrorIs(t, svc.Delete(context.Background(), 5), ErrUserNotFound)
	assert.Empty(t, pub.events)

	require.NoError(t, svc.Delete(context.Background(), 1))
	require.Len(t, pub.events, 1)
	assert.Equal(t, model.ActionDeleted, pub.events[0].Action)
	assert.Nil(t, pub.events[0].Payload)
}

func TestUserGetPropagatesStorageError(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(repository.NewUserRepository(db), nil)
	mock.ExpectQuery(regexp.QuoteMeta(userByID)).WillReturnError(errors.New("connection refused"))

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrQuery)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCategoryCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db), nil)
	mock.ExpectQuery(regexp.QuoteMeta(categoryProbe)).WithArgs("Books").WillReturnRows(oneRow())

	_, err := svc.Create(context.Background(), repository.CategoryFields{Name: "Books"})
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCategoryUpdateRename(t *testing.T) {
	db, mock := newMockDB(t)
	pub := &recordingPublisher{}
	svc := NewCategoryService(repository.NewCategoryRepository(db), pub)
	cols := []string{"id", "name", "description", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta(categoryByID)).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(2, "Books", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(renameProbe)).WithArgs("Novels", int64(2)).WillReturnRows(noRows())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET name = ?, description = ?")).
		WithArgs("Novels", nil, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(categoryByID)).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(2, "Novels", nil, now, now))

	category, err := svc.Update(context.Background(), 2, repository.CategoryFields{Name: "Novels"})
	require.NoError(t, err)
	assert.Equal(t, "Novels", category.Name)
	assert.Nil(t, category.Description)
	require.Len(t, pub.events, 1)
	assert.Equal(t, model.EntityCategory, pub.events[0].Entity)
}

func TestCategoryUpdateCaseOnlyRename(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db), nil)
	cols := []string{"id", "name", "description", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta(categoryByID)).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(2, "books", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(renameProbe)).WithArgs("Books", int64(2)).WillReturnRows(noRows())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET name = ?, description = ?")).
		WithArgs("Books", nil, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(categoryByID)).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(2, "Books", nil, now, now))

	category, err := svc.Update(context.Background(), 2, repository.CategoryFields{Name: "Books"})
	require.NoError(t, err)
	assert.Equal(t, "Books", category.Name)
}

func TestCategoryDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db), nil)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE id = ?")).WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, svc.Delete(context.Background(), 4), ErrCategoryNotFound)
}

func TestProductCreateUnknownCategory(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db), nil)
	categoryID := int64(42)
	mock.ExpectQuery(regexp.QuoteMeta(categoryByID)).WithArgs(categoryID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Create(context.Background(), repository.ProductFields{
		Name:       "Widget",
		Price:      decimal.NewFromInt(5),
		CategoryID: &categoryID,
	})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestProductCreateWithoutCategory(t *testing.T) {
	db, mock := newMockDB(t)
	pub := &recordingPublisher{}
	svc := NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db), pub)

	mock.ExpectExec(regexp.QuoteMeta(productInsert)).
		WithArgs("Widget", nil, "9.99", 3, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta(productByIDSQL)).WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "stock", "category_id", "created_at", "updated_at", "category_name"}).
			AddRow(11, "Widget", nil, "9.99", 3, nil, now, now, nil))

	product, err := svc.Create(context.Background(), repository.ProductFields{
		Name:  "Widget",
		Price: decimal.RequireFromString("9.99"),
		Stock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "9.99", product.Price.StringFixed(2))
	assert.Nil(t, product.CategoryID)
	assert.Nil(t, product.CategoryName)
	require.Len(t, pub.events, 1)
	assert.Contains(t, string(pub.events[0].Payload), `"price":"9.99"`)
}

func TestProductUpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db), nil)
	mock.ExpectQuery(regexp.QuoteMeta(productByIDSQL)).WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Update(context.Background(), 100, repository.ProductFields{Name: "Widget", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAuditRecord(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuditService(repository.NewAuditRepository(db))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs (entity, entity_id, action, payload) VALUES (?, ?, ?, ?)")).
		WithArgs("product", int64(11), "created", `{"id":11}`).
		WillReturnResult(sqlmock.NewResult(99, 1))

	entry, err := svc.Record(context.Background(), model.EntityEvent{
		Entity:   model.EntityProduct,
		EntityID: 11,
		Action:   model.ActionCreated,
		Payload:  []byte(`{"id":11}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), entry.ID)
	assert.Equal(t, "created", entry.Action)
}
