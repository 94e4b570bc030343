// Package seed loads the demo catalogue used by local environments. Every insert is
// guarded by an existence probe, so running it twice leaves the data unchanged.
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"nextbase/internal/repository"
)

type Category struct {
	Name        string
	Description string
}

type User struct {
	Username string
	Email    string
}

type Product struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
}

type Data struct {
	Categories []Category
	Users      []User
	Products   []Product
}

// Count tallies one table's outcome.
type Count struct {
	Created int
	Skipped int
}

type Report struct {
	Categories Count
	Users      Count
	Products   Count
}

func Default() Data {
	return Data{
		Categories: []Category{
			{Name: "Electronics", Description: "Phones, computers and other digital devices"},
			{Name: "Clothing", Description: "Apparel, shoes and accessories"},
			{Name: "Home", Description: "Furniture and household goods"},
			{Name: "Books", Description: "Books and magazines"},
			{Name: "Sports", Description: "Fitness and outdoor gear"},
		},
		Users: []User{
			{Username: "admin", Email: "admin@example.com"},
			{Username: "user1", Email: "user1@example.com"},
			{Username: "user2", Email: "user2@example.com"},
			{Username: "test", Email: "test@example.com"},
		},
		Products: []Product{
			{Name: "iPhone 15", Description: "Latest Apple smartphone", Price: decimal.NewFromInt(7999), Stock: 50, Category: "Electronics"},
			{Name: "MacBook Pro", Description: "Professional laptop", Price: decimal.NewFromInt(12999), Stock: 30, Category: "Electronics"},
			{Name: "Nike running shoes", Description: "Comfortable running shoes", Price: decimal.NewFromInt(599), Stock: 100, Category: "Sports"},
			{Name: "Coffee machine", Description: "Fully automatic coffee machine", Price: decimal.NewFromInt(1299), Stock: 25, Category: "Home"},
			{Name: "Programming book", Description: "Go programming guide", Price: decimal.NewFromInt(89), Stock: 200, Category: "Books"},
			{Name: "Down jacket", Description: "Warm winter down jacket", Price: decimal.NewFromInt(399), Stock: 80, Category: "Clothing"},
			{Name: "Bluetooth earphones", Description: "Wireless bluetooth earphones", Price: decimal.NewFromInt(299), Stock: 150, Category: "Electronics"},
			{Name: "Yoga mat", Description: "Non-slip yoga mat", Price: decimal.NewFromInt(199), Stock: 60, Category: "Sports"},
		},
	}
}

type Seeder struct {
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	products   *repository.ProductRepository
}

func New(db *gorm.DB) *Seeder {
	return &Seeder{
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		products:   repository.NewProductRepository(db),
	}
}

// Run inserts categories first so products can resolve their category by name. A product
// whose category is missing is stored without one.
func (s *Seeder) Run(ctx context.Context, data Data) (*Report, error) {
	report := &Report{}

	for _, c := range data.Categories {
		exists, err := s.categories.ExistsByName(ctx, c.Name)
		if err != nil {
			return report, fmt.Errorf("seed category %q failed: %w", c.Name, err)
		}
		if exists {
			report.Categories.Skipped++
			continue
		}
		description := c.Description
		if _, err := s.categories.Create(ctx, repository.CategoryFields{Name: c.Name, Description: &description}); err != nil {
			return report, fmt.Errorf("seed category %q failed: %w", c.Name, err)
		}
		report.Categories.Created++
	}

	for _, u := range data.Users {
		exists, err := s.userExists(ctx, u)
		if err != nil {
			return report, fmt.Errorf("seed user %q failed: %w", u.Username, err)
		}
		if exists {
			report.Users.Skipped++
			continue
		}
		if _, err := s.users.Create(ctx, repository.UserFields{Username: u.Username, Email: u.Email}); err != nil {
			return report, fmt.Errorf("seed user %q failed: %w", u.Username, err)
		}
		report.Users.Created++
	}

	for _, p := range data.Products {
		exists, err := s.products.ExistsByName(ctx, p.Name)
		if err != nil {
			return report, fmt.Errorf("seed product %q failed: %w", p.Name, err)
		}
		if exists {
			report.Products.Skipped++
			continue
		}
		fields := repository.ProductFields{Name: p.Name, Price: p.Price, Stock: p.Stock}
		if p.Description != "" {
			description := p.Description
			fields.Description = &description
		}
		if p.Category != "" {
			category, err := s.categories.FindByName(ctx, p.Category)
			if err != nil {
				return report, fmt.Errorf("seed product %q failed: %w", p.Name, err)
			}
			if category != nil {
				id := category.ID
				fields.CategoryID = &id
			}
		}
		if _, err := s.products.Create(ctx, fields); err != nil {
			return report, fmt.Errorf("seed product %q failed: %w", p.Name, err)
		}
		report.Products.Created++
	}

	return report, nil
}

// userExists treats a taken email as present even under another username, since
// inserting it would trip the unique index.
func (s *Seeder) userExists(ctx context.Context, u User) (bool, error) {
	exists, err := s.users.ExistsByUsername(ctx, u.Username)
	if err != nil || exists {
		return exists, err
	}
	owner, err := s.users.FindByEmail(ctx, u.Email)
	if err != nil {
		return false, err
	}
	if owner != nil {
		log.Printf("seed: email %s already belongs to user %q, skipping %q", u.Email, owner.Username, u.Username)
		return true, nil
	}
	return false, nil
}
