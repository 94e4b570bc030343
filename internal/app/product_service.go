package app

import (
	"context"

	"nextbase/internal/model"
	"nextbase/internal/repository"
)

type ProductService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	notifier
}

func NewProductService(productRepo *repository.ProductRepository, categoryRepo *repository.CategoryRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		notifier:     notifier{publisher: publisher},
	}
}

// List pages products, optionally restricted to one category.
func (s *ProductService) List(ctx context.Context, opts repository.PageOptions, categoryID *int64) (*repository.Page[model.Product], error) {
	return s.productRepo.FindAll(ctx, opts, categoryID)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, input repository.ProductFields) (*model.Product, error) {
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	id, err := s.productRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, model.EntityProduct, model.ActionCreated, id, product)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, input repository.ProductFields) (*model.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.Update(ctx, id, input); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, model.EntityProduct, model.ActionUpdated, id, product)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	affected, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	s.notify(ctx, model.EntityProduct, model.ActionDeleted, id, nil)
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	category, err := s.categoryRepo.FindByID(ctx, *categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrUnknownCategory
	}
	return nil
}
