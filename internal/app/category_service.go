package app

import (
	"context"

	"nextbase/internal/model"
	"nextbase/internal/repository"
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	notifier
}

func NewCategoryService(categoryRepo *repository.CategoryRepository, publisher EventPublisher) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		notifier:     notifier{publisher: publisher},
	}
}

func (s *CategoryService) List(ctx context.Context, opts repository.PageOptions) (*repository.Page[model.Category], error) {
	return s.categoryRepo.FindAll(ctx, opts)
}

// ListAll returns every category ordered by name, for selects.
func (s *CategoryService) ListAll(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.ListAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, input repository.CategoryFields) (*model.Category, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}

	id, err := s.categoryRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, model.EntityCategory, model.ActionCreated, id, category)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, input repository.CategoryFields) (*model.Category, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Name != input.Name {
		exists, err := s.categoryRepo.ExistsByNameExcept(ctx, input.Name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCategoryExists
		}
	}

	if _, err := s.categoryRepo.Update(ctx, id, input); err != nil {
		return nil, err
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, model.EntityCategory, model.ActionUpdated, id, category)
	return category, nil
}

// Delete removes the category; products keep existing with category_id set to NULL.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	affected, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	s.notify(ctx, model.EntityCategory, model.ActionDeleted, id, nil)
	return nil
}
