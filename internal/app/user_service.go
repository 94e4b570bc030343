package app

import (
	"context"

	"nextbase/internal/model"
	"nextbase/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
	notifier
}

func NewUserService(userRepo *repository.UserRepository, publisher EventPublisher) *UserService {
	return &UserService{
		userRepo: userRepo,
		notifier: notifier{publisher: publisher},
	}
}

func (s *UserService) List(ctx context.Context, opts repository.PageOptions) (*repository.Page[model.User], error) {
	return s.userRepo.FindAll(ctx, opts)
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, input repository.UserFields) (*model.User, error) {
	if err := s.checkUnique(ctx, input, nil); err != nil {
		return nil, err
	}

	id, err := s.userRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, model.EntityUser, model.ActionCreated, id, user)
	return user, nil
}

// Update replaces username and email. Uniqueness is only probed for fields that change.
func (s *UserService) Update(ctx context.Context, id int64, input repository.UserFields) (*model.User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, input, existing); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.Update(ctx, id, input); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, model.EntityUser, model.ActionUpdated, id, user)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	affected, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	s.notify(ctx, model.EntityUser, model.ActionDeleted, id, nil)
	return nil
}

// checkUnique probes only the fields that differ from current. On update the probes
// exclude the user itself; the database compares names case-insensitively.
func (s *UserService) checkUnique(ctx context.Context, input repository.UserFields, current *model.User) error {
	if current == nil || current.Username != input.Username {
		var exists bool
		var err error
		if current == nil {
			exists, err = s.userRepo.ExistsByUsername(ctx, input.Username)
		} else {
			exists, err = s.userRepo.ExistsByUsernameExcept(ctx, input.Username, current.ID)
		}
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameExists
		}
	}

	if current == nil || current.Email != input.Email {
		var exists bool
		var err error
		if current == nil {
			exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
		} else {
			exists, err = s.userRepo.ExistsByEmailExcept(ctx, input.Email, current.ID)
		}
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}
	}
	return nil
}
