package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/erazemk/shareit/internal/model"
)

// UserService manages the user directory.
type UserService struct {
	users UserRepository
	log   *zap.Logger
}

// NewUserService creates a user service.
func NewUserService(users UserRepository, opts ...Option) *UserService {
	o := buildOptions(opts)
	return &UserService{users: users, log: o.logger}
}

// Exists reports whether a user with the given id exists.
func (s *UserService) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.users.UserExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("checking user: %w", err)
	}
	return ok, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return getUser(ctx, s.users, id)
}

// Create registers a new user. Emails are unique.
func (s *UserService) Create(ctx context.Context, name, email string) (*model.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, badRequest("name must not be blank")
	}
	if strings.TrimSpace(email) == "" {
		return nil, badRequest("email must not be blank")
	}

	u, err := s.users.CreateUser(ctx, model.User{Name: name, Email: email})
	if errors.Is(err, ErrDuplicateEmail) {
		return nil, newError(KindConflict, "Email %s is already registered", email)
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.Info("user created", zap.Int64("user_id", u.ID))
	return u, nil
}

// List returns all users ordered by id.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Patch updates the non-blank fields of a user.
func (s *UserService) Patch(ctx context.Context, id int64, name, email *string) (*model.User, error) {
	u, err := getUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}

	if name != nil && strings.TrimSpace(*name) != "" {
		u.Name = *name
	}
	if email != nil && strings.TrimSpace(*email) != "" {
		u.Email = *email
	}

	updated, err := s.users.UpdateUser(ctx, *u)
	if errors.Is(err, ErrDuplicateEmail) {
		return nil, newError(KindConflict, "Email %s is already registered", u.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.log.Info("user updated", zap.Int64("user_id", id))
	return updated, nil
}

// Delete removes a user together with everything they own.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := requireUser(ctx, s.users, id); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	s.log.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func getUser(ctx context.Context, users UserRepository, id int64) (*model.User, error) {
	u, err := users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if u == nil {
		return nil, notFound("User with id=%d not found", id)
	}
	return u, nil
}

func requireUser(ctx context.Context, users UserRepository, id int64) error {
	ok, err := users.UserExists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking user: %w", err)
	}
	if !ok {
		return notFound("User with id=%d not found", id)
	}
	return nil
}

func newPage(from, size int) (model.Page, error) {
	p, err := model.NewPage(from, size)
	if err != nil {
		return model.Page{}, badRequest("%s", err.Error())
	}
	return p, nil
}
