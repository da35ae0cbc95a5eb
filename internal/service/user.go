package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/online_catalog/internal/hash"
	"github.com/Skotchmaster/online_catalog/internal/models"
	"github.com/Skotchmaster/online_catalog/internal/repo"
	"github.com/Skotchmaster/online_catalog/internal/tokens"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

var (
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: email or password is incorrect", ErrValidation)
)

type UserService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (s *UserService) Get(ctx context.Context, id uint) (*transport.UserView, error) {
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	v := transport.NewUserView(*u)
	return &v, nil
}

func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (*transport.UserView, error) {
	if err := transport.Validate(req); err != nil {
		return nil, classify(err)
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{FirstName: req.FirstName, Surname: req.Surname, Email: req.Email, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, &u); err != nil {
		return nil, classify(err)
	}

	publish(ctx, s.Events, UserTopic, Event{Type: "user_created", ID: u.ID})
	v := transport.NewUserView(u)
	return &v, nil
}

func (s *UserService) Update(ctx context.Context, id uint, req transport.PatchUserRequest) error {
	if err := transport.Validate(req); err != nil {
		return classify(err)
	}
	if _, err := s.Repo.PatchUser(ctx, id, req); err != nil {
		return classify(err)
	}
	publish(ctx, s.Events, UserTopic, Event{Type: "user_updated", ID: id})
	return nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return classify(err)
	}
	publish(ctx, s.Events, UserTopic, Event{Type: "user_deleted", ID: id})
	return nil
}

// AuthService exchanges credentials for a bearer token.
type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TTL       time.Duration
	Now       func() time.Time
}

func (s *AuthService) IssueToken(ctx context.Context, req transport.TokenRequest) (string, error) {
	if err := transport.Validate(req); err != nil {
		return "", classify(err)
	}

	u, err := s.Repo.UserByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !hash.CheckPassword(u.PasswordHash, req.Password) {
		return "", ErrInvalidCredentials
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	token, err := tokens.Issue(u.ID, s.JWTSecret, s.TTL, now().UTC())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
