// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/go-petr/voice-bank/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	CreateUser(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New return user service struct to manage user bussines logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// Create creates and returns user.
func (s *Service) Create(ctx context.Context, username, password, email, phone string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		PhoneNumber:    phone,
	}

	gotUser, err := s.repo.CreateUser(ctx, arg)
	if err != nil {
		return result, err
	}

	l.Info().Int64("user_id", gotUser.ID).Msg("user created")

	return domain.NewUserWithoutPassword(gotUser), nil
}

// CheckPassword checks if the password is valid for the given username.
func (s *Service) CheckPassword(ctx context.Context, username, pass string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var response domain.UserWithoutPassword

	gotUser, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return response, err
	}

	err = passpkg.Check(pass, gotUser.HashedPassword)
	if err != nil {
		l.Warn().Err(err).Str("username", username).Send()
		return response, domain.ErrWrongPassword
	}

	return domain.NewUserWithoutPassword(gotUser), nil
}

// List returns the active users without password data.
func (s *Service) List(ctx context.Context) ([]domain.UserWithoutPassword, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.UserWithoutPassword, 0, len(users))
	for _, u := range users {
		result = append(result, domain.NewUserWithoutPassword(u))
	}

	return result, nil
}
