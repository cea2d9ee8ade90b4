package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"task-manager.com/task-manager/internal/auth"
	"task-manager.com/task-manager/internal/exceptions"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

type AuthService struct {
	users  *repository.UserRepository
	tokens auth.TokenStore
}

func NewAuthService(users *repository.UserRepository, tokens auth.TokenStore) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", exceptions.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", exceptions.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// UserFromToken resolves a bearer token to its user. Any resolution
// failure surfaces as unauthenticated; the caller never learns whether
// the token or the user was missing.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			return nil, exceptions.ErrUnauthenticated
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, exceptions.ErrUnauthenticated
	}

	return user, nil
}

func (s *AuthService) issueToken(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	if err := s.tokens.Store(ctx, token, userID); err != nil {
		return "", err
	}
	return token, nil
}
