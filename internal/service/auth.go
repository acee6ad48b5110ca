package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/hash"
	"github.com/kurimacye/marketplace/internal/models"
	"github.com/kurimacye/marketplace/internal/repo"
)

// AuthService covers just enough identity to scope the engine's
// endpoints by role; session refresh, OTP and the rest of the
// ceremony live with the external identity collaborator.
type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

var allowedRoles = map[string]bool{
	models.RoleCustomer: true,
	models.RoleSeller:   true,
	models.RoleAdmin:    true,
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password required: %w", ErrValidation)
	}
	if role == "" {
		role = models.RoleCustomer
	}
	if !allowedRoles[role] {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		return "", nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	token, err := s.SignAccessToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) SignAccessToken(userID uuid.UUID, role string) (string, error) {
	exp := time.Now().Add(15 * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.JWTSecret)
}
