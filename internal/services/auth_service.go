package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kindredlabs/matchmaker/internal/models"
	pgrepo "github.com/kindredlabs/matchmaker/internal/repositories/postgres"
	"github.com/kindredlabs/matchmaker/internal/utils"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type authService struct {
	users  pgrepo.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users pgrepo.UserRepository) AuthService {
	return &authService{
		users:  users,
		secret: []byte(os.Getenv("JWT_SECRET")),
		ttl:    24 * time.Hour,
	}
}

func (s *authService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "AuthService.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "valid email is required", nil)
	}
	if len(password) < 8 {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "password must be at least 8 characters", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", utils.E(utils.CodeConflict, op, "email already registered", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to check existing user", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, token, nil
}

func (s *authService) issueToken(u *models.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
