package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// AuthUseCase é encanamento fino: emite e valida tokens, nada mais.
// A regra de negócio de verdade mora nos outros usecases.
type AuthUseCase struct {
	Users     *UsersUseCase
	Repo      UserRepositoryInterface
	JWTSecret []byte
	TokenTTL  time.Duration
}

func NewAuthUseCase(users *UsersUseCase, repo UserRepositoryInterface, secret string, ttl time.Duration) *AuthUseCase {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &AuthUseCase{Users: users, Repo: repo, JWTSecret: []byte(secret), TokenTTL: ttl}
}

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	user, err := uc.Users.Create(ctx, CreateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.sign(user)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{AccessToken: token, User: user}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	user, err := uc.Repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, &ForbiddenError{Message: "invalid credentials"}
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, &ForbiddenError{Message: "user is deactivated"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, &ForbiddenError{Message: "invalid credentials"}
	}

	token, err := uc.sign(user)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{AccessToken: token, User: user}, nil
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	return uc.Users.FindByID(ctx, userID)
}

// ValidateToken devolve o principal {id, role} embutido no token.
func (uc *AuthUseCase) ValidateToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return uc.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (uc *AuthUseCase) sign(user *entity.User) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(uc.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
