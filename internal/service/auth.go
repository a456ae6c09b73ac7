package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"doemais/internal/domain"
)

// AuthService handles registration, login, JWT issuance/verification, and
// profile updates for the authenticated user.
type AuthService struct {
	users      domain.UserRepository
	images     *ImageService
	jwtSecret  []byte
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, images *ImageService, jwtSecret string, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		images:     images,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
	}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Address         string
}

// Register creates a new user account after validating inputs.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validateRequired(
		requiredField{"name", in.Name},
		requiredField{"email", in.Email},
		requiredField{"password", in.Password},
		requiredField{"phone", in.Phone},
		requiredField{"address", in.Address},
		requiredField{"password confirmation", in.ConfirmPassword},
	); err != nil {
		return nil, err
	}
	if len(in.Name) > domain.MaxUserNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", domain.ErrInvalidInput, domain.MaxUserNameLength)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: password and confirmation must match", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Address:      in.Address,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns the matched user. Unknown email and
// wrong password produce the same error so callers cannot tell which failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// TokenFor signs a bearer token carrying the user's name and id.
func (s *AuthService) TokenFor(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and validates a bearer token string.
// Returns the user ID from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}

// CurrentUser resolves the user behind an already-verified token payload.
// A user deleted after token issuance maps to the invalid-token error.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateUserInput carries the fields of a profile update request.
// Image is optional; every other field is required, including the password
// pair even when the caller is not changing their password.
type UpdateUserInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Address         string
	Image           *Upload
}

// UpdateProfile applies a full profile update for the given user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in UpdateUserInput) (*domain.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Image != nil {
		key, err := s.images.Store(ctx, "users", *in.Image)
		if err != nil {
			return nil, err
		}
		user.Image = key
	}

	if err := validateRequired(
		requiredField{"name", in.Name},
		requiredField{"phone", in.Phone},
		requiredField{"address", in.Address},
		requiredField{"email", in.Email},
	); err != nil {
		return nil, err
	}
	if len(in.Name) > domain.MaxUserNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", domain.ErrInvalidInput, domain.MaxUserNameLength)
	}

	if in.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
			return nil, domain.ErrDuplicateEmail
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if in.ConfirmPassword == "" {
		return nil, fmt.Errorf("%w: password confirmation is required", domain.ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: password and confirmation must match", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Phone = in.Phone
	user.Address = in.Address
	user.PasswordHash = string(hash)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

type requiredField struct {
	label string
	value string
}

// validateRequired reports the first missing field as an invalid-input error.
func validateRequired(fields ...requiredField) error {
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, f.label)
		}
	}
	return nil
}
