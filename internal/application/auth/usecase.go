package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
	"github.com/jhoicas/storerating-api/pkg/jwt"
)

// DefaultBcryptCost is the hashing cost used when Config leaves it unset.
const DefaultBcryptCost = 10

var (
	errAdminSignupDisabled = domain.Forbiddenf("Administrator self-registration is disabled")
	errRefreshMissing      = &domain.Error{Kind: domain.ErrUnauthorized, Message: "Refresh token is required"}
	errRefreshInvalid      = &domain.Error{Kind: domain.ErrUnauthorized, Message: "Invalid refresh token"}
	errWrongPassword       = domain.Validationf("Current password is incorrect")
)

// Config token and hashing settings.
type Config struct {
	JWTSecret        string
	JWTIssuer        string
	AccessTTLMinutes int
	BcryptCost       int
	AllowAdminSignup bool
}

// AuthUseCase registration, login, session refresh and token authentication.
type AuthUseCase struct {
	users repository.UserRepository
	cfg   Config
	// dummyHash is compared against when no account matches, so every failed
	// login pays one bcrypt comparison at the configured cost.
	dummyHash []byte
}

// NewAuthUseCase builds the auth use case.
func NewAuthUseCase(users repository.UserRepository, cfg Config) *AuthUseCase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cfg.BcryptCost)
	return &AuthUseCase{users: users, cfg: cfg, dummyHash: dummy}
}

// Register creates an account with the role of the sign-up endpoint that was called.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.SignupRequest, role entity.Role) (*dto.UserResponse, error) {
	if role == entity.RoleSystemAdmin && !uc.cfg.AllowAdminSignup {
		return nil, errAdminSignupDisabled
	}
	u, err := uc.create(ctx, in, role)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

// RegisterAndLogin registers and opens a session right away (admin and store-owner sign-up).
func (uc *AuthUseCase) RegisterAndLogin(ctx context.Context, in dto.SignupRequest, role entity.Role) (*dto.AuthResponse, error) {
	if role == entity.RoleSystemAdmin && !uc.cfg.AllowAdminSignup {
		return nil, errAdminSignupDisabled
	}
	u, err := uc.create(ctx, in, role)
	if err != nil {
		return nil, err
	}
	return uc.issue(ctx, u)
}

// CreateUser is the administrator path: any role, NORMAL_USER when none is given.
func (uc *AuthUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(in.Role)
	if role == "" {
		role = entity.RoleNormalUser
	}
	u, err := uc.create(ctx, in.SignupRequest, role)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

func (uc *AuthUseCase) create(ctx context.Context, in dto.SignupRequest, role entity.Role) (*entity.User, error) {
	if !role.Valid() {
		return nil, domain.Validationf("Invalid role")
	}
	existing, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		Address:      in.Address,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials. A non-empty required role scopes the login endpoint;
// a missing user, a role mismatch and a wrong password all yield the same error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, required entity.Role) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	hash := uc.dummyHash
	matched := user != nil && (required == "" || user.Role == required)
	if matched {
		hash = []byte(user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)); err != nil || !matched {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issue(ctx, user)
}

// Refresh rotates the refresh credential and issues a new access token.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if refreshToken == "" {
		return nil, errRefreshMissing
	}
	user, err := uc.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if user == nil || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, errRefreshInvalid
	}
	return uc.issue(ctx, user)
}

// Logout drops the stored refresh credential.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	return uc.users.SetRefreshToken(ctx, userID, "")
}

// ChangePassword replaces the password after checking the current one.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return errWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	return uc.users.Update(ctx, user)
}

// Authenticate resolves an access token to its user. The role is read from the
// stored user, so a role change applies to tokens issued before it.
func (uc *AuthUseCase) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	userID, _, err := jwt.Parse(uc.cfg.JWTSecret, accessToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	access, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, user.Role.String(), uc.cfg.JWTIssuer, uc.cfg.AccessTTLMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := uc.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	user.RefreshToken = refresh
	return &dto.AuthResponse{
		User:         dto.NewUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// newRefreshToken returns 32 random bytes, base64url encoded.
func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
