package services

import (
	"errors"
	"strings"
	"time"

	"github.com/remstroy/backend/internal/models"
	"github.com/remstroy/backend/internal/utils"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for every login failure: unknown email,
// wrong password or deactivated account. One error for all three cases so
// responses do not leak which check failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccountInactive is returned when a valid token belongs to a user that
// has been deactivated since the token was issued.
var ErrAccountInactive = errors.New("account is inactive")

type AuthService struct {
	db          *gorm.DB
	revocations RevocationRegistry
}

func NewAuthService(db *gorm.DB, revocations RevocationRegistry) *AuthService {
	return &AuthService{db: db, revocations: revocations}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// Login authenticates by email and password and issues a token pair.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Save(&user)

	return &LoginResult{User: &user, Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed before the replacement is minted: each refresh token is valid
// for exactly one exchange.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, utils.ErrTokenRevoked
	}

	// Consume the jti. If a concurrent refresh with the same token got here
	// first, the insert reports false and this exchange fails.
	consumed, err := s.revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, utils.ErrTokenRevoked
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrTokenRevoked
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Logout revokes the refresh jti carried by any of the presented tokens.
// It never fails: the client clears local state either way, so garbage,
// expired and already revoked tokens are all fine.
func (s *AuthService) Logout(tokens ...string) {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		claims, err := utils.ExtractRefreshClaims(token)
		if err != nil || claims.ID == "" {
			continue
		}
		expiresAt := time.Now()
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if _, err := s.revocations.Revoke(claims.ID, expiresAt); err != nil {
			LogWarning("Auth", "Logout", "failed to persist revocation: "+err.Error(), nil, "", "", nil)
		}
	}
}

// GetActiveUser loads a user and rejects missing or deactivated accounts,
// so deactivation takes effect immediately rather than at token expiry.
func (s *AuthService) GetActiveUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountInactive
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return &user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	user, err := s.GetActiveUser(userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(req.OldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	return s.db.Save(user).Error
}

// CreateSuperAdminIfNotExists seeds the first SUPER_ADMIN account.
func (s *AuthService) CreateSuperAdminIfNotExists(email, password string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Super",
		LastName:     "Admin",
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	return s.db.Create(&admin).Error
}

func (s *AuthService) issueTokens(user *models.User) (TokenPair, error) {
	access, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, _, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
