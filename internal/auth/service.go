package auth

import (
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/wishlist-management/internal"
)

type UserRepository interface {
	GetAuthInfoByEmail(email string) (*AuthInfo, error)
	GetSessionUser(userID int64) (*User, error)
	UpdatePasswordHash(userID int64, passwordHash string) error
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

// Authenticate validates credentials and returns the session user with
// a fresh token pair. Suspended accounts may still log in; every
// permission check afterwards denies them, which keeps the suspension
// reason visible instead of a generic login failure.
func (s *Service) Authenticate(dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	info, err := s.userRepo.GetAuthInfoByEmail(strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(info.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	s.upgradeHashCost(info, dto.Password)

	tokens, err := s.issueTokens(info.ID, info.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: UserInfo{
			ID:    info.ID,
			Email: info.Email,
			Name:  info.Name,
		},
		Tokens: tokens,
	}, nil
}

// upgradeHashCost rehashes the stored password when it was created with
// a weaker cost than currently configured. Failures only lose the
// upgrade, never the login.
func (s *Service) upgradeHashCost(info *AuthInfo, password string) {
	cost, err := bcrypt.Cost([]byte(info.PasswordHash))
	if err != nil || cost >= s.bcryptCost {
		return
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return
	}
	_ = s.userRepo.UpdatePasswordHash(info.ID, string(newHash))
}

// RefreshTokens validates a refresh token and returns a new pair.
func (s *Service) RefreshTokens(refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	user, err := s.userRepo.GetSessionUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, internal.ErrInvalidToken
	}

	tokens, err := s.issueTokens(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (s *Service) issueTokens(userID int64, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenGenerator.AccessTokenTTL().Seconds()),
	}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// GetSessionUser loads the session projection for the middleware.
func (s *Service) GetSessionUser(userID int64) (*User, error) {
	return s.userRepo.GetSessionUser(userID)
}
