package services

import (
	"errors"
	"log"

	"github.com/xenz/backend/internal/config"
	"github.com/xenz/backend/pkg/crypto"
	jwtpkg "github.com/xenz/backend/pkg/jwt"
)

// AdminService authenticates the single admin credential. The password comes
// from the environment and is hashed once at startup; requests carry either a
// short-lived JWT from Login or the raw credential in a header/query param.
type AdminService struct {
	cfg          *config.Config
	passwordHash string
}

func NewAdminService(cfg *config.Config) *AdminService {
	hash, err := crypto.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Printf("ERROR: Failed to hash admin password: %v", err)
	}
	return &AdminService{
		cfg:          cfg,
		passwordHash: hash,
	}
}

// Login exchanges the admin password for an access token.
func (s *AdminService) Login(password string) (string, error) {
	if !s.CheckCredential(password) {
		return "", errors.New("invalid credentials")
	}
	return jwtpkg.GenerateToken("admin", jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
}

// CheckCredential compares a raw credential against the admin password.
func (s *AdminService) CheckCredential(password string) bool {
	if s.passwordHash == "" {
		return false
	}
	return crypto.CheckPassword(password, s.passwordHash)
}

// ValidateAccessToken validates an admin access token.
func (s *AdminService) ValidateAccessToken(token string) error {
	claims, err := jwtpkg.ValidateToken(token, s.cfg.JWTSecret)
	if err != nil {
		return err
	}
	if claims.TokenType != jwtpkg.AccessToken {
		return errors.New("invalid token type")
	}
	return nil
}
