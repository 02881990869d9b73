package testutil

import (
	"github.com/lavictoria/club-api/internal/shared/token"
)

// MockTokenManager is a mock implementation of token.Manager for testing
type MockTokenManager struct {
	GenerateAccessTokenFunc func(username string) (string, error)
	ValidateTokenFunc       func(tokenString string) (*token.Claims, error)
}

func (m *MockTokenManager) GenerateAccessToken(username string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(username)
	}
	return "mock-access-token", nil
}

// ValidateToken accepts "valid-token" for user "admin" unless overridden.
func (m *MockTokenManager) ValidateToken(tokenString string) (*token.Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	if tokenString == ValidToken {
		return &token.Claims{Username: "admin", TokenType: token.ACCESS}, nil
	}
	return nil, token.ErrInvalidToken
}

// Ensure MockTokenManager implements token.Manager
var _ token.Manager = (*MockTokenManager)(nil)

const ValidToken = "valid-token"

// NewMockTokenManager creates a new mock token manager with default behavior
func NewMockTokenManager() *MockTokenManager {
	return &MockTokenManager{}
}
