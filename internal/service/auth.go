package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("wrong password")

// AuthService checks the operator credential. The bcrypt hash is supplied by
// deployment configuration; there is no built-in fallback password.
type AuthService struct {
	passwordHash string
}

func NewAuthService(passwordHash string) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
	}
}

func (s *AuthService) Login(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}

	return nil
}
