package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"mindlog/internal/models"
	"mindlog/internal/repository"
)

// Register creates a new user with hashed password. Username and email
// uniqueness is enforced atomically at the storage boundary; the duplicate
// sentinels from the repository pass through unchanged.
func (s *Service) Register(username, email, password string) (*models.User, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(user.Email, user.Username); err != nil {
			s.log.Errorf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// Login authenticates a user and returns a JWT token. Unknown usernames and
// wrong passwords are reported as distinct errors.
func (s *Service) Login(username, password string) (string, error) {
	user, err := s.repo.FindUserByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUnknownUser
		}
		return "", err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadPassword
	}

	// Generate JWT
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Username)
	return tokenString, nil
}

// ValidateToken verifies a token and resolves its subject to an account. The
// subject is re-resolved against storage on every call, so a deleted account
// immediately invalidates tokens issued in its name.
func (s *Service) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.FindUserByUsername(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, err
	}
	return user, nil
}
