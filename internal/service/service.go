package service

import (
	"context"
	"fmt"
	"time"

	"github.com/financasapp/financas-service/internal/config"
	"github.com/financasapp/financas-service/internal/middleware"
	"github.com/financasapp/financas-service/internal/models"
	"github.com/financasapp/financas-service/internal/repository"
	"github.com/financasapp/financas-service/internal/utils/email"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
	mailer *email.Sender
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, mailer *email.Sender) *Service {
	return &Service{repo: repo, log: log, config: cfg, mailer: mailer}
}

// logEvent tags a structured event log with the request correlation id when
// the call originated from an HTTP request. Cron-driven calls carry no id and
// log the fields as-is.
func (s *Service) logEvent(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	if id, ok := middleware.RequestID(ctx); ok {
		fields["request_id"] = id
	}
	return s.log.WithFields(fields)
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string, initialBalance float64) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hashedPassword),
		InitialBalance: initialBalance,
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}
