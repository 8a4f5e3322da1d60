package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aicody-snippets/core/internal/models"
	jwtpkg "github.com/aicody-snippets/core/internal/pkg/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// failedLoginDelay slows down credential guessing and keeps the two
// failure paths (unknown email, wrong password) the same duration.
var failedLoginDelay = 3 * time.Second

type Service struct {
	store    UserStore
	log      *zap.Logger
	tokenTTL time.Duration
}

func NewService(store UserStore, log *zap.Logger, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = jwtpkg.DefaultTTL
	}
	return &Service{store: store, log: log, tokenTTL: tokenTTL}
}

// Register creates an account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, dto *RegisterDTO) (*models.UserModel, string, error) {
	username := strings.TrimSpace(dto.Username)
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return nil, "", errUsernameTaken
	} else if !errors.Is(err, errUserNotFound) {
		return nil, "", err
	}
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, "", errEmailTaken
	} else if !errors.Is(err, errUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := &models.UserModel{Username: username, Email: email, Password: string(hash)}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := jwtpkg.Sign(u.ID.Hex(), s.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user registered", zap.String("id", u.ID.Hex()), zap.String("username", u.Username))
	return u, token, nil
}

// Login verifies credentials and returns the account with a signed token.
func (s *Service) Login(ctx context.Context, dto *LoginDTO) (*models.UserModel, string, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			time.Sleep(failedLoginDelay)
			return nil, "", errUserNotFound
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)); err != nil {
		time.Sleep(failedLoginDelay)
		return nil, "", errWrongPassword
	}

	token, err := jwtpkg.Sign(u.ID.Hex(), s.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user logged in", zap.String("id", u.ID.Hex()))
	return u, token, nil
}

// GetByID resolves the current user for the /auth/me endpoint.
func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*models.UserModel, error) {
	return s.store.FindByID(ctx, id)
}
