package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/model"
	"devconnect/internal/pkg/gravatar"
	"devconnect/internal/pkg/jwtutil"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the persistence collaborator for user documents.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// EventPublisher emits account events to the broker. Publishing is
// best-effort: a failure is logged and never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, event model.AccountEvent) error
}

type AuthService struct {
	users         UserStore
	events        EventPublisher
	logger        *zap.Logger
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(users UserStore, events EventPublisher, logger *zap.Logger, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		events:        events,
		logger:        logger,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Avatar:   gravatar.URL(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	s.publish(ctx, model.AccountEvent{
		Kind:       model.EventUserRegistered,
		UserID:     user.ID.Hex(),
		OccurredAt: time.Now(),
	})

	return jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID.Hex())
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID.Hex())
}

func (s *AuthService) CurrentUser(ctx context.Context, userIDHex string) (*model.User, error) {
	id, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, event model.AccountEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish account event failed",
			zap.String("kind", event.Kind),
			zap.Error(err))
	}
}
