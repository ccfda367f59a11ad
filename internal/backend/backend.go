package backend

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/larapida/go-webnode/internal/domain"
	"github.com/larapida/go-webnode/internal/storage"
	"github.com/larapida/go-webnode/internal/storage/memory"
	"github.com/larapida/go-webnode/internal/storage/mongodb"
	"github.com/larapida/go-webnode/pkg/config"
)

// Type defines the type of storage backend
type Type string

const (
	// TypeMemory uses in-memory storage (for testing/development)
	TypeMemory Type = "memory"
	// TypeMongoDB uses MongoDB storage (for production)
	TypeMongoDB Type = "mongodb"
)

// Backend wraps storage stores with a common interface for lifecycle management
type Backend interface {
	// Users returns the user store
	Users() storage.UserStore
	// Ping checks if the storage is alive
	Ping(ctx context.Context) error
	// Close closes the storage connection
	Close() error
}

// New creates a storage backend based on the configuration
func New(ctx context.Context, cfg *config.Config) (Backend, error) {
	storageType := Type(cfg.Storage.Type)

	switch storageType {
	case TypeMemory, "":
		return memory.NewStore(), nil

	case TypeMongoDB:
		store, err := mongodb.NewStore(ctx, &cfg.Storage.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create MongoDB backend: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// Seed creates the configured users that do not exist yet.
func Seed(ctx context.Context, b Backend, seeds []config.SeedUser, logger *zap.Logger) error {
	for _, s := range seeds {
		if s.Email == "" || s.PasswordHash == "" {
			return fmt.Errorf("seed user needs an email and a password hash")
		}
		user := domain.NewUser(s.Email, s.PasswordHash, s.IsAdmin)
		err := b.Users().Create(ctx, user)
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			logger.Debug("Seed user already present", zap.String("email", user.Email))
		case err != nil:
			return fmt.Errorf("failed to seed user %s: %w", user.Email, err)
		default:
			logger.Info("Seed user created", zap.String("email", user.Email), zap.Bool("admin", user.IsAdmin))
		}
	}
	return nil
}
