package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Error types for user domain operations
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("user already exists")
	ErrInvalidInput = errors.New("invalid user input")
)

// DefaultBcryptCost is the cost factor for bcrypt password hashing
const DefaultBcryptCost = 12

// User is a stored user record. PasswordHash is never exposed to callers of the
// API; the graph layer nulls the credential on every read path.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Email         string               `bson:"email"`
	PasswordHash  string               `bson:"password"`
	CreatedEvents []primitive.ObjectID `bson:"createdEvents"`
}

// Repository is the store access the user service needs. Missing documents are
// reported as mongo.ErrNoDocuments.
type Repository interface {
	Insert(ctx context.Context, user User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
}

// Service handles user creation and lookup
type Service struct {
	repo       Repository
	bcryptCost int
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewService creates a new user service instance
func NewService(repo Repository, bcryptCost int, logger zerolog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
		logger:     logger.With().Str("component", "users").Logger(),
	}
}

// CreateParams contains parameters for creating a new user
type CreateParams struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// Create registers a new user with a bcrypt-hashed credential. A second call
// with the same email fails with ErrEmailTaken and leaves the store untouched.
func (s *Service) Create(ctx context.Context, params CreateParams) (User, error) {
	if err := s.validate.Struct(params); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, err := s.repo.FindByEmail(ctx, params.Email)
	if err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, fmt.Errorf("failed to check email: %w", err)
	}

	// bcrypt salts internally, so two users with the same password never share a hash
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Email:         params.Email,
		PasswordHash:  string(hash),
		CreatedEvents: []primitive.ObjectID{},
	}
	id, err := s.repo.Insert(ctx, user)
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	s.logger.Info().Str("user_id", id.Hex()).Msg("user created")
	return user, nil
}

// GetByID retrieves a single user
func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// List returns every stored user, in store order
func (s *Service) List(ctx context.Context) ([]User, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return all, nil
}
