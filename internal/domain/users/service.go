package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("bad credentials")
	ErrNotFound       = errors.New("user not found")
)

type Service struct {
	repo Repository
	now  func() time.Time

	// Costo bcrypt; en tests se baja a MinCost.
	hashCost int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

type SignUpInput struct {
	FirstName string
	Email     string
	Password  string
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (User, error) {
	firstName := strings.TrimSpace(in.FirstName)
	email := normalizeEmail(in.Email)

	if firstName == "" || email == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}
	if !strings.Contains(email, "@") {
		return User{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, ErrBadCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// No distinguimos "no existe" de "password malo" hacia afuera.
		return User{}, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}

	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
