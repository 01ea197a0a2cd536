package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	TokenTTL     = 24 * time.Hour
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrAuthFailed    = errors.New("authentication failed")
	ErrDisabled      = errors.New("account disabled")
	ErrInvalidRole   = errors.New("invalid role")
)

type AuthService interface {
	Login(ctx context.Context, id, password string) (string, error)
	Register(ctx context.Context, id, password, role string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]AccountResponse, error)
}

// AccountResponse は GET /accounts の1件
type AccountResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	store  AccountStore
	secret []byte
	now    func() time.Time
}

func NewService(store AccountStore, secret []byte) *Service {
	return &Service{store: store, secret: secret, now: time.Now}
}

func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acct == nil {
		return "", ErrAuthFailed
	}
	if acct.IsDisabled {
		return "", ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})
	return token.SignedString(s.secret)
}

func (s *Service) Register(ctx context.Context, id, password, role string) error {
	if role != RoleAdmin && role != RoleOperator {
		return ErrInvalidRole
	}
	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exists != nil {
		return ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.Create(ctx, &Account{
		ID:           id,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// EnsureAdmin は admin が1人もいない初回起動用。既に同じ ID があれば何もしない。
func (s *Service) EnsureAdmin(ctx context.Context, id, password string) (bool, error) {
	if id == "" || password == "" {
		return false, nil
	}
	err := s.Register(ctx, id, password, RoleAdmin)
	if errors.Is(err, ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]AccountResponse, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, AccountResponse{ID: a.ID, Role: a.Role, Disabled: a.IsDisabled, CreatedAt: a.CreatedAt.UTC()})
	}
	return out, nil
}
