package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/models"
	"github.com/hammadpk/engine/internal/store"
)

// Account roles carried in the token's role claim. Only admin tokens may
// reach the administrative command surface.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrWeakPassword rejects passwords shorter than four characters.
var ErrWeakPassword = errors.New("password too short")

type Service interface {
	Register(ctx context.Context, name, email, password, refCode string) (*models.Account, error)
	Login(ctx context.Context, email, password string) (string, *models.Account, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, newPassword string) error
	ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type service struct {
	store  *store.Store
	secret []byte
}

func NewService(st *store.Store, secret string) *service {
	return &service{store: st, secret: []byte(secret)}
}

var _ Service = (*service)(nil)

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

const referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newReferralCode returns a 6-character uppercase base-36 code.
func newReferralCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i := range buf {
		buf[i] = referralCodeAlphabet[int(buf[i])%len(referralCodeAlphabet)]
	}
	return string(buf)
}

// Register creates an account with a hashed credential, a fresh unique
// referral code and the lowest plan tier. The email must not already be
// registered (case-sensitive exact match). refCode is captured once and
// never mutated afterwards.
func (s *service) Register(ctx context.Context, name, email, password, refCode string) (*models.Account, error) {
	if len(password) < 4 {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	var out models.Account
	err = s.store.Update(ctx, func(st *models.State) error {
		if st.AccountByEmail(email) != nil {
			return engine.ErrDuplicateEmail
		}
		code := newReferralCode()
		for st.AccountByReferralCode(code) != nil {
			code = newReferralCode()
		}
		a := &models.Account{
			ID:           uuid.New(),
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			PlanID:       1,
			ReferralCode: code,
			ReferredBy:   refCode,
			CreatedAt:    time.Now().UTC(),
		}
		st.Accounts = append(st.Accounts, a)
		out = *a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login verifies the credential against the stored hash and issues a token.
// Banned accounts cannot authenticate.
func (s *service) Login(ctx context.Context, email, password string) (string, *models.Account, error) {
	var acct *models.Account
	s.store.View(func(st *models.State) {
		if a := st.AccountByEmail(email); a != nil {
			cp := *a
			acct = &cp
		}
	})
	if acct == nil {
		return "", nil, engine.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", nil, engine.ErrInvalidCredential
	}
	if acct.IsBanned {
		return "", nil, engine.ErrBanned
	}
	role := RoleUser
	if acct.IsAdmin {
		role = RoleAdmin
	}
	token, err := s.issueToken(acct.ID, role)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

// ChangePassword replaces the caller's own credential hash.
func (s *service) ChangePassword(ctx context.Context, accountID uuid.UUID, newPassword string) error {
	if len(newPassword) < 4 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, func(st *models.State) error {
		acct := st.AccountByID(accountID)
		if acct == nil {
			return engine.ErrNotFound
		}
		acct.PasswordHash = string(hash)
		return nil
	})
}

func (s *service) issueToken(accountID uuid.UUID, role string) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

// ValidateToken returns the account ID and role encoded in a token.
func (s *service) ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error) {
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, "", err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return uuid.Nil, "", errors.New("invalid token")
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, c.Role, nil
}

// EnsureAdmin seeds the administrative account at startup if it does not
// exist yet. The admin capability lives server-side in the role claim, not
// in any client-side check.
func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, func(st *models.State) error {
		if existing := st.AccountByEmail(email); existing != nil {
			existing.IsAdmin = true
			return nil
		}
		code := newReferralCode()
		for st.AccountByReferralCode(code) != nil {
			code = newReferralCode()
		}
		st.Accounts = append(st.Accounts, &models.Account{
			ID:           uuid.New(),
			Name:         "Administrator",
			Email:        email,
			PasswordHash: string(hash),
			PlanID:       1,
			ReferralCode: code,
			IsAdmin:      true,
			CreatedAt:    time.Now().UTC(),
		})
		return nil
	})
}
