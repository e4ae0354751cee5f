// Package auth is the mock authentication layer: any email signs in, and the
// fixed admin credentials get the admin role. Sessions are signed tokens
// carrying the user snapshot; nothing is checked against a user database.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/VanshikaSalekar/DevBlog/internal/posts"
)

const (
	AdminEmail    = "admin@example.com"
	adminPassword = "admin123"
)

var (
	ErrUnauthorized = errors.New("missing or invalid session")
	ErrValidation   = errors.New("invalid credentials")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	ThemePref   string `json:"theme_pref,omitempty"`
	Role        Role   `json:"role"`
}

// Caller is the identity the posts service authorizes against.
func (u User) Caller() posts.Caller {
	return posts.Caller{
		Author: posts.Author{
			ID:          u.ID,
			DisplayName: u.DisplayName,
			Email:       u.Email,
			AvatarURL:   u.AvatarURL,
		},
		Admin: u.Role == RoleAdmin,
	}
}

type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileUpdate holds the user-editable profile fields. Nil fields are kept.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio"`
	ThemePref   *string `json:"theme_pref"`
}

type claims struct {
	User User `json:"user"`
	jwt.RegisteredClaims
}

type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

func validateCredentials(email, password string) error {
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required.Error("email_required"), is.Email.Error("invalid_email_format")),
		"password": validation.Validate(password, validation.Required.Error("password_required")),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func displayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

// SignIn accepts any well-formed credentials.
func (s *Sessions) SignIn(email, password string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if email == AdminEmail && subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword)) == 1 {
		return s.issue(User{
			ID:          "admin-user-id",
			Email:       AdminEmail,
			DisplayName: "Admin User",
			AvatarURL:   "https://ui-avatars.com/api/?name=Admin+User&background=red",
			Role:        RoleAdmin,
		})
	}
	return s.issue(User{
		ID:          "mock-user-id",
		Email:       email,
		DisplayName: displayName(email),
		Role:        RoleUser,
	})
}

func (s *Sessions) SignUp(email, password string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	return s.issue(User{
		ID:          fmt.Sprintf("mock-user-id-%d", s.now().UnixMilli()),
		Email:       email,
		DisplayName: displayName(email),
		Role:        RoleUser,
	})
}

// SignOut revokes the token until it would have expired anyway.
func (s *Sessions) SignOut(token string) error {
	c, err := s.parse(token)
	if err != nil {
		return err
	}
	s.revoke(c)
	return nil
}

// UpdateProfile merges the update into the session user and returns a new
// session; the old token stops working.
func (s *Sessions) UpdateProfile(token string, upd ProfileUpdate) (*Session, error) {
	c, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	u := c.User
	if upd.DisplayName != nil {
		u.DisplayName = *upd.DisplayName
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.ThemePref != nil {
		u.ThemePref = *upd.ThemePref
	}
	sess, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.revoke(c)
	return sess, nil
}

// Verify returns the user of a live session.
func (s *Sessions) Verify(token string) (*User, error) {
	c, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	return &c.User, nil
}

func (s *Sessions) issue(u User) (*Session, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	c := claims{
		User: u,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &Session{Token: token, User: u, ExpiresAt: exp.Truncate(time.Second)}, nil
}

func (s *Sessions) parse(token string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.revoked[c.ID]; ok {
		return nil, ErrUnauthorized
	}
	return c, nil
}

func (s *Sessions) revoke(c *claims) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	var exp time.Time
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	s.revoked[c.ID] = exp
}
