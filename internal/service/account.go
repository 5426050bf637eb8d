package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/linkly/linkly/internal/auth"
	"github.com/linkly/linkly/internal/metrics"
	"github.com/linkly/linkly/internal/model"
	"github.com/linkly/linkly/internal/repository"
)

// MinPasswordLength is the shortest password the policy accepts.
const MinPasswordLength = 8

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// AccountService handles signup, login and profile changes.
type AccountService struct {
	users   UserStore
	ready   Readiness
	hasher  auth.Hasher
	metrics metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, ready Readiness, hasher auth.Hasher, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:   users,
		ready:   ready,
		hasher:  hasher,
		metrics: recorder,
	}
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput defines a partial profile update.
// Nil or empty fields are left unchanged.
type UpdateProfileInput struct {
	UserID          string
	Name            *string
	ProfilePhoto    *string
	CurrentPassword *string
	NewPassword     *string
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword applies the password policy and reports the first rule
// the password breaks: length, lowercase letter, uppercase letter, digit.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !strings.ContainsFunc(password, isASCIILower) {
		return ErrPasswordNeedsLower
	}
	if !strings.ContainsFunc(password, isASCIIUpper) {
		return ErrPasswordNeedsUpper
	}
	if !strings.ContainsFunc(password, isASCIIDigit) {
		return ErrPasswordNeedsDigit
	}
	return nil
}

// Signup creates an account with a hashed password.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)

	switch {
	case name == "":
		return nil, ErrNameRequired
	case email == "":
		return nil, ErrEmailRequired
	case input.Password == "":
		return nil, ErrPasswordRequired
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.checkReady(); err != nil {
		return nil, err
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, wrapInternal("lookup email", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, wrapInternal("hash password", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, wrapInternal("create user", err)
	}

	s.metrics.IncSignup()
	return user, nil
}

// Login checks credentials. An unknown email and a wrong password are
// reported as different kinds.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	if err := s.checkReady(); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin(metrics.LoginUnknownEmail)
			return nil, ErrAccountNotFound
		}
		return nil, wrapInternal("lookup email", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, wrapInternal("verify password", err)
	}
	if !ok {
		s.metrics.IncLogin(metrics.LoginInvalidCredentials)
		return nil, ErrWrongPassword
	}

	s.metrics.IncLogin(metrics.LoginSuccess)
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *AccountService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	return s.loadUser(ctx, userID)
}

// UpdateProfile applies a partial update. The password changes only when
// both the current and the new password are given; a lone one is ignored.
// The current one must verify and the new one must satisfy the policy.
// Nothing is written if any check fails.
func (s *AccountService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*model.User, error) {
	current := valueOf(input.CurrentPassword)
	next := valueOf(input.NewPassword)

	if err := s.checkReady(); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	changedPassword := false
	if current != "" && next != "" {
		if err := s.applyPasswordChange(user, current, next); err != nil {
			return nil, err
		}
		changedPassword = true
	}

	if name := strings.TrimSpace(valueOf(input.Name)); name != "" {
		user.Name = name
	}
	if photo := valueOf(input.ProfilePhoto); photo != "" {
		user.ProfilePhoto = photo
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapInternal("update user", err)
	}

	if changedPassword {
		s.metrics.IncPasswordChanged()
	}
	return user, nil
}

// ChangePassword replaces the password and leaves other fields untouched.
func (s *AccountService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrPasswordFieldsPair
	}

	if err := s.checkReady(); err != nil {
		return err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.applyPasswordChange(user, currentPassword, newPassword); err != nil {
		return err
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return wrapInternal("update password", err)
	}

	s.metrics.IncPasswordChanged()
	return nil
}

// applyPasswordChange verifies current against user and sets the hash of next.
func (s *AccountService) applyPasswordChange(user *model.User, current, next string) error {
	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return wrapInternal("verify password", err)
	}
	if !ok {
		return ErrCurrentPasswordWrong
	}

	if err := ValidatePassword(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return wrapInternal("hash password", err)
	}
	user.PasswordHash = hash
	return nil
}

func (s *AccountService) loadUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapInternal("get user", err)
	}
	return user, nil
}

func (s *AccountService) checkReady() error {
	if s.ready != nil && !s.ready.Ready() {
		return ErrStoreUnavailable
	}
	return nil
}

func valueOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
