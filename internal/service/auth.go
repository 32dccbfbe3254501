// Package service contains the application services of the marketplace.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	pkgcrypto "github.com/omerkilincoglu/bitirme-backend-proje/internal/crypto"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/limiter"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository"
)

// AuthService defines account registration and login.
type AuthService interface {
	// Register creates a new account.
	Register(ctx context.Context, username, email, password string) (model.User, error)
	// LoginWithIP applies rate-limiting and authenticates by username or e-mail.
	LoginWithIP(ctx context.Context, login, password, ip string) (model.Tokens, model.User, error)
	// Profile returns the account of userID.
	Profile(ctx context.Context, userID uuid.UUID) (model.User, error)
	// ChangePassword replaces the password after checking the current one.
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next, confirm string) error
	// ChangeEmail moves the account to a new e-mail address.
	ChangeEmail(ctx context.Context, userID uuid.UUID, password, email string) (model.User, error)
	// ChangeUsername renames the account.
	ChangeUsername(ctx context.Context, userID uuid.UUID, password, username string) (model.User, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
	log       *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter, log *zap.Logger) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim, log: log.Named("auth")}
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// checkPassword requires six characters with a digit, a lower and an upper case letter.
func checkPassword(p string) bool {
	if len([]rune(p)) < 6 {
		return false
	}
	var digit, lower, upper bool
	for _, r := range p {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}

// Register creates a new user with an Argon2id password hash.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: username, email and password are required", errs.ErrValidation)
	}
	if !usernameRe.MatchString(username) {
		return model.User{}, fmt.Errorf("%w: username must be 3-20 letters, digits or underscores", errs.ErrInvalidFormat)
	}
	if !emailRe.MatchString(email) {
		return model.User{}, fmt.Errorf("%w: invalid email", errs.ErrInvalidFormat)
	}
	if !checkPassword(password) {
		return model.User{}, fmt.Errorf("%w: password needs 6+ characters with upper and lower case letters and a digit", errs.ErrInvalidFormat)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return model.User{}, err
	}
	hash, salt, err := pkgcrypto.NewPasswordHash(password)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:       uid,
		Username: username,
		Email:    email,
		PwdHash:  hash,
		SaltAuth: salt,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return model.User{}, fmt.Errorf("%w: username or email already in use", errs.ErrAlreadyExists)
		}
		return model.User{}, err
	}
	return u, nil
}

// LoginWithIP authenticates with rate limiting by (login, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, login, password, ip string) (model.Tokens, model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return model.Tokens{}, model.User{}, fmt.Errorf("%w: login and password are required", errs.ErrValidation)
	}
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, login, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	var u *model.User
	if strings.Contains(login, "@") {
		u, err = s.users.GetByEmail(ctx, login)
	} else {
		u, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			s.log.Error("user lookup", zap.Error(err))
		}
		blocked, _, ferr := s.lim.Failure(ctx, login, ipHash)
		if ferr != nil {
			s.log.Warn("record login failure", zap.Error(ferr))
		}
		if blocked {
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		// unknown user and wrong password look the same
		return model.Tokens{}, model.User{}, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)
	}

	if err := s.lim.Success(ctx, login, ipHash); err != nil {
		s.log.Warn("reset login limiter", zap.Error(err))
	}

	access, exp, err := s.issueAccessToken(u.ID)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *u, nil
}

// Profile returns the account of userID.
func (s *AuthServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return *u, nil
}

// ChangePassword requires the current password and the new one twice.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, current, next, confirm string) error {
	if current == "" || next == "" || confirm == "" {
		return fmt.Errorf("%w: current password, new password and confirmation are required", errs.ErrValidation)
	}
	if next != confirm {
		return fmt.Errorf("%w: new passwords do not match", errs.ErrInvalidFormat)
	}
	if !checkPassword(next) {
		return fmt.Errorf("%w: password needs 6+ characters with upper and lower case letters and a digit", errs.ErrInvalidFormat)
	}
	if _, err := s.checkCredentials(ctx, userID, current); err != nil {
		return err
	}
	hash, salt, err := pkgcrypto.NewPasswordHash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash, salt); err != nil {
		return err
	}
	s.log.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}

// ChangeEmail stores a lower-cased address. Keeping the current address is allowed.
func (s *AuthServiceImpl) ChangeEmail(ctx context.Context, userID uuid.UUID, password, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}
	if !emailRe.MatchString(email) {
		return model.User{}, fmt.Errorf("%w: invalid email", errs.ErrInvalidFormat)
	}
	u, err := s.checkCredentials(ctx, userID, password)
	if err != nil {
		return model.User{}, err
	}
	if err := s.users.UpdateEmail(ctx, userID, email); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return model.User{}, fmt.Errorf("%w: email already in use", errs.ErrAlreadyExists)
		}
		return model.User{}, err
	}
	u.Email = email
	return *u, nil
}

// ChangeUsername renames the account. Keeping the current name is allowed.
func (s *AuthServiceImpl) ChangeUsername(ctx context.Context, userID uuid.UUID, password, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: username and password are required", errs.ErrValidation)
	}
	if !usernameRe.MatchString(username) {
		return model.User{}, fmt.Errorf("%w: username must be 3-20 letters, digits or underscores", errs.ErrInvalidFormat)
	}
	u, err := s.checkCredentials(ctx, userID, password)
	if err != nil {
		return model.User{}, err
	}
	if err := s.users.UpdateUsername(ctx, userID, username); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return model.User{}, fmt.Errorf("%w: username already in use", errs.ErrAlreadyExists)
		}
		return model.User{}, err
	}
	u.Username = username
	return *u, nil
}

// checkCredentials loads userID and verifies password against its stored hash.
func (s *AuthServiceImpl) checkCredentials(ctx context.Context, userID uuid.UUID, password string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		return nil, fmt.Errorf("%w: wrong password", errs.ErrUnauthorized)
	}
	return u, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}
