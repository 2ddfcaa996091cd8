package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

const (
	verificationTokenBytes = 32
	// expired rows are kept this long so late clicks still get "Token expired"
	purgeRetention = 7 * 24 * time.Hour
)

const (
	msgEmailUsed        = "Email address has been used to register another account"
	msgInvalidToken     = "Invalid token"
	msgTokenExpired     = "Token expired"
	msgEmailUnknown     = "Email is not registered"
	msgPasswordWrong    = "Password is incorrect"
	msgSuspended        = "Your account has been suspended."
	msgUnverified       = "Please verify your email before logging in."
	msgInvalidSession   = "Invalid session. Please log in again."
	msgUsernameConflict = "Username already exists"
	msgPasswordTooLong  = "password must be at most 72 bytes long"
)

// VerificationMailer sends the email verification link.
type VerificationMailer interface {
	SendVerification(ctx context.Context, email, token string, expiresAt time.Time) error
}

// TokenPair is delivered to the client as the token/refreshToken cookies.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}

type AuthConfig struct {
	RefreshTTL     time.Duration
	VerifyEmailTTL time.Duration
}

type AuthService struct {
	store  repository.Store
	jwt    *helpers.JWTManager
	hasher *helpers.PasswordHasher
	mail   VerificationMailer
	logger *logrus.Logger
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthService(store repository.Store, jwt *helpers.JWTManager, hasher *helpers.PasswordHasher, mail VerificationMailer, logger *logrus.Logger, cfg AuthConfig) *AuthService {
	return &AuthService{store: store, jwt: jwt, hasher: hasher, mail: mail, logger: logger, cfg: cfg, now: time.Now}
}

// NormalizeEmail trims and lower-cases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified user and mails a verification link. A mail
// failure rolls back the user row together with the token.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	log := s.logger.WithField("email", email)

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByEmail(ctx, email); err == nil {
			return apperror.Conflict("", map[string]string{"email": msgEmailUsed})
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("lookup email: %w", err)
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return hashError(err)
		}
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u := &entity.User{ID: id.String(), Email: email, PasswordHash: hash}
		if err := tx.Users().Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Conflict("", map[string]string{"email": msgEmailUsed})
			}
			return fmt.Errorf("create user: %w", err)
		}

		tok, err := helpers.RandomToken(verificationTokenBytes)
		if err != nil {
			return fmt.Errorf("generate verification token: %w", err)
		}
		vt := &entity.VerificationToken{
			Token:     tok,
			UserID:    u.ID,
			Type:      entity.TokenEmailVerification,
			ExpiresAt: s.now().Add(s.cfg.VerifyEmailTTL),
		}
		if err := tx.VerificationTokens().Create(ctx, vt); err != nil {
			return fmt.Errorf("create verification token: %w", err)
		}

		if err := s.mail.SendVerification(ctx, email, tok, vt.ExpiresAt); err != nil {
			return fmt.Errorf("send verification email: %w", err)
		}
		log = log.WithField("user_id", u.ID)
		return nil
	})
	if err != nil {
		return err
	}

	metricRegistrations.Add(1)
	log.Info("user registered")
	return nil
}

// Verify consumes an email verification token and signs the user in.
func (s *AuthService) Verify(ctx context.Context, token string) (TokenPair, error) {
	var pair TokenPair
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		vt, err := tx.VerificationTokens().Get(ctx, token)
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Conflict(msgInvalidToken, nil)
		}
		if err != nil {
			return fmt.Errorf("lookup verification token: %w", err)
		}
		if vt.Type != entity.TokenEmailVerification {
			return apperror.Conflict(msgInvalidToken, nil)
		}
		now := s.now()
		if vt.Expired(now) {
			s.logger.WithField("user_id", vt.UserID).Warn("expired verification token used")
			return apperror.Conflict(msgTokenExpired, nil)
		}

		if err := tx.Users().MarkVerified(ctx, vt.UserID, now); err != nil {
			return fmt.Errorf("mark verified: %w", err)
		}
		if err := tx.VerificationTokens().Delete(ctx, vt.Token); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.Conflict(msgInvalidToken, nil)
			}
			return fmt.Errorf("delete verification token: %w", err)
		}

		pair, err = s.CreateTokens(ctx, tx, vt.UserID)
		return err
	})
	if err != nil {
		return TokenPair{}, err
	}
	metricVerifications.Add(1)
	return pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = NormalizeEmail(email)

	u, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		metricLoginFailures.Add(1)
		return TokenPair{}, apperror.UnprocessableEntity("", map[string]string{"email": msgEmailUnknown})
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		metricLoginFailures.Add(1)
		return TokenPair{}, apperror.UnprocessableEntity("", map[string]string{"password": msgPasswordWrong})
	}
	if u.IsSuspended() {
		return TokenPair{}, apperror.Forbidden(msgSuspended)
	}
	if !u.IsVerified() {
		return TokenPair{}, apperror.Forbidden(msgUnverified)
	}

	pair, err := s.CreateTokens(ctx, s.store, u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	metricLogins.Add(1)
	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "session_id": pair.SessionID}).Info("login succeeded")
	return pair, nil
}

// Refresh consumes the session behind a refresh token and issues a new pair.
// Exactly one of two concurrent refreshes with the same token succeeds.
func (s *AuthService) Refresh(ctx context.Context, userID, sessionID string) (TokenPair, error) {
	var pair TokenPair
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		sess, err := tx.Sessions().GetByIDAndUser(ctx, sessionID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Forbidden(msgInvalidSession)
		}
		if err != nil {
			return fmt.Errorf("lookup session: %w", err)
		}
		now := s.now()
		if !sess.Usable(now) {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "session_id": sessionID}).Warn("refresh with spent or expired session")
			return apperror.Forbidden(msgInvalidSession)
		}
		if err := tx.Sessions().MarkInvoked(ctx, sess.ID, now); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.Forbidden(msgInvalidSession)
			}
			return fmt.Errorf("invoke session: %w", err)
		}
		pair, err = s.CreateTokens(ctx, tx, userID)
		return err
	})
	if err != nil {
		return TokenPair{}, err
	}
	metricRefreshes.Add(1)
	return pair, nil
}

// Logout spends the current session. Already spent or unknown sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID string) error {
	sess, err := s.store.Sessions().GetByIDAndUser(ctx, sessionID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if sess.InvokedAt != nil {
		return nil
	}
	if err := s.store.Sessions().MarkInvoked(ctx, sess.ID, s.now()); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("invoke session: %w", err)
	}
	return nil
}

// CreateTokens opens a new session for userID on store and signs the token pair.
// Pass the transaction-bound store to make session creation part of the caller's transaction.
func (s *AuthService) CreateTokens(ctx context.Context, store repository.Store, userID string) (TokenPair, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return TokenPair{}, err
	}
	sess := &entity.Session{ID: id.String(), UserID: userID, ExpiresAt: s.now().Add(s.cfg.RefreshTTL)}
	if err := store.Sessions().Create(ctx, sess); err != nil {
		return TokenPair{}, fmt.Errorf("create session: %w", err)
	}

	access, _, err := s.jwt.GenerateAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, _, err := s.jwt.GenerateRefreshToken(userID, sess.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, SessionID: sess.ID}, nil
}

// PurgeExpired deletes sessions and verification tokens that expired before the retention window.
func (s *AuthService) PurgeExpired(ctx context.Context) (sessions, tokens int64, err error) {
	cutoff := s.now().Add(-purgeRetention)
	sessions, err = s.store.Sessions().DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("purge sessions: %w", err)
	}
	tokens, err = s.store.VerificationTokens().DeleteExpired(ctx, cutoff)
	if err != nil {
		return sessions, 0, fmt.Errorf("purge verification tokens: %w", err)
	}
	metricPurged.Add(sessions + tokens)
	return sessions, tokens, nil
}

// StartCleanup runs PurgeExpired every interval until ctx is done. A non-positive interval disables it.
func (s *AuthService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessions, tokens, err := s.PurgeExpired(ctx)
				if err != nil {
					s.logger.WithError(err).Warn("cleanup failed")
					continue
				}
				s.logger.WithFields(logrus.Fields{"sessions": sessions, "tokens": tokens}).Debug("cleanup done")
			}
		}
	}()
}

// hashError turns an over-long password into a field error; anything else is internal.
func hashError(err error) error {
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return apperror.UnprocessableEntity("", map[string]string{"password": msgPasswordTooLong}).WithCause(err)
	}
	return fmt.Errorf("hash password: %w", err)
}
