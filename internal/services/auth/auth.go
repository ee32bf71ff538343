// filepath: internal/services/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Astar201/DataBasePeople/internal/models"
	"github.com/Astar201/DataBasePeople/internal/repository"
	"github.com/Astar201/DataBasePeople/internal/shared"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidCredentials is returned for any failed login. Whether the
	// username was unknown or the password wrong is never surfaced.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated is returned when an operation requires a session
	// and none (or a nil one) was supplied.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the session's role does not allow the
	// requested operation.
	ErrForbidden = errors.New("insufficient role")
)

// Session is the in-memory proof of a successful login. It is immutable
// and is the sole carrier of identity: every mutating service call takes
// the session the presentation layer threads through. There is no expiry
// or refresh; a session ends when the operator logs out or the process
// exits.
type Session struct {
	ID         string
	AccountID  int64
	Username   string
	Role       models.Role
	LoggedInAt time.Time
}

// AccessControl turns credentials into sessions and gates operations by
// role. It owns no state beyond the repository handle it verifies against.
type AccessControl struct {
	Repo   *repository.Repository
	Logger *logrus.Logger
}

// NewAccessControl creates a new AccessControl backed by repo.
func NewAccessControl(repo *repository.Repository, logger *logrus.Logger) *AccessControl {
	if logger == nil {
		logger = logrus.New()
	}
	return &AccessControl{Repo: repo, Logger: logger}
}

// Login verifies the credential pair and returns an active session.
// Failure is always ErrInvalidCredentials; the parameters are never
// logged.
func (a *AccessControl) Login(username, password string) (*Session, error) {
	acct, err := a.Repo.VerifyCredentials(username, password)
	if err != nil {
		if errors.Is(err, shared.ErrAccountNotFound) {
			a.Logger.WithField("component", "auth").Warn("Login failed")
			return nil, ErrInvalidCredentials
		}
		a.Logger.WithField("component", "auth").Errorf("Login: credential check failed: %v", err)
		return nil, fmt.Errorf("credential check failed: %w", err)
	}

	sess := &Session{
		ID:         ulid.Make().String(),
		AccountID:  acct.ID,
		Username:   acct.Username,
		Role:       acct.Role,
		LoggedInAt: time.Now(),
	}
	a.Logger.WithField("component", "auth").Infof("Login: session %s opened for account %d", sess.ID, sess.AccountID)
	return sess, nil
}

// Logout ends a session. Sessions are plain values so there is nothing to
// revoke; this exists so the transition is logged and explicit.
func (a *AccessControl) Logout(sess *Session) {
	if sess == nil {
		return
	}
	a.Logger.WithField("component", "auth").Infof("Logout: session %s closed", sess.ID)
}

// RequireAuthenticated rejects nil sessions.
func RequireAuthenticated(sess *Session) error {
	if sess == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// RequireRole rejects sessions that are absent or do not carry the given
// role. A mismatched role is an authorization failure, never a silent
// downgrade.
func RequireRole(sess *Session, role models.Role) error {
	if err := RequireAuthenticated(sess); err != nil {
		return err
	}
	if sess.Role != role {
		return fmt.Errorf("%w: %s required", ErrForbidden, role)
	}
	return nil
}
