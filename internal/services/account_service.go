// filepath: internal/services/account_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Astar201/DataBasePeople/internal/config"
	"github.com/Astar201/DataBasePeople/internal/models"
	"github.com/Astar201/DataBasePeople/internal/repository"
	"github.com/Astar201/DataBasePeople/internal/services/auth"
	"github.com/Astar201/DataBasePeople/internal/shared"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure the interface is implemented
var _ AccountService = (*accountService)(nil)

// accountService handles business logic for account management.
type accountService struct {
	Repo  *repository.Repository
	Log   *logrus.Logger
	Audit Auditor
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo *repository.Repository, logger *logrus.Logger, auditor Auditor) *accountService {
	return &accountService{Repo: repo, Log: logger, Audit: auditor}
}

// List returns all accounts, sorted by username. Admin-only.
func (s *accountService) List(sess *auth.Session) ([]models.Account, error) {
	if err := auth.RequireRole(sess, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.Repo.GetAccounts()
}

// Create adds a new account on behalf of the admin session.
func (s *accountService) Create(sess *auth.Session, username, password string, role models.Role) (*models.Account, error) {
	if err := auth.RequireRole(sess, models.RoleAdmin); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	s.Log.Debugf("AccountService: Attempting to create account '%s'", username)
	addedBy := sess.AccountID
	created, err := s.Repo.CreateAccount(&repository.AccountCreateArgs{
		Username: username,
		Password: password,
		Role:     role,
		AddedBy:  &addedBy,
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateUsername) {
			return nil, err // Pass the specific error up
		}
		s.Log.Errorf("AccountService: Failed to create account '%s': %v", username, err)
		return nil, fmt.Errorf("failed to create account")
	}

	s.Audit.Log("account.create", sess.Username, username, map[string]interface{}{"role": string(role)})
	return created, nil
}

// Delete removes an account by id. An account may never delete itself,
// and the last remaining admin may not be deleted.
func (s *accountService) Delete(sess *auth.Session, id int64) error {
	if err := auth.RequireRole(sess, models.RoleAdmin); err != nil {
		return err
	}
	if id == sess.AccountID {
		return ErrSelfDelete
	}

	target, err := s.Repo.GetAccountByID(id)
	if err != nil {
		if errors.Is(err, shared.ErrAccountNotFound) {
			return ErrNotFound
		}
		return err
	}

	if target.IsAdmin() {
		admins, err := s.Repo.GetAdminAccounts()
		if err != nil {
			return fmt.Errorf("failed to check for other admins: %w", err)
		}
		if len(admins) == 1 {
			return ErrLastAdmin
		}
	}

	removed, err := s.Repo.DeleteAccount(id)
	if err != nil {
		s.Log.Errorf("AccountService: Failed to delete account %d: %v", id, err)
		return fmt.Errorf("failed to delete account")
	}
	if !removed {
		return ErrNotFound
	}

	s.Audit.Log("account.delete", sess.Username, target.Username, nil)
	return nil
}

// ResetPassword replaces an account's password. Admin-only.
func (s *accountService) ResetPassword(sess *auth.Session, username, newPassword string) error {
	if err := auth.RequireRole(sess, models.RoleAdmin); err != nil {
		return err
	}
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}

	changed, err := s.Repo.UpdateAccountPassword(username, newPassword)
	if err != nil {
		return fmt.Errorf("failed to reset password")
	}
	if !changed {
		return ErrNotFound
	}

	s.Audit.Log("account.reset_password", sess.Username, username, nil)
	return nil
}

// InitializeAdminAccount runs at startup, before any session exists.
// It seeds the bootstrap admin when the store holds no accounts at all,
// and (unless disabled) resets the admin password to the configured
// default on every launch. Both are single-operator conveniences and a
// documented security caveat.
func (s *accountService) InitializeAdminAccount(cfg *config.Config) error {
	count, err := s.Repo.CountAccounts()
	if err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}

	if count == 0 {
		if _, err := s.Repo.CreateAccount(&repository.AccountCreateArgs{
			Username: "admin",
			Password: cfg.Admin.DefaultPassword,
			Role:     models.RoleAdmin,
		}); err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
		s.Log.Warn("Seeded bootstrap 'admin' account with the default password. Change it.")
		s.Audit.Log("account.seed_admin", "system", "admin", nil)
		return nil
	}

	if cfg.Admin.ResetOnStartup {
		if _, err := s.Repo.UpdateAccountPassword("admin", cfg.Admin.DefaultPassword); err != nil {
			return fmt.Errorf("failed to reset admin password: %w", err)
		}
		s.Log.Warn("Admin password reset to the configured default (admin.reset_on_startup is enabled).")
		s.Audit.Log("account.reset_password", "system", "admin", nil)
	}
	return nil
}
