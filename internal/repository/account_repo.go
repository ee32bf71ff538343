// filepath: internal/repository/account_repo.go
package repository

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/Astar201/DataBasePeople/internal/models"
	"github.com/Astar201/DataBasePeople/internal/shared"
)

// HashPassword returns the hex SHA-256 digest of the plaintext. The digest
// is unsalted and deterministic on purpose: credential verification is a
// straight digest comparison, and existing database files keep verifying
// across releases. Not suitable for anything beyond this single-operator
// desktop use; see the README caveat.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// AccountCreateArgs is used for creating accounts at the database layer.
// It is separate from models.Account to carry the plaintext password for
// hashing at creation.
type AccountCreateArgs struct {
	Username string
	Password string
	Role     models.Role
	AddedBy  *int64
}

// CreateAccount inserts a new account. The password is hashed before
// storage; the plaintext never reaches the database.
func (s *Repository) CreateAccount(args *AccountCreateArgs) (*models.Account, error) {
	if !args.Role.Valid() {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidRole, args.Role)
	}

	s.Logger.Debugf("CreateAccount: Hashing password for '%s'", args.Username)
	passwordHash := HashPassword(args.Password)
	createdAt := time.Now().UTC()

	query := `
		INSERT INTO accounts (username, password_hash, role, added_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.DB.Exec(query, args.Username, passwordHash, string(args.Role), args.AddedBy, createdAt.Format(time.RFC3339))
	if err != nil {
		// Check for UNIQUE constraint violation
		if strings.Contains(err.Error(), "UNIQUE constraint failed: accounts.username") {
			return nil, shared.ErrDuplicateUsername
		}
		s.Logger.Errorf("CreateAccount: insert failed: %v", err)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.Logger.Debugf("CreateAccount: Account '%s' created with ID %d", args.Username, id)

	return &models.Account{
		ID:           id,
		Username:     args.Username,
		PasswordHash: passwordHash,
		Role:         args.Role,
		AddedBy:      args.AddedBy,
		CreatedAt:    createdAt,
	}, nil
}

// GetAccountByUsername retrieves an account by exact username, using a
// cache for performance.
func (s *Repository) GetAccountByUsername(username string) (*models.Account, error) {
	cacheKey := fmt.Sprintf("account_by_name_%s", username)
	if acct, found := s.Cache.Get(cacheKey); found {
		return acct.(*models.Account), nil
	}

	s.Logger.Debugf("GetAccountByUsername: CACHE MISS for '%s'. Querying DB.", username)
	query := "SELECT id, username, password_hash, role, added_by, created_at FROM accounts WHERE username = ?"
	acct, err := s.scanAccountRow(s.DB.QueryRow(query, username))
	if err != nil {
		return nil, err
	}

	s.Cache.Set(cacheKey, acct, 5*time.Minute)
	s.Cache.Set(fmt.Sprintf("account_by_id_%d", acct.ID), acct, 5*time.Minute)
	return acct, nil
}

// GetAccountByID retrieves an account by id, using a cache for performance.
func (s *Repository) GetAccountByID(id int64) (*models.Account, error) {
	cacheKey := fmt.Sprintf("account_by_id_%d", id)
	if acct, found := s.Cache.Get(cacheKey); found {
		return acct.(*models.Account), nil
	}

	s.Logger.Debugf("GetAccountByID: CACHE MISS for ID %d. Querying DB.", id)
	query := "SELECT id, username, password_hash, role, added_by, created_at FROM accounts WHERE id = ?"
	acct, err := s.scanAccountRow(s.DB.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	s.Cache.Set(cacheKey, acct, 5*time.Minute)
	s.Cache.Set(fmt.Sprintf("account_by_name_%s", acct.Username), acct, 5*time.Minute)
	return acct, nil
}

// VerifyCredentials looks up the account by exact username and compares
// password digests. A missing username and a wrong password are
// indistinguishable to the caller: both return ErrAccountNotFound, so the
// login surface cannot be used to enumerate usernames.
func (s *Repository) VerifyCredentials(username, plaintext string) (*models.Account, error) {
	acct, err := s.GetAccountByUsername(username)
	if err != nil {
		if err == shared.ErrAccountNotFound {
			return nil, shared.ErrAccountNotFound
		}
		return nil, err
	}
	if acct.PasswordHash != HashPassword(plaintext) {
		return nil, shared.ErrAccountNotFound
	}
	return acct, nil
}

// AccountExists checks if an account with the given username exists.
func (s *Repository) AccountExists(username string) (bool, error) {
	_, err := s.GetAccountByUsername(username)
	if err != nil {
		if err == shared.ErrAccountNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountAccounts returns the total number of accounts.
func (s *Repository) CountAccounts() (int, error) {
	var count int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetAccounts retrieves all accounts, sorted by username ascending.
func (s *Repository) GetAccounts() ([]models.Account, error) {
	query, sqlArgs, err := s.Builder.
		Select("id", "username", "password_hash", "role", "added_by", "created_at").
		From("accounts").
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(query, sqlArgs...)
	if err != nil {
		s.Logger.Errorf("GetAccounts: query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		acct, err := s.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}

// GetAdminAccounts retrieves all accounts with the admin role.
func (s *Repository) GetAdminAccounts() ([]models.Account, error) {
	query := "SELECT id, username, password_hash, role, added_by, created_at FROM accounts WHERE role = 'admin' ORDER BY username ASC"
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		acct, err := s.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}

// UpdateAccountPassword replaces an account's password hash.
func (s *Repository) UpdateAccountPassword(username, plaintext string) (bool, error) {
	s.Logger.Debugf("UpdateAccountPassword: Hashing new password for '%s'", username)
	result, err := s.DB.Exec("UPDATE accounts SET password_hash = ? WHERE username = ?", HashPassword(plaintext), username)
	if err != nil {
		s.Logger.Errorf("UpdateAccountPassword: update failed: %v", err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	s.invalidateAccountByName(username)
	return affected > 0, nil
}

// DeleteAccount removes an account by id. Returns true iff a row was
// removed. The self-deletion and last-admin rules live in the service
// layer; the store only deletes.
func (s *Repository) DeleteAccount(id int64) (bool, error) {
	// Fetch first so the username cache entry can be invalidated too.
	acct, err := s.GetAccountByID(id)
	if err != nil {
		if err == shared.ErrAccountNotFound {
			return false, nil
		}
		return false, err
	}

	result, err := s.DB.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		s.Logger.Errorf("DeleteAccount: delete failed: %v", err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	s.Cache.Delete(fmt.Sprintf("account_by_id_%d", id))
	s.invalidateAccountByName(acct.Username)
	return affected > 0, nil
}

func (s *Repository) invalidateAccountByName(username string) {
	if acct, found := s.Cache.Get(fmt.Sprintf("account_by_name_%s", username)); found {
		s.Cache.Delete(fmt.Sprintf("account_by_id_%d", acct.(*models.Account).ID))
	}
	s.Cache.Delete(fmt.Sprintf("account_by_name_%s", username))
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Repository) scanAccountRow(row *sql.Row) (*models.Account, error) {
	acct, err := s.scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrAccountNotFound
		}
		s.Logger.Errorf("scanAccountRow: %v", err)
		return nil, err
	}
	return acct, nil
}

func (s *Repository) scanAccount(row rowScanner) (*models.Account, error) {
	var acct models.Account
	var role string
	var addedBy sql.NullInt64
	var createdAt string
	if err := row.Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &role, &addedBy, &createdAt); err != nil {
		return nil, err
	}
	acct.Role = models.Role(role)
	if addedBy.Valid {
		acct.AddedBy = &addedBy.Int64
	}
	acct.CreatedAt = s.parseStoredTime(createdAt)
	return &acct, nil
}

// parseStoredTime accepts both the RFC3339 values this code writes and the
// 'YYYY-MM-DD HH:MM:SS' form SQLite's CURRENT_TIMESTAMP default produces.
// Anything else is a corrupt row; the zero time is returned and the value
// logged so the row can be found and repaired.
func (s *Repository) parseStoredTime(v string) time.Time {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
		return t.UTC()
	}
	s.Logger.Warnf("parseStoredTime: unparseable timestamp %q in store", v)
	return time.Time{}
}
