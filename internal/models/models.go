package models

import "time"

// Role controls what an account may do. Admins manage accounts, every
// authenticated account manages person records.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Account is a login identity. PasswordHash holds the hex digest of the
// password, never the plaintext.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	AddedBy      *int64 // nil for the bootstrap admin
	CreatedAt    time.Time
}

// IsAdmin reports whether the account carries the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// PersonRecord is a managed data subject. The image blob is stored in the
// database but never loaded by list/search queries; HasImage signals its
// presence and GetImage fetches the bytes on demand.
type PersonRecord struct {
	ID          int64
	FullName    string
	Email       string
	Phone       string
	BirthDate   string
	Job         string
	Rating      float64
	Description string
	HasImage    bool
	AddedBy     int64
	// AddedByUsername is resolved via a LEFT JOIN at query time. It is empty
	// when the creating account has since been deleted.
	AddedByUsername string
	CreatedAt       time.Time
}
