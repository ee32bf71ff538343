// filepath: internal/services/interfaces.go
package services

import (
	"github.com/Astar201/DataBasePeople/internal/config"
	"github.com/Astar201/DataBasePeople/internal/models"
	"github.com/Astar201/DataBasePeople/internal/services/auth"
)

// AccountService manages login accounts. All mutating operations are
// admin-only; the session is the caller's proof of identity.
type AccountService interface {
	List(sess *auth.Session) ([]models.Account, error)
	Create(sess *auth.Session, username, password string, role models.Role) (*models.Account, error)
	Delete(sess *auth.Session, id int64) error
	ResetPassword(sess *auth.Session, username, newPassword string) error
	InitializeAdminAccount(cfg *config.Config) error
}

// RecordService manages person records. Any authenticated session may
// create, view and delete records.
type RecordService interface {
	Create(sess *auth.Session, args RecordCreateArgs) (*models.PersonRecord, error)
	List(sess *auth.Session) ([]models.PersonRecord, error)
	Search(sess *auth.Session, query string) ([]models.PersonRecord, error)
	GetImage(sess *auth.Session, recordID int64) ([]byte, error)
	Delete(sess *auth.Session, id int64) error
}

// Auditor records notable operations to the operational log.
type Auditor interface {
	Log(action string, actor string, resource string, details map[string]interface{})
}
