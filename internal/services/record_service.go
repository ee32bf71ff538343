// filepath: internal/services/record_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Astar201/DataBasePeople/internal/models"
	"github.com/Astar201/DataBasePeople/internal/repository"
	"github.com/Astar201/DataBasePeople/internal/services/auth"
	"github.com/Astar201/DataBasePeople/internal/shared"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure the interface is implemented
var _ RecordService = (*recordService)(nil)

// RecordCreateArgs carries the caller-supplied fields for a new person
// record. Image is optional raw file bytes, stored as-is without
// re-encoding.
type RecordCreateArgs struct {
	FullName    string
	Email       string
	Phone       string
	BirthDate   string
	Job         string
	Rating      float64
	Description string
	Image       []byte
}

// recordService handles business logic for person records.
type recordService struct {
	Repo  *repository.Repository
	Log   *logrus.Logger
	Audit Auditor
}

// NewRecordService creates a new RecordService.
func NewRecordService(repo *repository.Repository, logger *logrus.Logger, auditor Auditor) *recordService {
	return &recordService{Repo: repo, Log: logger, Audit: auditor}
}

// validate enforces the required-field and rating-range rules before
// anything reaches the store.
func (args *RecordCreateArgs) validate() error {
	required := map[string]string{
		"full_name":  args.FullName,
		"email":      args.Email,
		"phone":      args.Phone,
		"birth_date": args.BirthDate,
		"job":        args.Job,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}
	if args.Rating < 0 || args.Rating > 10 {
		return fmt.Errorf("%w: rating must be within [0, 10], got %g", ErrValidation, args.Rating)
	}
	return nil
}

// Create validates and stores a new person record for the session's
// account. Any authenticated operator may create records.
func (s *recordService) Create(sess *auth.Session, args RecordCreateArgs) (*models.PersonRecord, error) {
	if err := auth.RequireAuthenticated(sess); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	rec := &models.PersonRecord{
		FullName:    strings.TrimSpace(args.FullName),
		Email:       strings.TrimSpace(args.Email),
		Phone:       strings.TrimSpace(args.Phone),
		BirthDate:   strings.TrimSpace(args.BirthDate),
		Job:         strings.TrimSpace(args.Job),
		Rating:      args.Rating,
		Description: args.Description,
		AddedBy:     sess.AccountID,
	}
	created, err := s.Repo.CreatePersonRecord(rec, args.Image)
	if err != nil {
		if errors.Is(err, shared.ErrCreatorNotFound) {
			return nil, err
		}
		s.Log.Errorf("RecordService: Failed to create record: %v", err)
		return nil, fmt.Errorf("failed to create record")
	}

	s.Audit.Log("record.create", sess.Username, created.FullName, map[string]interface{}{"id": created.ID})
	return created, nil
}

// List returns all records, most recent first.
func (s *recordService) List(sess *auth.Session) ([]models.PersonRecord, error) {
	if err := auth.RequireAuthenticated(sess); err != nil {
		return nil, err
	}
	return s.Repo.GetPersonRecords()
}

// Search filters records by a case-insensitive substring of name, email
// or phone. An empty or whitespace-only query means no filter.
func (s *recordService) Search(sess *auth.Session, query string) ([]models.PersonRecord, error) {
	if err := auth.RequireAuthenticated(sess); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Repo.GetPersonRecords()
	}
	return s.Repo.SearchPersonRecords(query)
}

// GetImage returns the raw image bytes for a record, or nil when the
// record has no photo.
func (s *recordService) GetImage(sess *auth.Session, recordID int64) ([]byte, error) {
	if err := auth.RequireAuthenticated(sess); err != nil {
		return nil, err
	}
	img, err := s.Repo.GetImage(recordID)
	if err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return img, nil
}

// Delete removes a record by id.
func (s *recordService) Delete(sess *auth.Session, id int64) error {
	if err := auth.RequireAuthenticated(sess); err != nil {
		return err
	}
	removed, err := s.Repo.DeletePersonRecord(id)
	if err != nil {
		s.Log.Errorf("RecordService: Failed to delete record %d: %v", id, err)
		return fmt.Errorf("failed to delete record")
	}
	if !removed {
		return ErrNotFound
	}

	s.Audit.Log("record.delete", sess.Username, fmt.Sprintf("record:%d", id), nil)
	return nil
}
