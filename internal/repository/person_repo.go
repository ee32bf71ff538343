// filepath: internal/repository/person_repo.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Astar201/DataBasePeople/internal/models"
	"github.com/Astar201/DataBasePeople/internal/shared"

	"github.com/Masterminds/squirrel"
)

// personColumns are the fields fetched by list and search queries. The
// image blob itself is deliberately excluded; only its presence is
// reported so callers can fetch the bytes on demand via GetImage.
var personColumns = []string{
	"p.id", "p.full_name", "p.email", "p.phone", "p.birth_date", "p.job",
	"p.rating", "p.description", "p.image IS NOT NULL AS has_image",
	"p.added_by", "COALESCE(a.username, '') AS added_by_username",
	"p.created_at",
}

// CreatePersonRecord inserts a new record on behalf of rec.AddedBy.
// The creating account must exist at insert time; the check and the insert
// run in one transaction so the reference cannot go stale in between.
// There is no cascade the other way: deleting the account later leaves the
// record (and its added_by id) untouched.
func (s *Repository) CreatePersonRecord(rec *models.PersonRecord, image []byte) (*models.PersonRecord, error) {
	if len(image) == 0 {
		image = nil // store NULL, not an empty blob
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() // Rollback on any error

	var exists bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM accounts WHERE id = ?)", rec.AddedBy).Scan(&exists)
	if err != nil {
		s.Logger.Errorf("CreatePersonRecord: creator lookup failed: %v", err)
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", shared.ErrCreatorNotFound, rec.AddedBy)
	}

	createdAt := time.Now().UTC()
	query := `
		INSERT INTO person_records (full_name, email, phone, birth_date, job, rating, description, image, added_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.Exec(query,
		rec.FullName, rec.Email, rec.Phone, rec.BirthDate, rec.Job,
		rec.Rating, rec.Description, image, rec.AddedBy, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		s.Logger.Errorf("CreatePersonRecord: insert failed: %v", err)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.Logger.Debugf("CreatePersonRecord: record %d created by account %d", id, rec.AddedBy)

	created := *rec
	created.ID = id
	created.HasImage = len(image) > 0
	created.CreatedAt = createdAt
	return &created, nil
}

// GetPersonRecords returns every record joined with its creator's
// username, most recent first. The join is a LEFT JOIN: records whose
// creating account has been deleted come back with an empty username.
func (s *Repository) GetPersonRecords() ([]models.PersonRecord, error) {
	return s.queryPersonRecords(s.personSelect())
}

// SearchPersonRecords filters records by a case-insensitive substring
// match against full name, email or phone, same ordering as
// GetPersonRecords. The empty-query-means-no-filter rule belongs to the
// caller; the store always applies the pattern it is given.
func (s *Repository) SearchPersonRecords(term string) ([]models.PersonRecord, error) {
	pattern := "%" + term + "%"
	q := s.personSelect().Where(squirrel.Or{
		squirrel.Like{"p.full_name": pattern},
		squirrel.Like{"p.email": pattern},
		squirrel.Like{"p.phone": pattern},
	})
	return s.queryPersonRecords(q)
}

func (s *Repository) personSelect() squirrel.SelectBuilder {
	return s.Builder.
		Select(personColumns...).
		From("person_records p").
		LeftJoin("accounts a ON a.id = p.added_by").
		OrderBy("p.created_at DESC", "p.id DESC")
}

func (s *Repository) queryPersonRecords(q squirrel.SelectBuilder) ([]models.PersonRecord, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		s.Logger.Errorf("queryPersonRecords: query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := make([]models.PersonRecord, 0)
	for rows.Next() {
		var rec models.PersonRecord
		var createdAt string
		err := rows.Scan(
			&rec.ID, &rec.FullName, &rec.Email, &rec.Phone, &rec.BirthDate, &rec.Job,
			&rec.Rating, &rec.Description, &rec.HasImage,
			&rec.AddedBy, &rec.AddedByUsername, &createdAt,
		)
		if err != nil {
			s.Logger.Errorf("queryPersonRecords: scan failed: %v", err)
			return nil, err
		}
		rec.CreatedAt = s.parseStoredTime(createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetImage fetches the raw image bytes for a record. A record without a
// photo yields a nil slice and no error; a missing record yields
// ErrRecordNotFound.
func (s *Repository) GetImage(recordID int64) ([]byte, error) {
	var image []byte
	err := s.DB.QueryRow("SELECT image FROM person_records WHERE id = ?", recordID).Scan(&image)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrRecordNotFound
		}
		s.Logger.Errorf("GetImage: query failed: %v", err)
		return nil, err
	}
	return image, nil
}

// DeletePersonRecord removes a record by id. Returns true iff a row was
// removed.
func (s *Repository) DeletePersonRecord(id int64) (bool, error) {
	result, err := s.DB.Exec("DELETE FROM person_records WHERE id = ?", id)
	if err != nil {
		s.Logger.Errorf("DeletePersonRecord: delete failed: %v", err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
