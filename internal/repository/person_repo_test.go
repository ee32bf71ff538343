// filepath: internal/repository/person_repo_test.go
package repository

import (
	"testing"

	"github.com/Astar201/DataBasePeople/internal/models"
	"github.com/Astar201/DataBasePeople/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCreateAccount(t *testing.T, repo *Repository, username string, role models.Role) *models.Account {
	t.Helper()
	acct, err := repo.CreateAccount(&AccountCreateArgs{Username: username, Password: "pw", Role: role})
	require.NoError(t, err)
	return acct
}

func mustCreateRecord(t *testing.T, repo *Repository, name, email, phone string, addedBy int64, image []byte) *models.PersonRecord {
	t.Helper()
	rec, err := repo.CreatePersonRecord(&models.PersonRecord{
		FullName:  name,
		Email:     email,
		Phone:     phone,
		BirthDate: "2000-01-01",
		Job:       "eng",
		Rating:    7.5,
		AddedBy:   addedBy,
	}, image)
	require.NoError(t, err)
	return rec
}

func TestCreatePersonRecord(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := mustCreateAccount(t, repo, "alice", models.RoleUser)
	rec := mustCreateRecord(t, repo, "Bob", "b@x.com", "123", alice.ID, nil)
	assert.NotZero(t, rec.ID)
	assert.False(t, rec.HasImage)

	records, err := repo.GetPersonRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bob", records[0].FullName)
	assert.Equal(t, "alice", records[0].AddedByUsername)
	assert.Equal(t, alice.ID, records[0].AddedBy)
}

func TestCreatePersonRecordUnknownCreator(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreatePersonRecord(&models.PersonRecord{
		FullName: "Ghost", Email: "g@x.com", Phone: "0", BirthDate: "1999-01-01", Job: "none",
		AddedBy: 4242,
	}, nil)
	assert.ErrorIs(t, err, shared.ErrCreatorNotFound)

	records, err := repo.GetPersonRecords()
	require.NoError(t, err)
	assert.Empty(t, records, "failed insert must not leave a row behind")
}

func TestPersonRecordOrdering(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := mustCreateAccount(t, repo, "alice", models.RoleUser)
	first := mustCreateRecord(t, repo, "First", "f@x.com", "1", alice.ID, nil)
	second := mustCreateRecord(t, repo, "Second", "s@x.com", "2", alice.ID, nil)
	third := mustCreateRecord(t, repo, "Third", "t@x.com", "3", alice.ID, nil)

	records, err := repo.GetPersonRecords()
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Most recent first, with the id as the same-timestamp tie-break.
	assert.Equal(t, third.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
	assert.Equal(t, first.ID, records[2].ID)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].CreatedAt.After(records[i-1].CreatedAt),
			"created_at must be non-increasing")
	}
}

func TestSearchPersonRecords(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := mustCreateAccount(t, repo, "alice", models.RoleUser)
	mustCreateRecord(t, repo, "Bob Martin", "bob@x.com", "111", alice.ID, nil)
	mustCreateRecord(t, repo, "Carol Danvers", "carol@y.org", "222", alice.ID, nil)
	mustCreateRecord(t, repo, "Dan Roberts", "dan@z.net", "333-bob", alice.ID, nil)

	t.Run("Matches name, email and phone", func(t *testing.T) {
		results, err := repo.SearchPersonRecords("bob")
		require.NoError(t, err)
		assert.Len(t, results, 2) // "Bob Martin" (name+email) and "Dan Roberts" (phone)
	})

	t.Run("Case-insensitive", func(t *testing.T) {
		lower, err := repo.SearchPersonRecords("carol")
		require.NoError(t, err)
		upper, err := repo.SearchPersonRecords("CAROL")
		require.NoError(t, err)
		require.Len(t, lower, 1)
		require.Len(t, upper, 1)
		assert.Equal(t, lower[0].ID, upper[0].ID)
	})

	t.Run("Subset of full listing with same ordering", func(t *testing.T) {
		all, err := repo.GetPersonRecords()
		require.NoError(t, err)
		results, err := repo.SearchPersonRecords("bob")
		require.NoError(t, err)

		ids := make(map[int64]int)
		for i, r := range all {
			ids[r.ID] = i
		}
		last := -1
		for _, r := range results {
			pos, ok := ids[r.ID]
			require.True(t, ok, "search result must appear in the full listing")
			assert.Greater(t, pos, last, "search must preserve the listing order")
			last = pos
		}
	})

	t.Run("No match", func(t *testing.T) {
		results, err := repo.SearchPersonRecords("zzz-no-such")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestDanglingCreatorReference(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	bob := mustCreateAccount(t, repo, "bob", models.RoleUser)
	rec := mustCreateRecord(t, repo, "Orphan", "o@x.com", "999", bob.ID, nil)

	// Deleting the creator leaves the record and its added_by id in place.
	removed, err := repo.DeleteAccount(bob.ID)
	require.NoError(t, err)
	require.True(t, removed)

	records, err := repo.GetPersonRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
	assert.Equal(t, bob.ID, records[0].AddedBy, "dangling id is preserved")
	assert.Equal(t, "", records[0].AddedByUsername, "username resolves to empty for a deleted creator")
}

func TestImageRoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := mustCreateAccount(t, repo, "alice", models.RoleUser)
	image := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x01, 0x02}

	withImage := mustCreateRecord(t, repo, "Pic", "p@x.com", "1", alice.ID, image)
	withoutImage := mustCreateRecord(t, repo, "NoPic", "n@x.com", "2", alice.ID, nil)

	assert.True(t, withImage.HasImage)
	assert.False(t, withoutImage.HasImage)

	got, err := repo.GetImage(withImage.ID)
	require.NoError(t, err)
	assert.Equal(t, image, got, "bytes come back exactly as stored, no re-encoding")

	got, err = repo.GetImage(withoutImage.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = repo.GetImage(99999)
	assert.ErrorIs(t, err, shared.ErrRecordNotFound)

	// Listing must report presence without materializing the blob.
	records, err := repo.GetPersonRecords()
	require.NoError(t, err)
	for _, r := range records {
		if r.ID == withImage.ID {
			assert.True(t, r.HasImage)
		} else {
			assert.False(t, r.HasImage)
		}
	}
}

func TestDeletePersonRecord(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := mustCreateAccount(t, repo, "alice", models.RoleUser)
	rec := mustCreateRecord(t, repo, "Bob", "b@x.com", "123", alice.ID, nil)

	removed, err := repo.DeletePersonRecord(rec.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeletePersonRecord(rec.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	records, err := repo.GetPersonRecords()
	require.NoError(t, err)
	assert.Empty(t, records)
}
