package db

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliusmarkwei/swift-send/internal/models"
)

func TestContactRepository_Create(t *testing.T) {
	database := SetupTestDB(t)
	owner := SeedTestUser(t, database, "owner")
	repo := NewContactRepository(database)

	contact := &models.Contact{
		FullName:  "Ama Mensah",
		Email:     "ama@example.com",
		Phone:     "+233111",
		Info:      "friend",
		CreatedBy: owner.ID,
	}

	err := repo.Create(contact)
	require.NoError(t, err)
	assert.NotEmpty(t, contact.ID)
	assert.NotZero(t, contact.CreatedAt)

	got, err := repo.GetByID(contact.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ama Mensah", got.FullName)
	assert.Equal(t, "ama@example.com", got.Email)
	assert.Equal(t, "+233111", got.Phone)
}

func TestContactRepository_Create_DuplicatePhone(t *testing.T) {
	database := SetupTestDB(t)
	owner := SeedTestUser(t, database, "owner")
	repo := NewContactRepository(database)

	first := &models.Contact{Phone: "+233111", CreatedBy: owner.ID}
	require.NoError(t, repo.Create(first))

	second := &models.Contact{Phone: "+233111", CreatedBy: owner.ID}
	err := repo.Create(second)
	assert.True(t, errors.Is(err, ErrDuplicate))

	// Same phone under a different owner is fine
	other := SeedTestUser(t, database, "other")
	third := &models.Contact{Phone: "+233111", CreatedBy: other.ID}
	assert.NoError(t, repo.Create(third))
}

func TestContactRepository_Create_EmptyEmailsDoNotCollide(t *testing.T) {
	database := SetupTestDB(t)
	owner := SeedTestUser(t, database, "owner")
	repo := NewContactRepository(database)

	require.NoError(t, repo.Create(&models.Contact{Phone: "+233111", CreatedBy: owner.ID}))
	require.NoError(t, repo.Create(&models.Contact{Phone: "+233222", CreatedBy: owner.ID}))

	count, err := repo.CountByOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestContactRepository_GetOrCreate(t *testing.T) {
	database := SetupTestDB(t)
	owner := SeedTestUser(t, database, "owner")
	repo := NewContactRepository(database)

	contact, created, err := repo.GetOrCreate("+233111", owner.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "+233111", contact.Phone)
	assert.Empty(t, contact.FullName)

	again, created, err := repo.GetOrCreate("+233111", owner.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, contact.ID, again.ID)

	count, err := repo.CountByOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestContactRepository_GetOrCreate_Concurrent(t *testing.T) {
	database := SetupTestDB(t)
	owner := SeedTestUser(t, database, "owner")
	repo := NewContactRepository(database)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = repo.GetOrCreate("+233999", owner.ID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	count, err := repo.CountByOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "concurrent upserts must converge on one contact")
}

func TestContactRepository_Update(t *testing.T) {
	database := SetupTestDB(t)
	owner := SeedTestUser(t, database, "owner")
	repo := NewContactRepository(database)

	contact := &models.Contact{Phone: "+233111", CreatedBy: owner.ID}
	require.NoError(t, repo.Create(contact))

	contact.FullName = "Kojo"
	contact.Info = "updated"
	require.NoError(t, repo.Update(contact))

	got, err := repo.GetByID(contact.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kojo", got.FullName)
	assert.Equal(t, "updated", got.Info)

	// Updating a missing contact fails
	missing := &models.Contact{ID: "nope", Phone: "+233000", CreatedBy: owner.ID}
	err = repo.Update(missing)
	assert.Error(t, err)
}

func TestContactRepository_Delete(t *testing.T) {
	database := SetupTestDB(t)
	owner := SeedTestUser(t, database, "owner")
	repo := NewContactRepository(database)

	contact := &models.Contact{Phone: "+233111", CreatedBy: owner.ID}
	require.NoError(t, repo.Create(contact))

	require.NoError(t, repo.Delete(contact.ID, owner.ID))

	got, err := repo.GetByID(contact.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, repo.Delete(contact.ID, owner.ID))
}

func TestContactRepository_OwnerScoping(t *testing.T) {
	database := SetupTestDB(t)
	owner := SeedTestUser(t, database, "owner")
	other := SeedTestUser(t, database, "other")
	repo := NewContactRepository(database)

	contact := &models.Contact{Phone: "+233111", CreatedBy: owner.ID}
	require.NoError(t, repo.Create(contact))

	got, err := repo.GetByID(contact.ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "contacts are never visible across owners")

	assert.Error(t, repo.Delete(contact.ID, other.ID))
}
