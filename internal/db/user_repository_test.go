package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliusmarkwei/swift-send/internal/models"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	database := SetupTestDB(t)
	repo := NewUserRepository(database)

	user := models.NewUser("kwame", "kwame@example.com", "hash")
	require.NoError(t, repo.Create(user))

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "kwame", byID.Username)
	assert.True(t, byID.Active)
	assert.Nil(t, byID.TOTPSecret)

	byName, err := repo.GetByUsername("kwame")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	missing, err := repo.GetByUsername("ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_Duplicate(t *testing.T) {
	database := SetupTestDB(t)
	repo := NewUserRepository(database)

	require.NoError(t, repo.Create(models.NewUser("kwame", "kwame@example.com", "hash")))

	err := repo.Create(models.NewUser("kwame", "other@example.com", "hash"))
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repo.Create(models.NewUser("other", "kwame@example.com", "hash"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_Update(t *testing.T) {
	database := SetupTestDB(t)
	repo := NewUserRepository(database)

	user := models.NewUser("kwame", "kwame@example.com", "hash")
	require.NoError(t, repo.Create(user))

	secret := "encrypted-secret"
	user.TOTPSecret = &secret
	user.TOTPEnabled = true
	require.NoError(t, repo.Update(user))

	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TOTPSecret)
	assert.Equal(t, "encrypted-secret", *updated.TOTPSecret)
	assert.True(t, updated.TOTPEnabled)

	ghost := models.NewUser("ghost", "ghost@example.com", "hash")
	assert.Error(t, repo.Update(ghost))
}
