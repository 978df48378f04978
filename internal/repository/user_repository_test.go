package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"
)

func TestUserCreateStartsWithInitialGrant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	u := model.User{Username: "alice", PasswordHash: "hash"}
	id, err := repo.Create(context.Background(), &u)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 100, u.Points)

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 100, got.Points)
	assert.Nil(t, got.Email)
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	u1 := model.User{Username: "alice", PasswordHash: "hash"}
	_, err := repo.Create(context.Background(), &u1)
	require.NoError(t, err)

	u2 := model.User{Username: "alice", PasswordHash: "other"}
	_, err = repo.Create(context.Background(), &u2)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	u := model.User{Username: "alice", PasswordHash: "hash"}
	id, err := repo.Create(context.Background(), &u)
	require.NoError(t, err)

	email := "alice@example.edu"
	phone := "13800000000"
	require.NoError(t, repo.UpdateProfile(context.Background(), id, &email, nil, &phone, nil))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got.Email)
	assert.Equal(t, email, *got.Email)
	require.NotNil(t, got.Phone)
	assert.Equal(t, phone, *got.Phone)
	assert.Nil(t, got.RealName)
}

func TestGetByUsernameMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
