package repository

import (
	"context"
	"testing"

	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountAdminsIgnoresInactiveAndUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	users := []model.User{
		{Email: "a@example.com", Name: "A", PasswordHash: "x", Role: model.RoleAdmin, Active: true},
		{Email: "b@example.com", Name: "B", PasswordHash: "x", Role: model.RoleAdmin, Active: false},
		{Email: "c@example.com", Name: "C", PasswordHash: "x", Role: model.RoleUser, Active: true},
	}
	for i := range users {
		require.NoError(t, repo.Create(ctx, &users[i]))
	}

	// Active: false must survive the insert as-is.
	var inactive model.User
	require.NoError(t, db.First(&inactive, "email = ?", "b@example.com").Error)
	assert.False(t, inactive.Active)

	n, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSettingGetCreatesSingleton(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ID)
	assert.Equal(t, 180, s.ReminderFreqMinutes)
	assert.Empty(t, s.AdminEmail)

	s.AdminEmail = "ops@example.com"
	s.ReminderFreqMinutes = 60
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", got.AdminEmail)
	assert.Equal(t, 60, got.ReminderFreqMinutes)

	var n int64
	require.NoError(t, db.Model(&model.Setting{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
