package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/repository"
	"github.com/alphaowl/premium_go_server/internal/testutil"
)

func TestComputePremiumUntil(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	activeUntil := now.AddDate(0, 0, 10)
	expiredUntil := now.AddDate(0, 0, -10)

	tests := []struct {
		name     string
		existing *model.PremiumUser
		cycle    string
		expected time.Time
	}{
		{
			name:     "new user monthly",
			existing: nil,
			cycle:    model.CycleMonthly,
			expected: now.AddDate(0, 1, 0),
		},
		{
			name:     "new user yearly",
			existing: nil,
			cycle:    model.CycleYearly,
			expected: now.AddDate(0, 12, 0),
		},
		{
			name:     "active member extends from current expiry",
			existing: &model.PremiumUser{IsPremium: true, PremiumUntil: &activeUntil},
			cycle:    model.CycleMonthly,
			expected: activeUntil.AddDate(0, 1, 0),
		},
		{
			name:     "expired member restarts from now",
			existing: &model.PremiumUser{IsPremium: true, PremiumUntil: &expiredUntil},
			cycle:    model.CycleYearly,
			expected: now.AddDate(0, 12, 0),
		},
		{
			name:     "demoted member restarts from now",
			existing: &model.PremiumUser{IsPremium: false, PremiumUntil: &activeUntil},
			cycle:    model.CycleMonthly,
			expected: now.AddDate(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputePremiumUntil(tt.existing, tt.cycle, now)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPremiumService_GetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPremiumService(repository.NewPremiumUserRepository(db))

	until := time.Now().AddDate(0, 1, 0)
	testutil.TestPremiumUser(t, db, "member@example.com", testutil.WithPremiumUntil(until))

	status, err := svc.GetStatus("member@example.com")
	require.NoError(t, err)
	assert.True(t, status.IsPremium)
	assert.Equal(t, until.Format(time.RFC3339), status.PremiumUntil)
}

func TestPremiumService_GetStatus_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPremiumService(repository.NewPremiumUserRepository(db))

	status, err := svc.GetStatus("stranger@example.com")
	require.NoError(t, err)
	assert.False(t, status.IsPremium)
	assert.Empty(t, status.PremiumUntil)
}

func TestPremiumService_GetStatus_ExpiredNotYetDemoted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPremiumService(repository.NewPremiumUserRepository(db))

	// 标记还挂着但到期时间已过：查询结果必须按非会员处理
	testutil.TestPremiumUser(t, db, "lapsed@example.com",
		testutil.WithPremiumUntil(time.Now().AddDate(0, 0, -1)))

	status, err := svc.GetStatus("lapsed@example.com")
	require.NoError(t, err)
	assert.False(t, status.IsPremium)
}

func TestPremiumService_DemoteExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := repository.NewPremiumUserRepository(db)
	svc := NewPremiumService(repo)

	testutil.TestPremiumUser(t, db, "expired@example.com",
		testutil.WithPremiumUntil(time.Now().AddDate(0, 0, -2)))
	testutil.TestPremiumUser(t, db, "active@example.com",
		testutil.WithPremiumUntil(time.Now().AddDate(0, 2, 0)))

	count, err := svc.DemoteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
