package service

import (
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBillingService(db *gorm.DB) *BillingService {
	return NewBillingService(repository.NewUserRepository(db), db)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Plan: model.PlanFree}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestApplyGrantUpgradesPlan(t *testing.T) {
	db := newTestDB(t)
	s := newBillingService(db)
	user := seedUser(t, db, "a@example.com")

	until := time.Now().Add(30 * 24 * time.Hour)
	applied, err := s.ApplyGrant(PlanGrant{
		UserID:   &user.ID,
		ChargeID: "ch_1",
		Plan:     model.PlanPro,
		ProUntil: &until,
	})
	require.NoError(t, err)
	assert.True(t, applied)

	var got model.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, model.PlanPro, got.Plan)
	require.NotNil(t, got.ProUntil)
	assert.WithinDuration(t, until, *got.ProUntil, time.Second)
}

func TestApplyGrantIdempotent(t *testing.T) {
	db := newTestDB(t)
	s := newBillingService(db)
	user := seedUser(t, db, "a@example.com")

	grant := PlanGrant{UserID: &user.ID, ChargeID: "ch_dup", Plan: model.PlanPro}
	applied, err := s.ApplyGrant(grant)
	require.NoError(t, err)
	assert.True(t, applied)

	// Redelivery of the same charge changes nothing.
	grant.Plan = model.PlanFree
	applied, err = s.ApplyGrant(grant)
	require.NoError(t, err)
	assert.False(t, applied)

	var got model.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, model.PlanPro, got.Plan)

	var events int64
	require.NoError(t, db.Model(&model.PaymentEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestApplyGrantByTelegramID(t *testing.T) {
	db := newTestDB(t)
	s := newBillingService(db)

	tgID := int64(42)
	user := &model.User{Email: "tg-42@tg.local", TgUserID: &tgID}
	require.NoError(t, db.Create(user).Error)

	applied, err := s.ApplyGrant(PlanGrant{TgUserID: &tgID, ChargeID: "ch_tg", Plan: model.PlanPro})
	require.NoError(t, err)
	assert.True(t, applied)

	var got model.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, model.PlanPro, got.Plan)
}

func TestApplyGrantValidation(t *testing.T) {
	db := newTestDB(t)
	s := newBillingService(db)
	user := seedUser(t, db, "a@example.com")

	_, err := s.ApplyGrant(PlanGrant{UserID: &user.ID, Plan: "platinum"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = s.ApplyGrant(PlanGrant{Plan: model.PlanPro})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	missing := uint(999)
	_, err = s.ApplyGrant(PlanGrant{UserID: &missing, Plan: model.PlanPro})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestApplyGrantAdminWithoutCharge(t *testing.T) {
	db := newTestDB(t)
	s := newBillingService(db)
	user := seedUser(t, db, "a@example.com")

	// No charge id: a synthetic one is recorded, each call applies.
	applied, err := s.ApplyGrant(PlanGrant{UserID: &user.ID, Plan: model.PlanPro})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.ApplyGrant(PlanGrant{UserID: &user.ID, Plan: model.PlanFree})
	require.NoError(t, err)
	assert.True(t, applied)

	var got model.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, model.PlanFree, got.Plan)
}

func TestSetEntitlement(t *testing.T) {
	db := newTestDB(t)
	s := newBillingService(db)
	user := seedUser(t, db, "a@example.com")

	got, err := s.SetEntitlement(user.ID, "theory", true)
	require.NoError(t, err)
	assert.True(t, got.HasEntitlement("theory", time.Now()))

	got, err = s.SetEntitlement(user.ID, "theory", false)
	require.NoError(t, err)
	assert.False(t, got.HasEntitlement("theory", time.Now()))

	_, err = s.SetEntitlement(user.ID, "", true)
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = s.SetEntitlement(999, "theory", true)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
