package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestIsPro(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.True(t, (&User{Plan: PlanPro}).IsPro(now))
	assert.True(t, (&User{Plan: PlanFree, ProUntil: &future}).IsPro(now))
	assert.False(t, (&User{Plan: PlanFree, ProUntil: &past}).IsPro(now))
	assert.False(t, (&User{Plan: PlanFree}).IsPro(now))
}

func TestHasEntitlement(t *testing.T) {
	now := time.Now()

	pro := &User{Plan: PlanPro}
	assert.True(t, pro.HasEntitlement("theory", now))

	granted := &User{Plan: PlanFree, Entitlements: datatypes.JSONMap{"theory": true}}
	assert.True(t, granted.HasEntitlement("theory", now))
	assert.False(t, granted.HasEntitlement("other", now))

	revoked := &User{Plan: PlanFree, Entitlements: datatypes.JSONMap{"theory": false}}
	assert.False(t, revoked.HasEntitlement("theory", now))

	// Non-boolean values never grant.
	garbage := &User{Plan: PlanFree, Entitlements: datatypes.JSONMap{"theory": "yes"}}
	assert.False(t, garbage.HasEntitlement("theory", now))

	none := &User{Plan: PlanFree}
	assert.False(t, none.HasEntitlement("theory", now))
}
