package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

type PlanType string

const (
	PlanFree PlanType = "free"
	PlanPro  PlanType = "pro"
)

// swagger:model User
type User struct {
	BaseModel
	// Email is the authentication binding. Telegram-created accounts carry a
	// pseudo address of the form tg-<id>@tg.local; RealEmail holds one the
	// user provided explicitly.
	Email     string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	RealEmail *string  `gorm:"size:255" json:"realEmail,omitempty"`
	Password  string   `gorm:"size:100" json:"-"`
	TgUserID  *int64   `gorm:"uniqueIndex" json:"tgUserId,omitempty"`
	Role      UserRole `gorm:"size:16;default:'student'" json:"role"`

	Plan         PlanType          `gorm:"size:16;default:'free'" json:"plan"`
	ProUntil     *time.Time        `json:"proUntil,omitempty"`
	Entitlements datatypes.JSONMap `json:"entitlements"`

	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// IsPro reports whether the user has pro access at the given instant. Expiry
// is evaluated at call time; a lapsed pro_until needs no batch job to take
// effect.
func (u *User) IsPro(now time.Time) bool {
	if u.Plan == PlanPro {
		return true
	}
	return u.ProUntil != nil && u.ProUntil.After(now)
}

// HasEntitlement reports whether the user may use the named feature: pro users
// get everything, otherwise the individually granted entitlement must be true.
// A missing key is false.
func (u *User) HasEntitlement(key string, now time.Time) bool {
	if u.IsPro(now) {
		return true
	}
	v, ok := u.Entitlements[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
