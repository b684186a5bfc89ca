package model

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentEvent records one billing-provider notification. The unique charge id
// makes plan grants idempotent: a redelivered webhook inserts nothing and
// applies nothing.
type PaymentEvent struct {
	BaseModel
	ProviderChargeID string         `gorm:"size:191;not null;uniqueIndex" json:"providerChargeId"`
	UserID           uint           `gorm:"not null;index" json:"userId"`
	Plan             PlanType       `gorm:"size:16;not null" json:"plan"`
	ProUntil         *time.Time     `json:"proUntil,omitempty"`
	Payload          datatypes.JSON `json:"payload,omitempty"`
}

func (PaymentEvent) TableName() string {
	return "payment_events"
}
