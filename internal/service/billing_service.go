package service

import (
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"english_edu_backend/pkg/logger"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillingService applies plan mutations announced by the external billing
// provider. Grants are idempotent: each one is keyed by the provider charge
// id, and a redelivery changes nothing.
type BillingService struct {
	UserRepo *repository.UserRepository
	DB       *gorm.DB
}

func NewBillingService(userRepo *repository.UserRepository, db *gorm.DB) *BillingService {
	return &BillingService{UserRepo: userRepo, DB: db}
}

type PlanGrant struct {
	UserID   *uint
	TgUserID *int64
	ChargeID string
	Plan     model.PlanType
	ProUntil *time.Time
	Payload  datatypes.JSON
}

// ApplyGrant records the payment event and mutates the user's plan in one
// transaction. Returns false when the charge id was already seen.
func (s *BillingService) ApplyGrant(grant PlanGrant) (bool, error) {
	if grant.Plan != model.PlanFree && grant.Plan != model.PlanPro {
		return false, util.ErrInvalidInput
	}

	user, err := s.resolveUser(grant)
	if err != nil {
		return false, err
	}

	chargeID := grant.ChargeID
	if chargeID == "" {
		// Admin-originated grants have no provider charge; synthesize one so
		// the event is still recorded.
		chargeID = "admin-" + uuid.NewString()
	}

	applied := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		event := &model.PaymentEvent{
			ProviderChargeID: chargeID,
			UserID:           user.ID,
			Plan:             grant.Plan,
			ProUntil:         grant.ProUntil,
			Payload:          grant.Payload,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_charge_id"}},
			DoNothing: true,
		}).Create(event)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Duplicate delivery; the grant was already applied.
			return nil
		}
		applied = true

		return s.UserRepo.SetPlanTx(tx, user.ID, grant.Plan, grant.ProUntil)
	})
	if err != nil {
		return false, err
	}

	if applied {
		logger.Log.Info("plan grant applied",
			zap.Uint("user_id", user.ID),
			zap.String("plan", string(grant.Plan)),
			zap.String("charge_id", chargeID),
		)
	}
	return applied, nil
}

// SetEntitlement grants or revokes a single feature entitlement.
func (s *BillingService) SetEntitlement(userID uint, key string, granted bool) (*model.User, error) {
	if key == "" {
		return nil, util.ErrInvalidInput
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if user.Entitlements == nil {
		user.Entitlements = map[string]interface{}{}
	}
	user.Entitlements[key] = granted

	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *BillingService) resolveUser(grant PlanGrant) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch {
	case grant.UserID != nil:
		user, err = s.UserRepo.FindByID(*grant.UserID)
	case grant.TgUserID != nil:
		user, err = s.UserRepo.FindByTgUserID(*grant.TgUserID)
	default:
		return nil, util.ErrInvalidInput
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
