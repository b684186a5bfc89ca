package repository

import (
	"english_edu_backend/internal/model"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByTgUserID(tgUserID int64) (*model.User, error) {
	var user model.User
	err := r.DB.Where("tg_user_id = ?", tgUserID).First(&user).Error
	return &user, err
}

// UpsertByTgUserID returns the user bound to the Telegram id, creating it on
// first authentication. Concurrent first logins race on the unique tg_user_id
// index; the loser's insert is a no-op and the row is re-read.
func (r *UserRepository) UpsertByTgUserID(tgUserID int64) (*model.User, error) {
	user, err := r.FindByTgUserID(tgUserID)
	if err == nil {
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	fresh := &model.User{
		Email:    fmt.Sprintf("tg-%d@tg.local", tgUserID),
		TgUserID: &tgUserID,
		Plan:     model.PlanFree,
	}
	err = r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tg_user_id"}},
		DoNothing: true,
	}).Create(fresh).Error
	if err != nil {
		return nil, err
	}

	return r.FindByTgUserID(tgUserID)
}

func (r *UserRepository) Save(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

// SetPlanTx applies a plan mutation inside the caller's transaction. ProUntil
// nil clears the expiry.
func (r *UserRepository) SetPlanTx(tx *gorm.DB, userID uint, plan model.PlanType, proUntil *time.Time) error {
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"plan":      plan,
			"pro_until": proUntil,
		}).Error
}
