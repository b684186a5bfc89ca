package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"errors"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Config   *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Config: cfg}
}

type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, util.ErrInvalidInput
	}

	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		Password: string(hashed),
		Plan:     model.PlanFree,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, util.ErrInvalidCredentials
	}

	return s.issue(user)
}

// TelegramLogin maps a Telegram identity onto a user row, creating it on
// first sight. When the client supplies signed initData it is verified
// against the bot token; provenance beyond the HMAC is the provider's
// responsibility.
func (s *AuthService) TelegramLogin(tgUserID int64, initData string) (*AuthResult, error) {
	if tgUserID <= 0 {
		return nil, util.ErrInvalidInput
	}

	if initData != "" {
		if s.Config.Telegram.BotToken == "" {
			return nil, util.ErrProviderUnavailable
		}
		if !verifyTelegramInitData(initData, s.Config.Telegram.BotToken) {
			return nil, util.ErrInvalidInput
		}
	}

	user, err := s.UserRepo.UpsertByTgUserID(tgUserID)
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	_ = s.UserRepo.UpdateLastLogin(user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// verifyTelegramInitData checks the WebApp initData signature: the data-check
// string is the sorted key=value lines excluding hash, keyed by
// HMAC-SHA256("WebAppData", botToken).
func verifyTelegramInitData(initData, botToken string) bool {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return false
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	checkString := strings.Join(lines, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	want := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(want), []byte(gotHash))
}
