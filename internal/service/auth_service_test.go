package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
		Telegram: config.TelegramConfig{BotToken: "123:test-bot-token"},
	}
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), testAuthConfig())
}

// signInitData produces a Telegram WebApp initData string valid for botToken.
func signInitData(params map[string]string, botToken string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+params[k])
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	s := newAuthService(db)

	reg, err := s.Register("User@Example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "user@example.com", reg.User.Email)
	assert.Equal(t, model.PlanFree, reg.User.Plan)

	// Password is stored hashed.
	assert.NotEqual(t, "password123", reg.User.Password)

	login, err := s.Login("user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	claims, err := util.ParseJWT(login.Token, testAuthConfig().JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	s := newAuthService(db)

	_, err := s.Register("a@example.com", "password123")
	require.NoError(t, err)

	_, err = s.Register("A@Example.com", "password456")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginWrongCredentials(t *testing.T) {
	db := newTestDB(t)
	s := newAuthService(db)

	_, err := s.Register("a@example.com", "password123")
	require.NoError(t, err)

	_, err = s.Login("a@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = s.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestTelegramLoginCreatesUser(t *testing.T) {
	db := newTestDB(t)
	s := newAuthService(db)

	res, err := s.TelegramLogin(42, "")
	require.NoError(t, err)
	assert.Equal(t, "tg-42@tg.local", res.User.Email)
	require.NotNil(t, res.User.TgUserID)
	assert.Equal(t, int64(42), *res.User.TgUserID)

	// Second login binds to the same row.
	again, err := s.TelegramLogin(42, "")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID)
}

func TestTelegramLoginValidInitData(t *testing.T) {
	db := newTestDB(t)
	s := newAuthService(db)

	initData := signInitData(map[string]string{
		"user":      `{"id":42,"first_name":"Test"}`,
		"auth_date": "1700000000",
	}, testAuthConfig().Telegram.BotToken)

	_, err := s.TelegramLogin(42, initData)
	require.NoError(t, err)
}

func TestTelegramLoginBadInitData(t *testing.T) {
	db := newTestDB(t)
	s := newAuthService(db)

	initData := signInitData(map[string]string{
		"user": `{"id":42}`,
	}, "wrong-bot-token")

	_, err := s.TelegramLogin(42, initData)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestTelegramLoginInvalidID(t *testing.T) {
	db := newTestDB(t)
	s := newAuthService(db)

	_, err := s.TelegramLogin(0, "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestTelegramLoginNoBotToken(t *testing.T) {
	db := newTestDB(t)
	cfg := testAuthConfig()
	cfg.Telegram.BotToken = ""
	s := NewAuthService(repository.NewUserRepository(db), cfg)

	// Signed initData cannot be verified without a token.
	_, err := s.TelegramLogin(42, "hash=deadbeef")
	assert.ErrorIs(t, err, util.ErrProviderUnavailable)
}
