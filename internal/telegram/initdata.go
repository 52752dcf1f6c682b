package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ivmel/reflecta/internal/errors"
)

// InitData holds the verified identity fields from a Telegram Web App
// init-data payload.
type InitData struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	AuthDate   int64
	QueryID    string
}

type initDataUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate parses and verifies a raw init-data string against the bot
// token using the Web App signing scheme: the payload hash must equal
// HMAC-SHA256(data-check-string, HMAC-SHA256(bot-token, "WebAppData")).
func Validate(initData, botToken string) (*InitData, error) {
	if botToken == "" {
		return nil, errors.NewAuthError("telegram auth is not configured")
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, errors.NewAuthError("malformed init data")
	}

	receivedHash := values.Get("hash")
	if receivedHash == "" {
		return nil, errors.NewAuthError("init data has no hash")
	}
	values.Del("hash")

	// Data-check-string: sorted key=value pairs joined by newlines.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	calculated := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(calculated), []byte(receivedHash)) {
		return nil, errors.NewAuthError("init data hash mismatch")
	}

	var user initDataUser
	if raw := values.Get("user"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, errors.NewAuthError("malformed init data user")
		}
	}
	if user.ID == 0 {
		return nil, errors.NewAuthError("init data has no user")
	}

	authDate, _ := strconv.ParseInt(values.Get("auth_date"), 10, 64)

	return &InitData{
		TelegramID: user.ID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		AuthDate:   authDate,
		QueryID:    values.Get("query_id"),
	}, nil
}

// Sign computes the hash for the given init-data values. It exists for
// test fixtures and local tooling; production payloads are signed by
// Telegram.
func Sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
