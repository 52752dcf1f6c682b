package telegram_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivmel/reflecta/internal/telegram"
)

const testBotToken = "12345:TEST-TOKEN"

func signedInitData(t *testing.T, user string) string {
	t.Helper()
	values := url.Values{}
	values.Set("auth_date", "1735689600")
	values.Set("query_id", "AAE1")
	values.Set("user", user)
	values.Set("hash", telegram.Sign(values, testBotToken))
	return values.Encode()
}

func TestValidate_ValidPayload(t *testing.T) {
	raw := signedInitData(t, `{"id":987654321,"username":"anna","first_name":"Anna","last_name":"K"}`)

	data, err := telegram.Validate(raw, testBotToken)
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), data.TelegramID)
	assert.Equal(t, "anna", data.Username)
	assert.Equal(t, "Anna", data.FirstName)
	assert.Equal(t, "K", data.LastName)
	assert.Equal(t, int64(1735689600), data.AuthDate)
	assert.Equal(t, "AAE1", data.QueryID)
}

func TestValidate_TamperedPayload(t *testing.T) {
	raw := signedInitData(t, `{"id":987654321,"username":"anna"}`)

	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	values.Set("user", `{"id":1,"username":"mallory"}`)

	_, err = telegram.Validate(values.Encode(), testBotToken)
	assert.Error(t, err)
}

func TestValidate_WrongToken(t *testing.T) {
	raw := signedInitData(t, `{"id":987654321}`)

	_, err := telegram.Validate(raw, "99999:OTHER-TOKEN")
	assert.Error(t, err)
}

func TestValidate_MissingHash(t *testing.T) {
	values := url.Values{}
	values.Set("auth_date", "1735689600")
	values.Set("user", `{"id":987654321}`)

	_, err := telegram.Validate(values.Encode(), testBotToken)
	assert.Error(t, err)
}

func TestValidate_MissingUser(t *testing.T) {
	values := url.Values{}
	values.Set("auth_date", "1735689600")
	values.Set("hash", telegram.Sign(values, testBotToken))

	_, err := telegram.Validate(values.Encode(), testBotToken)
	assert.Error(t, err)
}

func TestValidate_EmptyBotToken(t *testing.T) {
	raw := signedInitData(t, `{"id":987654321}`)

	_, err := telegram.Validate(raw, "")
	assert.Error(t, err)
}
