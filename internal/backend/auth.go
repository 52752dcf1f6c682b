package backend

import "net/http"

// Header names understood by the reflection backend.
const (
	HeaderTelegramInitData = "X-Telegram-Init-Data"
	HeaderGuestUserID      = "X-Guest-User-Id"
)

// Auth carries the caller's credentials for outbound backend requests.
// Telegram init data wins over the guest id when both are present.
type Auth struct {
	InitData string
	GuestID  string
}

// Apply sets the auth headers on an outbound request.
func (a Auth) Apply(req *http.Request) {
	if a.InitData != "" {
		req.Header.Set(HeaderTelegramInitData, a.InitData)
		return
	}
	if a.GuestID != "" {
		req.Header.Set(HeaderGuestUserID, a.GuestID)
	}
}

// IsZero reports whether no credentials are present at all.
func (a Auth) IsZero() bool {
	return a.InitData == "" && a.GuestID == ""
}
