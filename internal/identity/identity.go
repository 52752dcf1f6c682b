package identity

import (
	"fmt"

	"github.com/ivmel/reflecta/internal/backend"
)

// Identity is the resolved caller: either a verified Telegram user or a
// locally issued guest. The key scopes all local storage; the auth form
// is forwarded to the backend.
type Identity struct {
	TelegramID int64
	GuestID    string
	// InitData is the raw signed payload, kept so backend requests can
	// re-present it unchanged.
	InitData string
}

// IsGuest reports whether the caller has no verified Telegram identity.
func (id Identity) IsGuest() bool {
	return id.TelegramID == 0
}

// Key returns the stable local-storage key for this caller.
func (id Identity) Key() string {
	if id.TelegramID != 0 {
		return fmt.Sprintf("tg:%d", id.TelegramID)
	}
	return "guest:" + id.GuestID
}

// Auth returns the outbound credential form for backend requests.
func (id Identity) Auth() backend.Auth {
	return backend.Auth{InitData: id.InitData, GuestID: id.GuestID}
}
