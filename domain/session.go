package domain

// DefaultLanguage is used when neither the stored preferences nor
// language detection yield a usable code.
const DefaultLanguage = "en"

// Session holds the stable identity that parameterizes one engine instance.
// UserID is minted once and persisted locally across restarts.
// DisplayLanguage may change at any time and only affects future
// translation decisions.
type Session struct {
	UserID          string `json:"user_id"`
	RoomID          RoomID `json:"room_id"`
	DisplayLanguage string `json:"display_language"`
}
