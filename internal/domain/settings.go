package domain

// Theme enumerates the UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UserSettings holds per-user preference flags keyed by principal email.
type UserSettings struct {
	Email              string `json:"email"`
	Theme              Theme  `json:"theme"`
	EmailNotifications bool   `json:"emailNotifications"`
	AutoRefresh        bool   `json:"autoRefresh"`
	ShowClosed         bool   `json:"showClosed"`
}

// DefaultSettings returns the preference defaults applied before a user
// saves anything: light theme, auto-refresh on, notifications off.
func DefaultSettings(email string) UserSettings {
	return UserSettings{
		Email:       email,
		Theme:       ThemeLight,
		AutoRefresh: true,
	}
}
