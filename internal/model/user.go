package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	Username          string     `json:"username" db:"username"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	Bio               string     `json:"bio" db:"bio"`
	AvatarURL         string     `json:"avatar_url" db:"avatar_url"`
	Active            bool       `json:"active" db:"active"`
	NotificationPrefs JSONMap    `json:"notification_preferences" db:"notification_preferences"`
	LastSeenAt        *time.Time `json:"last_seen_at,omitempty" db:"last_seen_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName prefers the username and falls back to the full name.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.FullName()
}

func (u *User) Online() bool {
	return u.LastSeenAt != nil && time.Since(*u.LastSeenAt) < 15*time.Minute
}

// PushEnabled reports whether the user accepts push notifications. Push is
// opt-out: only an explicit false in the preferences map disables it.
func (u *User) PushEnabled() bool {
	if u.NotificationPrefs == nil {
		return true
	}
	v, ok := u.NotificationPrefs["push_notifications"]
	if !ok {
		return true
	}
	enabled, ok := v.(bool)
	return !ok || enabled
}

func (u *User) ProfilePath() string {
	return "/users/" + u.Username
}
