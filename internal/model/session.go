package model

import "time"

// Session is the durable server-side login record, persisted in the local
// SQLite file so logins survive process restarts. Token is the JWT jti;
// deleting the row revokes the token.
type Session struct {
	Token      string    `gorm:"primaryKey;size:64" json:"-"`
	UserID     int64     `gorm:"index" json:"user_id"`
	Username   string    `gorm:"size:255" json:"username"`
	Role       string    `gorm:"size:50" json:"role"`
	Name       string    `gorm:"size:255" json:"name"`
	Email      string    `gorm:"size:255" json:"email"`
	StoreToken string    `gorm:"size:1024" json:"-"` // bearer forwarded to the data store, if any
	ExpiresAt  time.Time `gorm:"index" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity returns the request principal captured at login.
func (s *Session) Identity() Identity {
	return Identity{
		ID:       s.UserID,
		Username: s.Username,
		Role:     s.Role,
		Name:     s.Name,
		Email:    s.Email,
	}
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
