package models

import "time"

// User represents application user. Username and email are stored
// lowercased; uniqueness is enforced at the index level.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FullName     string `gorm:"size:64;not null" json:"fullName"`
	Username     string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// 单会话设计：每个用户只保存最近一次签发的 refresh token，
	// 旧 token 在轮换后立即失效。
	RefreshToken string `gorm:"size:512" json:"-"`

	// Password reset fields are set and cleared together; only the hash of
	// the reset token is ever stored.
	ForgotPasswordTokenHash string     `gorm:"size:64" json:"-"`
	ForgotPasswordExpiry    *time.Time `json:"-"`

	AvatarURL      string `gorm:"size:512" json:"avatarUrl,omitempty"`
	AvatarPublicID string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPendingReset reports whether a reset token is currently stored,
// expired or not.
func (u *User) HasPendingReset() bool {
	return u.ForgotPasswordTokenHash != "" && u.ForgotPasswordExpiry != nil
}
