package entity

import (
	"database/sql"

	"github.com/otakuhub/backend/pkg/enum"
)

type Language string

var (
	LanguageKorean   = enum.New(Language("ko"))
	LanguageEnglish  = enum.New(Language("en"))
	LanguageJapanese = enum.New(Language("ja"))
)

const (
	AdminRole = "ADMIN"
	UserRole  = "USER"
)

type User struct {
	Base

	Username string `gorm:"unique"`
	Email    string `gorm:"unique"`

	// HashedPassword is null for users created through a federated login.
	HashedPassword sql.NullString

	// Provider and ProviderUserID identify a federated account. Both are
	// null for local accounts.
	Provider       sql.NullString `gorm:"uniqueIndex:idx_users_provider_identity"`
	ProviderUserID sql.NullString `gorm:"uniqueIndex:idx_users_provider_identity"`

	DisplayName string
	AvatarURL   string
	IsVerified  bool
	Language    Language `gorm:"default:ko"`
	Role        string   `gorm:"default:USER"`
}
