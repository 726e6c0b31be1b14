package models

import "time"

// User is a telegram chat that talked to the bot
type User struct {
	ID        int64     `db:"id"`
	Username  *string   `db:"username"`
	FirstName *string   `db:"first_name"`
	LastName  *string   `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
	LastSeen  time.Time `db:"last_seen"`
}

// StorageEntry is one key of the per chat client storage
type StorageEntry struct {
	UserID    int64     `db:"user_id"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BrowseLocation is the persisted query string of a chat's browse view
type BrowseLocation struct {
	UserID    int64     `db:"user_id"`
	View      string    `db:"view"`
	RawQuery  string    `db:"raw_query"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	ViewBrowse        = "browse"
	ViewAdminListings = "admin_listings"
	ViewAdminUsers    = "admin_users"
)

// NewUser builds a chat row from telegram profile fields, empty ones stay NULL
func NewUser(id int64, username, firstName, lastName string) *User {
	return &User{
		ID:        id,
		Username:  optional(username),
		FirstName: optional(firstName),
		LastName:  optional(lastName),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
