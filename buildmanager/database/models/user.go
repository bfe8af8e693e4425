package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is an admin dashboard account. Password holds the bcrypt hash, never
// the plaintext credential.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	Password  string    `bun:"password,notnull" json:"-"`
	IsAdmin   bool      `bun:"is_admin,notnull,default:false" json:"isAdmin"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}
