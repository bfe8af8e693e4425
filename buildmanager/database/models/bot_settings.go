package models

import (
	"github.com/uptrace/bun"
)

// BotSettingsID is the fixed primary key of the singleton settings row.
const BotSettingsID int64 = 1

// DefaultPrefix is used when the stored prefix is empty.
const DefaultPrefix = "/"

// BotSettings is the singleton Discord bot configuration. It is replaced
// wholesale on update, no history is kept.
type BotSettings struct {
	bun.BaseModel `bun:"table:bot_settings,alias:bs"`

	ID       int64  `bun:"id,pk" json:"-"`
	Token    string `bun:"token" json:"token"`
	ClientID string `bun:"client_id" json:"clientId"`
	GuildID  string `bun:"guild_id" json:"guildId,omitempty"`
	Prefix   string `bun:"prefix,notnull,default:'/'" json:"prefix"`
}

// Configured reports whether the settings are complete enough to start the
// Discord client.
func (s *BotSettings) Configured() bool {
	return s != nil && s.Token != "" && s.ClientID != ""
}
