package schema

// DefaultTier is applied when a build payload omits the tier.
const DefaultTier = "T8"

// ActivityTypes lists the activity categories the UI and the bot's slash
// command choices offer. The server does not reject unknown values, builds
// are only filtered by them.
var ActivityTypes = []string{
	"Solo PvP",
	"Group PvP",
	"Ganking",
	"Gathering",
	"Avalon",
	"Farming",
}

// EquipmentPiece is a single item in an equipment slot.
type EquipmentPiece struct {
	Name     string `json:"name"`
	Tier     string `json:"tier,omitempty"`
	Quality  string `json:"quality,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Equipment holds all slots of a build. The weapon slot is mandatory,
// every other slot is optional and kept as a pointer so that an absent
// slot stays distinguishable from an empty one.
type Equipment struct {
	Weapon  EquipmentPiece  `json:"weapon"`
	OffHand *EquipmentPiece `json:"offHand,omitempty"`
	Head    *EquipmentPiece `json:"head,omitempty"`
	Chest   *EquipmentPiece `json:"chest,omitempty"`
	Shoes   *EquipmentPiece `json:"shoes,omitempty"`
	Cape    *EquipmentPiece `json:"cape,omitempty"`
	Food    *EquipmentPiece `json:"food,omitempty"`
	Potion  *EquipmentPiece `json:"potion,omitempty"`
	Mount   *EquipmentPiece `json:"mount,omitempty"`
}

// AlternativeItem is one suggested replacement with an optional note.
type AlternativeItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Alternatives groups suggested replacements by category.
type Alternatives struct {
	Weapons     []AlternativeItem `json:"weapons,omitempty"`
	Armor       []AlternativeItem `json:"armor,omitempty"`
	Consumables []AlternativeItem `json:"consumables,omitempty"`
}

// BuildInput is a candidate build as submitted by a client, before the
// persistence layer assigns identity and timestamps.
type BuildInput struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	ActivityType  string        `json:"activityType"`
	CommandAlias  string        `json:"commandAlias"`
	Tier          string        `json:"tier,omitempty"`
	ImgURL        string        `json:"imgUrl,omitempty"`
	EstimatedCost string        `json:"estimatedCost,omitempty"`
	Equipment     Equipment     `json:"equipment"`
	Alternatives  *Alternatives `json:"alternatives,omitempty"`
	IsMeta        bool          `json:"isMeta,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
}

// ApplyDefaults fills fields that have a schema-level default.
func (in *BuildInput) ApplyDefaults() {
	if in.Tier == "" {
		in.Tier = DefaultTier
	}
}

// BuildUpdate is a partial build payload. A nil field means "leave
// unchanged"; a present field replaces the stored value wholesale.
type BuildUpdate struct {
	Name          *string       `json:"name,omitempty"`
	Description   *string       `json:"description,omitempty"`
	ActivityType  *string       `json:"activityType,omitempty"`
	CommandAlias  *string       `json:"commandAlias,omitempty"`
	Tier          *string       `json:"tier,omitempty"`
	ImgURL        *string       `json:"imgUrl,omitempty"`
	EstimatedCost *string       `json:"estimatedCost,omitempty"`
	Equipment     *Equipment    `json:"equipment,omitempty"`
	Alternatives  *Alternatives `json:"alternatives,omitempty"`
	IsMeta        *bool         `json:"isMeta,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
}

// BotSettingsInput is the replace-wholesale payload for the singleton bot
// configuration record.
type BotSettingsInput struct {
	Token    string `json:"token"`
	ClientID string `json:"clientId"`
	GuildID  string `json:"guildId,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
}

// UserInput is a candidate admin account.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}
