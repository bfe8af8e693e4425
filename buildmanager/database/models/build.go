package models

import (
	"time"

	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
	"github.com/uptrace/bun"
)

// Build is a named equipment loadout for a specific in-game activity.
type Build struct {
	bun.BaseModel `bun:"table:builds,alias:b"`

	ID            int64                `bun:"id,pk,autoincrement" json:"id"`
	Name          string               `bun:"name,notnull" json:"name"`
	Description   string               `bun:"description" json:"description,omitempty"`
	ActivityType  string               `bun:"activity_type,notnull" json:"activityType"`
	CommandAlias  string               `bun:"command_alias,notnull,unique" json:"commandAlias"`
	Tier          string               `bun:"tier,notnull,default:'T8'" json:"tier"`
	ImgURL        string               `bun:"img_url" json:"imgUrl,omitempty"`
	EstimatedCost string               `bun:"estimated_cost" json:"estimatedCost,omitempty"`
	Equipment     schema.Equipment     `bun:"equipment,type:jsonb,notnull" json:"equipment"`
	Alternatives  *schema.Alternatives `bun:"alternatives,type:jsonb" json:"alternatives,omitempty"`
	IsMeta        bool                 `bun:"is_meta,notnull,default:false" json:"isMeta"`
	Tags          []string             `bun:"tags,type:jsonb" json:"tags,omitempty"`
	CreatedAt     time.Time            `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time            `bun:"updated_at,notnull" json:"updatedAt"`
}

// Clone returns a deep copy so the in-memory store never hands out aliasing
// pointers into its own state.
func (b *Build) Clone() *Build {
	cp := *b

	cloneSlot := func(p *schema.EquipmentPiece) *schema.EquipmentPiece {
		if p == nil {
			return nil
		}
		c := *p
		return &c
	}
	cp.Equipment.OffHand = cloneSlot(b.Equipment.OffHand)
	cp.Equipment.Head = cloneSlot(b.Equipment.Head)
	cp.Equipment.Chest = cloneSlot(b.Equipment.Chest)
	cp.Equipment.Shoes = cloneSlot(b.Equipment.Shoes)
	cp.Equipment.Cape = cloneSlot(b.Equipment.Cape)
	cp.Equipment.Food = cloneSlot(b.Equipment.Food)
	cp.Equipment.Potion = cloneSlot(b.Equipment.Potion)
	cp.Equipment.Mount = cloneSlot(b.Equipment.Mount)

	if b.Alternatives != nil {
		alt := schema.Alternatives{
			Weapons:     append([]schema.AlternativeItem(nil), b.Alternatives.Weapons...),
			Armor:       append([]schema.AlternativeItem(nil), b.Alternatives.Armor...),
			Consumables: append([]schema.AlternativeItem(nil), b.Alternatives.Consumables...),
		}
		cp.Alternatives = &alt
	}
	if b.Tags != nil {
		cp.Tags = append([]string(nil), b.Tags...)
	}
	return &cp
}
