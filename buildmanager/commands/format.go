package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
)

// EmbedColor is the gold used across all bot embeds.
const EmbedColor = 0xD4AF37

var slotEmojis = map[string]string{
	"Weapon":   "⚔️",
	"Off-Hand": "🛡️",
	"Head":     "🧢",
	"Chest":    "👕",
	"Shoes":    "👟",
	"Cape":     "🧣",
	"Food":     "🍖",
	"Potion":   "🧪",
	"Mount":    "🐎",
}

// BuildEmbed renders a build the way the web UI previews it. Relative image
// paths are resolved against publicURL so Discord can fetch them.
func BuildEmbed(build *models.Build, publicURL string) discord.Embed {
	now := time.Now()

	description := build.Description
	if description == "" {
		description = "No description available"
	}

	embed := discord.Embed{
		Title:       build.Name,
		Description: description,
		Color:       EmbedColor,
		Timestamp:   &now,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Build ID: #%d", build.ID),
		},
	}

	inline := true
	embed.Fields = append(embed.Fields,
		discord.EmbedField{Name: "Activity Type", Value: build.ActivityType, Inline: &inline},
		discord.EmbedField{Name: "Meta Build", Value: metaValue(build.IsMeta), Inline: &inline},
	)
	if build.EstimatedCost != "" {
		embed.Fields = append(embed.Fields,
			discord.EmbedField{Name: "Estimated Cost", Value: build.EstimatedCost, Inline: &inline})
	}

	embed.Fields = append(embed.Fields, sectionField("Equipment"))
	embed.Fields = append(embed.Fields, equipmentField("Weapon", &build.Equipment.Weapon))
	for _, slot := range []struct {
		name  string
		piece *schema.EquipmentPiece
	}{
		{"Off-Hand", build.Equipment.OffHand},
		{"Head", build.Equipment.Head},
		{"Chest", build.Equipment.Chest},
		{"Shoes", build.Equipment.Shoes},
		{"Cape", build.Equipment.Cape},
	} {
		if slot.piece != nil {
			embed.Fields = append(embed.Fields, equipmentField(slot.name, slot.piece))
		}
	}

	if build.Equipment.Food != nil || build.Equipment.Potion != nil {
		embed.Fields = append(embed.Fields, sectionField("Consumables"))
		if build.Equipment.Food != nil {
			embed.Fields = append(embed.Fields, equipmentField("Food", build.Equipment.Food))
		}
		if build.Equipment.Potion != nil {
			embed.Fields = append(embed.Fields, equipmentField("Potion", build.Equipment.Potion))
		}
	}

	if build.Equipment.Mount != nil {
		embed.Fields = append(embed.Fields,
			sectionField("Mount"),
			equipmentField("Mount", build.Equipment.Mount))
	}

	if alt := alternativesText(build.Alternatives); alt != "" {
		embed.Fields = append(embed.Fields,
			discord.EmbedField{Name: "Alternative Options", Value: alt})
	}

	if build.ImgURL != "" {
		embed.Image = &discord.EmbedResource{URL: resolveImageURL(build.ImgURL, publicURL)}
	}

	embed.Fields = append(embed.Fields,
		discord.EmbedField{Name: "Command Usage", Value: fmt.Sprintf("`/build %s`", build.CommandAlias)})

	return embed
}

func metaValue(isMeta bool) string {
	if isMeta {
		return "Yes ⭐"
	}
	return "No"
}

func sectionField(name string) discord.EmbedField {
	return discord.EmbedField{Name: name, Value: "---------------------"}
}

// equipmentField formats a slot as "name (tier quality)".
func equipmentField(name string, piece *schema.EquipmentPiece) discord.EmbedField {
	value := piece.Name
	if piece.Tier != "" {
		value += " (" + piece.Tier
		if piece.Quality != "" {
			value += " " + piece.Quality
		}
		value += ")"
	}

	inline := true
	return discord.EmbedField{
		Name:   slotEmojis[name] + " " + name,
		Value:  value,
		Inline: &inline,
	}
}

func alternativesText(alt *schema.Alternatives) string {
	if alt == nil {
		return ""
	}

	var sb strings.Builder
	writeGroup := func(title string, items []schema.AlternativeItem) {
		if len(items) == 0 {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("**" + title + "**\n")
		for _, item := range items {
			sb.WriteString("• " + item.Name)
			if item.Description != "" {
				sb.WriteString(" - " + item.Description)
			}
			sb.WriteString("\n")
		}
	}

	writeGroup("Weapon Alternatives", alt.Weapons)
	writeGroup("Armor Alternatives", alt.Armor)
	writeGroup("Consumable Alternatives", alt.Consumables)
	return sb.String()
}

func resolveImageURL(imgURL, publicURL string) string {
	if strings.HasPrefix(imgURL, "http") {
		return imgURL
	}
	return strings.TrimSuffix(publicURL, "/") + imgURL
}
