package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Help = discord.SlashCommandCreate{
	Name:        "albion-help",
	Description: "Show help information for the Albion Online Bot",
}

func HelpHandler(_ *Deps) handler.CommandHandler {
	return func(event *handler.CommandEvent) error {
		return event.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "Albion Online Bot - Help",
				Color:       EmbedColor,
				Description: "The Albion Online Bot provides equipment builds and recommendations for various activities in Albion Online.",
				Fields: []discord.EmbedField{
					{Name: "/build <name>", Value: "Show a specific build by its name or alias"},
					{Name: "/builds [activity]", Value: "List all available builds, optionally filtered by activity type"},
					{Name: "/albion-help", Value: "Show this help message"},
				},
				Footer: &discord.EmbedFooter{
					Text: "Managed through the Albion Online Bot web interface",
				},
			}},
		})
	}
}
