package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
)

var Build = discord.SlashCommandCreate{
	Name:        "build",
	Description: "Show an Albion Online build",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "name",
			Description:  "The name or alias of the build",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func BuildHandler(d *Deps) handler.CommandHandler {
	return func(event *handler.CommandEvent) error {
		if err := event.DeferCreateMessage(false); err != nil {
			return err
		}

		name := strings.TrimSpace(event.SlashCommandInteractionData().String("name"))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		build, err := findBuild(ctx, d.Builds, name)
		if err != nil {
			if err == repositories.ErrNotFound {
				_, err = event.CreateFollowupMessage(discord.MessageCreate{
					Content: fmt.Sprintf("No build found with name or alias: %s", name),
				})
				return err
			}
			slog.Error("Failed to look up build",
				slog.String("type", "cmd"),
				slog.String("query", name),
				slog.Any("error", err))
			_, err = event.CreateFollowupMessage(discord.MessageCreate{
				Content: "Failed to retrieve the build. Please try again later.",
			})
			return err
		}

		_, err = event.CreateFollowupMessage(discord.MessageCreate{
			Embeds: []discord.Embed{BuildEmbed(build, d.PublicURL)},
			Components: []discord.ContainerComponent{
				discord.NewActionRow(
					discord.NewLinkButton("View on Website",
						fmt.Sprintf("%s/builds/%d", strings.TrimSuffix(d.PublicURL, "/"), build.ID)),
				),
			},
		})
		return err
	}
}

// findBuild resolves the query as an exact alias first, then falls back to a
// fuzzy match over names and aliases.
func findBuild(ctx context.Context, repo repositories.BuildRepository, query string) (*models.Build, error) {
	build, err := repo.GetByAlias(ctx, query)
	if err == nil {
		return build, nil
	}
	if err != repositories.ErrNotFound {
		return nil, err
	}

	builds, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := fuzzy.FindFrom(query, buildSource(builds))
	if len(matches) == 0 {
		return nil, repositories.ErrNotFound
	}
	return builds[matches[0].Index], nil
}

// buildSource lets the fuzzy matcher rank builds by name and alias together.
type buildSource []*models.Build

func (s buildSource) Len() int { return len(s) }

func (s buildSource) String(i int) string {
	return s[i].Name + " " + s[i].CommandAlias
}

func BuildAutocompleteHandler(d *Deps) handler.AutocompleteHandler {
	return func(event *handler.AutocompleteEvent) error {
		term := strings.TrimSpace(event.Data.String("name"))

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		builds, err := d.Builds.GetAll(ctx)
		if err != nil {
			slog.Error("Failed to load builds for autocomplete",
				slog.String("type", "cmd"),
				slog.Any("error", err))
			return event.AutocompleteResult(nil)
		}

		if term != "" {
			matches := fuzzy.FindFrom(term, buildSource(builds))
			matched := make([]*models.Build, 0, len(matches))
			for _, m := range matches {
				matched = append(matched, builds[m.Index])
			}
			builds = matched
		}

		// Discord caps autocomplete at 25 choices.
		choices := make([]discord.AutocompleteChoice, 0, 25)
		for _, build := range builds {
			if len(choices) == 25 {
				break
			}
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  fmt.Sprintf("%s (%s)", build.Name, build.CommandAlias),
				Value: build.CommandAlias,
			})
		}
		return event.AutocompleteResult(choices)
	}
}
