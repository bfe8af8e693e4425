package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
)

// singleEmbedLimit is the build count above which the listing switches from
// one embed to an activity-per-page paginator.
const singleEmbedLimit = 15

var Builds = discord.SlashCommandCreate{
	Name:        "builds",
	Description: "List available Albion Online builds",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "activity",
			Description: "Filter builds by activity type",
			Required:    false,
			Choices:     activityChoices(),
		},
	},
}

func activityChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(schema.ActivityTypes))
	for _, activity := range schema.ActivityTypes {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  activity,
			Value: activity,
		})
	}
	return choices
}

func BuildsHandler(d *Deps) handler.CommandHandler {
	return func(event *handler.CommandEvent) error {
		activity, _ := event.SlashCommandInteractionData().OptString("activity")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var builds []*models.Build
		var err error
		if activity != "" {
			builds, err = d.Builds.GetByActivityType(ctx, activity)
		} else {
			builds, err = d.Builds.GetAll(ctx)
		}
		if err != nil {
			slog.Error("Failed to list builds",
				slog.String("type", "cmd"),
				slog.String("activity", activity),
				slog.Any("error", err))
			return event.CreateMessage(discord.MessageCreate{
				Content: "Failed to retrieve builds. Please try again later.",
			})
		}

		if len(builds) == 0 {
			msg := "No builds found"
			if activity != "" {
				msg += " for activity: " + activity
			}
			return event.CreateMessage(discord.MessageCreate{Content: msg})
		}

		groups := groupByActivity(builds)

		if len(builds) <= singleEmbedLimit {
			return event.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{buildListEmbed(activity, groups)},
			})
		}

		return d.Paginator.Create(event.Respond, paginator.Pages{
			ID:      event.ID().String(),
			Creator: event.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				group := groups[page]
				embed.
					SetTitle(listTitle(activity)).
					SetDescription("Use `/build <name>` to view details of a specific build").
					SetColor(EmbedColor).
					AddField(group.activity, buildLines(group.builds), false).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, len(groups)), "")
			},
			Pages:      len(groups),
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

type activityGroup struct {
	activity string
	builds   []*models.Build
}

// groupByActivity buckets builds by activity, keeping the canonical activity
// order first and unknown activities after in encounter order.
func groupByActivity(builds []*models.Build) []activityGroup {
	byActivity := make(map[string][]*models.Build)
	var order []string
	for _, activity := range schema.ActivityTypes {
		order = append(order, activity)
	}
	for _, build := range builds {
		if _, known := byActivity[build.ActivityType]; !known {
			found := false
			for _, activity := range order {
				if activity == build.ActivityType {
					found = true
					break
				}
			}
			if !found {
				order = append(order, build.ActivityType)
			}
		}
		byActivity[build.ActivityType] = append(byActivity[build.ActivityType], build)
	}

	groups := make([]activityGroup, 0, len(byActivity))
	for _, activity := range order {
		if buildsFor, ok := byActivity[activity]; ok {
			groups = append(groups, activityGroup{activity: activity, builds: buildsFor})
		}
	}
	return groups
}

func listTitle(activity string) string {
	title := "Albion Online Builds"
	if activity != "" {
		title += " for " + activity
	}
	return title
}

func buildListEmbed(activity string, groups []activityGroup) discord.Embed {
	now := time.Now()
	embed := discord.Embed{
		Title:       listTitle(activity),
		Description: "Use `/build <name>` to view details of a specific build",
		Color:       EmbedColor,
		Timestamp:   &now,
	}
	for _, group := range groups {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  group.activity,
			Value: buildLines(group.builds),
		})
	}
	return embed
}

func buildLines(builds []*models.Build) string {
	lines := make([]string, 0, len(builds))
	for _, build := range builds {
		line := fmt.Sprintf("• **%s** *(%s)*", build.Name, build.CommandAlias)
		if build.IsMeta {
			line += " 🌟"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
