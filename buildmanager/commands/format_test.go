package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
)

func testBuild() *models.Build {
	return &models.Build{
		ID:           7,
		Name:         "Bloodletter Ganker",
		Description:  "Fast engage, faster disengage",
		ActivityType: "Ganking",
		CommandAlias: "bloodletter-gank",
		Tier:         "T8",
		IsMeta:       true,
		Equipment: schema.Equipment{
			Weapon: schema.EquipmentPiece{Name: "Bloodletter", Tier: "T8", Quality: "Excellent"},
			Shoes:  &schema.EquipmentPiece{Name: "Soldier Boots", Tier: "T7"},
			Potion: &schema.EquipmentPiece{Name: "Poison Potion"},
		},
		Alternatives: &schema.Alternatives{
			Weapons: []schema.AlternativeItem{
				{Name: "Mistpiercer", Description: "for longer range"},
			},
		},
	}
}

func TestBuildEmbed(t *testing.T) {
	embed := BuildEmbed(testBuild(), "https://builds.example.com")

	assert.Equal(t, "Bloodletter Ganker", embed.Title)
	assert.Equal(t, "Fast engage, faster disengage", embed.Description)
	assert.Equal(t, EmbedColor, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Build ID: #7", embed.Footer.Text)

	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}

	assert.Equal(t, "Ganking", values["Activity Type"])
	assert.Equal(t, "Yes ⭐", values["Meta Build"])
	assert.Equal(t, "Bloodletter (T8 Excellent)", values["⚔️ Weapon"])
	assert.Equal(t, "Soldier Boots (T7)", values["👟 Shoes"])
	// No tier means no parenthesized suffix.
	assert.Equal(t, "Poison Potion", values["🧪 Potion"])
	assert.Equal(t, "`/build bloodletter-gank`", values["Command Usage"])
	assert.Contains(t, values["Alternative Options"], "**Weapon Alternatives**")
	assert.Contains(t, values["Alternative Options"], "• Mistpiercer - for longer range")

	// Absent slots produce no field.
	_, hasHead := values["🧢 Head"]
	assert.False(t, hasHead)
	_, hasFood := values["🍖 Food"]
	assert.False(t, hasFood)
}

func TestBuildEmbedDefaults(t *testing.T) {
	build := testBuild()
	build.Description = ""
	build.IsMeta = false
	build.ImgURL = "/uploads/abc123.png"

	embed := BuildEmbed(build, "https://builds.example.com/")

	assert.Equal(t, "No description available", embed.Description)
	require.NotNil(t, embed.Image)
	assert.Equal(t, "https://builds.example.com/uploads/abc123.png", embed.Image.URL)

	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "No", values["Meta Build"])
}

func TestBuildEmbedAbsoluteImage(t *testing.T) {
	build := testBuild()
	build.ImgURL = "https://cdn.example.com/pic.png"

	embed := BuildEmbed(build, "https://builds.example.com")

	require.NotNil(t, embed.Image)
	assert.Equal(t, "https://cdn.example.com/pic.png", embed.Image.URL)
}

func TestGroupByActivity(t *testing.T) {
	builds := []*models.Build{
		{ID: 1, Name: "A", ActivityType: "Ganking"},
		{ID: 2, Name: "B", ActivityType: "Solo PvP"},
		{ID: 3, Name: "C", ActivityType: "Ganking"},
		{ID: 4, Name: "D", ActivityType: "Mists"},
	}

	groups := groupByActivity(builds)

	require.Len(t, groups, 3)
	// Canonical activities come first, unknown ones trail.
	assert.Equal(t, "Solo PvP", groups[0].activity)
	assert.Equal(t, "Ganking", groups[1].activity)
	assert.Len(t, groups[1].builds, 2)
	assert.Equal(t, "Mists", groups[2].activity)
}

func TestBuildLines(t *testing.T) {
	lines := buildLines([]*models.Build{
		{Name: "Meta Build", CommandAlias: "meta", IsMeta: true},
		{Name: "Budget Build", CommandAlias: "budget"},
	})

	assert.Equal(t, "• **Meta Build** *(meta)* 🌟\n• **Budget Build** *(budget)*", lines)
}

func TestFindBuild(t *testing.T) {
	repo := repositories.NewMemoryBuildRepository()
	ctx := context.Background()

	in := &schema.BuildInput{
		Name:         "Bloodletter Ganker",
		ActivityType: "Ganking",
		CommandAlias: "bloodletter-gank",
		Equipment: schema.Equipment{
			Weapon: schema.EquipmentPiece{Name: "Bloodletter", Tier: "T8"},
		},
	}
	in.ApplyDefaults()
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)

	// Exact alias match.
	found, err := findBuild(ctx, repo, "bloodletter-gank")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	// Partial name match falls back to fuzzy search.
	found, err = findBuild(ctx, repo, "bloodlet")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = findBuild(ctx, repo, "xyzzy")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
