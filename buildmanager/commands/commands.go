package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/paginator"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
)

// Commands lists every slash command the bot registers.
var Commands = []discord.ApplicationCommandCreate{
	Build,
	Builds,
	Help,
}

// Deps carries what the command handlers need. Handlers are constructed per
// bot start, the repositories outlive the Discord client.
type Deps struct {
	Builds    repositories.BuildRepository
	Paginator *paginator.Manager
	// PublicURL resolves relative upload paths into embed image links.
	PublicURL string
}
