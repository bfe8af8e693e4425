package buildmanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"

	"github.com/bfgbuilds/buildmanager/buildmanager/commands"
	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
	"github.com/bfgbuilds/buildmanager/buildmanager/logger"
)

// Bot manages the Discord client lifecycle. The client only runs while
// complete bot settings exist in the store; saving new settings through the
// web API restarts it.
type Bot struct {
	mu        sync.Mutex
	cfg       *Config
	client    bot.Client
	paginator *paginator.Manager
	builds    repositories.BuildRepository
	settings  repositories.BotSettingsRepository
}

func NewBot(cfg *Config, builds repositories.BuildRepository, settings repositories.BotSettingsRepository) *Bot {
	return &Bot{
		cfg:       cfg,
		paginator: paginator.New(),
		builds:    builds,
		settings:  settings,
	}
}

// Start reads the stored settings and connects to Discord. Missing or
// incomplete settings are not an error, the bot just stays offline until
// they are saved.
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return nil
	}

	settings, err := b.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.LogSystem("Bot settings not configured, Discord bot stays offline")
			return nil
		}
		return fmt.Errorf("failed to load bot settings: %w", err)
	}
	if !settings.Configured() {
		logger.LogSystem("Bot settings incomplete, Discord bot stays offline")
		return nil
	}

	client, err := b.setupClient(settings)
	if err != nil {
		return fmt.Errorf("failed to setup bot: %w", err)
	}

	if err = b.syncCommands(client, settings); err != nil {
		logger.LogError("Failed to sync commands", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = client.OpenGateway(openCtx); err != nil {
		client.Close(context.Background())
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	b.client = client
	return nil
}

func (b *Bot) setupClient(settings *models.BotSettings) (bot.Client, error) {
	deps := &commands.Deps{
		Builds:    b.builds,
		Paginator: b.paginator,
		PublicURL: b.cfg.Web.PublicURL,
	}

	h := handler.New()
	h.Command("/build", commands.WrapWithLogging("build", commands.BuildHandler(deps)))
	h.Autocomplete("/build", commands.BuildAutocompleteHandler(deps))
	h.Command("/builds", commands.WrapWithLogging("builds", commands.BuildsHandler(deps)))
	h.Command("/albion-help", commands.WrapWithLogging("albion-help", commands.HelpHandler(deps)))

	return disgo.New(settings.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.paginator),
		bot.WithEventListeners(h, bot.NewListenerFunc(b.onReady)),
	)
}

// syncCommands registers against the configured guild when one is set, which
// deploys instantly; global registration can take up to an hour.
func (b *Bot) syncCommands(client bot.Client, settings *models.BotSettings) error {
	var guildIDs []snowflake.ID
	if settings.GuildID != "" {
		guildID, err := snowflake.Parse(settings.GuildID)
		if err != nil {
			return fmt.Errorf("invalid guild id %q: %w", settings.GuildID, err)
		}
		guildIDs = append(guildIDs, guildID)
	}

	logger.LogSystem("Syncing commands", slog.Any("guild_ids", guildIDs))
	return handler.SyncCommands(client, commands.Commands, guildIDs)
}

func (b *Bot) onReady(event *events.Ready) {
	logger.LogSystem("Discord bot is now ready")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := event.Client().SetPresence(ctx,
		gateway.WithListeningActivity("/build"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		logger.LogError("Failed to set presence", err)
	}
}

// Stop disconnects the Discord client if it is running.
func (b *Bot) Stop(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client == nil {
		return
	}
	b.client.Close(ctx)
	b.client = nil
	logger.LogSystem("Discord bot stopped")
}

// Restart applies freshly saved settings by recycling the client.
func (b *Bot) Restart(ctx context.Context) error {
	b.Stop(ctx)
	return b.Start(ctx)
}

// Running reports whether the Discord client is connected.
func (b *Bot) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client != nil
}
