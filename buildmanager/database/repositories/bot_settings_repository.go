package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
	"github.com/uptrace/bun"
)

type BotSettingsRepository interface {
	// Get returns the singleton settings record, or ErrNotFound when it has
	// never been configured.
	Get(ctx context.Context) (*models.BotSettings, error)
	// Upsert replaces the singleton record wholesale.
	Upsert(ctx context.Context, in *schema.BotSettingsInput) (*models.BotSettings, error)
}

type botSettingsRepository struct {
	db *bun.DB
}

func NewBotSettingsRepository(db *bun.DB) BotSettingsRepository {
	return &botSettingsRepository{db: db}
}

func (r *botSettingsRepository) Get(ctx context.Context) (*models.BotSettings, error) {
	settings := new(models.BotSettings)
	err := r.db.NewSelect().
		Model(settings).
		Where("id = ?", models.BotSettingsID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return settings, nil
}

func (r *botSettingsRepository) Upsert(ctx context.Context, in *schema.BotSettingsInput) (*models.BotSettings, error) {
	settings := settingsFromInput(in)

	_, err := r.db.NewInsert().
		Model(settings).
		On("CONFLICT (id) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("client_id = EXCLUDED.client_id").
		Set("guild_id = EXCLUDED.guild_id").
		Set("prefix = EXCLUDED.prefix").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func settingsFromInput(in *schema.BotSettingsInput) *models.BotSettings {
	prefix := in.Prefix
	if prefix == "" {
		prefix = models.DefaultPrefix
	}
	return &models.BotSettings{
		ID:       models.BotSettingsID,
		Token:    in.Token,
		ClientID: in.ClientID,
		GuildID:  in.GuildID,
		Prefix:   prefix,
	}
}
