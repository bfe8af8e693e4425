package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/logger"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
	"github.com/uptrace/bun"
)

// BuildRepository is the persistence contract for builds. Two
// implementations exist: the bun/Postgres one below and the in-memory one in
// memory.go, used by tests and the memory storage mode.
type BuildRepository interface {
	GetAll(ctx context.Context) ([]*models.Build, error)
	GetByID(ctx context.Context, id int64) (*models.Build, error)
	GetByAlias(ctx context.Context, alias string) (*models.Build, error)
	GetByActivityType(ctx context.Context, activityType string) ([]*models.Build, error)
	Create(ctx context.Context, in *schema.BuildInput) (*models.Build, error)
	Update(ctx context.Context, id int64, upd *schema.BuildUpdate) (*models.Build, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type buildRepository struct {
	db *bun.DB
}

func NewBuildRepository(db *bun.DB) BuildRepository {
	return &buildRepository{db: db}
}

func (r *buildRepository) GetAll(ctx context.Context) ([]*models.Build, error) {
	var builds []*models.Build
	err := r.db.NewSelect().
		Model(&builds).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		logger.LogError("Database error when listing builds", err,
			slog.String("operation", "GetAll"))
		return nil, err
	}
	return builds, nil
}

func (r *buildRepository) GetByID(ctx context.Context, id int64) (*models.Build, error) {
	build := new(models.Build)
	err := r.db.NewSelect().
		Model(build).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return build, nil
}

func (r *buildRepository) GetByAlias(ctx context.Context, alias string) (*models.Build, error) {
	build := new(models.Build)
	err := r.db.NewSelect().
		Model(build).
		Where("command_alias = ?", alias).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return build, nil
}

func (r *buildRepository) GetByActivityType(ctx context.Context, activityType string) ([]*models.Build, error) {
	var builds []*models.Build
	err := r.db.NewSelect().
		Model(&builds).
		Where("activity_type = ?", activityType).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return builds, nil
}

func (r *buildRepository) Create(ctx context.Context, in *schema.BuildInput) (*models.Build, error) {
	if _, err := r.GetByAlias(ctx, in.CommandAlias); err == nil {
		return nil, ErrAliasTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	build := &models.Build{
		Name:          in.Name,
		Description:   in.Description,
		ActivityType:  in.ActivityType,
		CommandAlias:  in.CommandAlias,
		Tier:          in.Tier,
		ImgURL:        in.ImgURL,
		EstimatedCost: in.EstimatedCost,
		Equipment:     in.Equipment,
		Alternatives:  in.Alternatives,
		IsMeta:        in.IsMeta,
		Tags:          in.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := r.db.NewInsert().Model(build).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAliasTaken
		}
		logger.LogError("Database error when creating build", err,
			slog.String("operation", "Create"),
			slog.String("command_alias", in.CommandAlias))
		return nil, err
	}
	return build, nil
}

func (r *buildRepository) Update(ctx context.Context, id int64, upd *schema.BuildUpdate) (*models.Build, error) {
	build, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.CommandAlias != nil && *upd.CommandAlias != build.CommandAlias {
		if other, err := r.GetByAlias(ctx, *upd.CommandAlias); err == nil && other.ID != id {
			return nil, ErrAliasTaken
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	applyBuildUpdate(build, upd)
	build.UpdatedAt = time.Now()

	if _, err := r.db.NewUpdate().Model(build).WherePK().Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAliasTaken
		}
		return nil, err
	}
	return build, nil
}

func (r *buildRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*models.Build)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// applyBuildUpdate merges a partial payload onto an existing record. Present
// fields replace the stored value wholesale, matching the dashboard's
// top-level merge semantics.
func applyBuildUpdate(build *models.Build, upd *schema.BuildUpdate) {
	if upd.Name != nil {
		build.Name = *upd.Name
	}
	if upd.Description != nil {
		build.Description = *upd.Description
	}
	if upd.ActivityType != nil {
		build.ActivityType = *upd.ActivityType
	}
	if upd.CommandAlias != nil {
		build.CommandAlias = *upd.CommandAlias
	}
	if upd.Tier != nil {
		build.Tier = *upd.Tier
	}
	if upd.ImgURL != nil {
		build.ImgURL = *upd.ImgURL
	}
	if upd.EstimatedCost != nil {
		build.EstimatedCost = *upd.EstimatedCost
	}
	if upd.Equipment != nil {
		build.Equipment = *upd.Equipment
	}
	if upd.Alternatives != nil {
		build.Alternatives = upd.Alternatives
	}
	if upd.IsMeta != nil {
		build.IsMeta = *upd.IsMeta
	}
	if upd.Tags != nil {
		build.Tags = upd.Tags
	}
}
