package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
)

// MemoryBuildRepository keeps builds in a map. It backs the "memory" storage
// mode and the test suites, honoring the same contract as the Postgres
// implementation.
type MemoryBuildRepository struct {
	mu     sync.RWMutex
	builds map[int64]*models.Build
	nextID int64
}

func NewMemoryBuildRepository() *MemoryBuildRepository {
	return &MemoryBuildRepository{
		builds: make(map[int64]*models.Build),
		nextID: 1,
	}
}

func (r *MemoryBuildRepository) GetAll(_ context.Context) ([]*models.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	builds := make([]*models.Build, 0, len(r.builds))
	for _, b := range r.builds {
		builds = append(builds, b.Clone())
	}
	sort.Slice(builds, func(i, j int) bool { return builds[i].ID < builds[j].ID })
	return builds, nil
}

func (r *MemoryBuildRepository) GetByID(_ context.Context, id int64) (*models.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	build, ok := r.builds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return build.Clone(), nil
}

func (r *MemoryBuildRepository) GetByAlias(_ context.Context, alias string) (*models.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, build := range r.builds {
		if build.CommandAlias == alias {
			return build.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryBuildRepository) GetByActivityType(_ context.Context, activityType string) ([]*models.Build, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var builds []*models.Build
	for _, build := range r.builds {
		if build.ActivityType == activityType {
			builds = append(builds, build.Clone())
		}
	}
	sort.Slice(builds, func(i, j int) bool { return builds[i].ID < builds[j].ID })
	return builds, nil
}

func (r *MemoryBuildRepository) Create(_ context.Context, in *schema.BuildInput) (*models.Build, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, build := range r.builds {
		if build.CommandAlias == in.CommandAlias {
			return nil, ErrAliasTaken
		}
	}

	now := time.Now()
	build := &models.Build{
		ID:            r.nextID,
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
	r.nextID++
	r.builds[build.ID] = build
	return build.Clone(), nil
}

func (r *MemoryBuildRepository) Update(_ context.Context, id int64, upd *schema.BuildUpdate) (*models.Build, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	build, ok := r.builds[id]
	if !ok {
		return nil, ErrNotFound
	}

	if upd.CommandAlias != nil && *upd.CommandAlias != build.CommandAlias {
		for _, other := range r.builds {
			if other.ID != id && other.CommandAlias == *upd.CommandAlias {
				return nil, ErrAliasTaken
			}
		}
	}

	updated := build.Clone()
	applyBuildUpdate(updated, upd)
	updated.UpdatedAt = time.Now()
	r.builds[id] = updated
	return updated.Clone(), nil
}

func (r *MemoryBuildRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.builds[id]; !ok {
		return false, nil
	}
	delete(r.builds, id)
	return true, nil
}

// MemoryUserRepository is the in-memory counterpart of the users table.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	nextID int64
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[int64]*models.User),
		nextID: 1,
	}
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Create(_ context.Context, in *schema.UserInput) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == in.Username {
			return nil, ErrUsernameTaken
		}
	}

	now := time.Now()
	user := &models.User{
		ID:        r.nextID,
		Username:  in.Username,
		Password:  in.Password,
		IsAdmin:   in.IsAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.users[user.ID] = user
	cp := *user
	return &cp, nil
}

// MemoryBotSettingsRepository holds the singleton settings record.
type MemoryBotSettingsRepository struct {
	mu       sync.RWMutex
	settings *models.BotSettings
}

func NewMemoryBotSettingsRepository() *MemoryBotSettingsRepository {
	return &MemoryBotSettingsRepository{}
}

func (r *MemoryBotSettingsRepository) Get(_ context.Context) (*models.BotSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, ErrNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *MemoryBotSettingsRepository) Upsert(_ context.Context, in *schema.BotSettingsInput) (*models.BotSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = settingsFromInput(in)
	cp := *r.settings
	return &cp, nil
}
