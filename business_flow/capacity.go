package businessflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/echoooaiglobal/echooo-backend-sub000/config"
	"github.com/echoooaiglobal/echooo-backend-sub000/repository"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/redis/go-redis/v9"
)

// AssignmentStatus describes an agent's standing toward a campaign list
type AssignmentStatus string

const (
	AssignmentStatusAvailable AssignmentStatus = "available"
	AssignmentStatusAtLimit   AssignmentStatus = "at_limit"
)

// AgentCapacity is the computed headroom of one agent for one campaign list.
// Counts are always recomputed from assigned influencer rows at decision
// time, never read from the cached counters on the agent row.
type AgentCapacity struct {
	AgentID              uint             `json:"agent_id"`
	CurrentActiveGlobal  int              `json:"current_active_global"`
	ActiveInAssignment   int              `json:"active_in_assignment"`
	AvailableCapacity    int              `json:"available_capacity"`
	CanAcceptNew         bool             `json:"can_accept_new"`
	AssignmentStatus     AssignmentStatus `json:"assignment_status"`
	ExistingAssignmentID *uint            `json:"existing_assignment_id,omitempty"`
}

// AssignmentSettings holds the two capacity ceilings
type AssignmentSettings struct {
	MaxConcurrentInfluencers    int `json:"max_concurrent_influencers"`
	MaxInfluencersPerAssignment int `json:"max_influencers_per_assignment"`
}

// SettingsProvider resolves the capacity ceilings from persisted configuration
type SettingsProvider interface {
	AssignmentSettings(ctx context.Context) (AssignmentSettings, error)
}

// CachedSettingsProviderImpl reads capacity settings from platform settings
// rows through a redis read-through cache
type CachedSettingsProviderImpl struct {
	settingRepo repository.PlatformSettingRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
	fallback    AssignmentSettings
}

// NewCachedSettingsProvider creates a new settings provider. The redis client
// may be nil, in which case every call reads from the settings repository.
// assignmentCfg supplies the ceilings used when no platform setting rows
// exist; a nil assignmentCfg falls back to the built-in constants.
func NewCachedSettingsProvider(
	settingRepo repository.PlatformSettingRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	assignmentCfg *config.AssignmentConfig,
) SettingsProvider {
	fallback := AssignmentSettings{
		MaxConcurrentInfluencers:    utils.DefaultMaxConcurrentInfluencers,
		MaxInfluencersPerAssignment: utils.DefaultMaxInfluencersPerAssignment,
	}
	if assignmentCfg != nil {
		if assignmentCfg.MaxConcurrentInfluencers > 0 {
			fallback.MaxConcurrentInfluencers = assignmentCfg.MaxConcurrentInfluencers
		}
		if assignmentCfg.MaxInfluencersPerAssignment > 0 {
			fallback.MaxInfluencersPerAssignment = assignmentCfg.MaxInfluencersPerAssignment
		}
	}
	return &CachedSettingsProviderImpl{
		settingRepo: settingRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
		fallback:    fallback,
	}
}

func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", cfg.RedisPrefix, key)
}

func (p *CachedSettingsProviderImpl) AssignmentSettings(ctx context.Context) (AssignmentSettings, error) {
	var cacheKey string
	if p.rc != nil && p.cacheConfig != nil {
		cacheKey = redisKey(*p.cacheConfig, utils.SettingsCacheKey)
		if bs, err := p.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out AssignmentSettings
			if err := json.Unmarshal(bs, &out); err == nil {
				return out, nil
			}
		}
	}

	settings := p.fallback

	row, err := p.settingRepo.ByKey(ctx, utils.SettingKeyMaxConcurrentInfluencers)
	if err != nil {
		return settings, err
	}
	if row != nil {
		settings.MaxConcurrentInfluencers = row.IntValue(p.fallback.MaxConcurrentInfluencers)
	}

	row, err = p.settingRepo.ByKey(ctx, utils.SettingKeyMaxInfluencersPerAssignment)
	if err != nil {
		return settings, err
	}
	if row != nil {
		settings.MaxInfluencersPerAssignment = row.IntValue(p.fallback.MaxInfluencersPerAssignment)
	}

	if p.rc != nil && cacheKey != "" {
		if bs, err := json.Marshal(settings); err == nil {
			_ = p.rc.Set(ctx, cacheKey, bs, utils.SettingsCacheTTL).Err()
		}
	}

	return settings, nil
}

// CapacityCalculator computes per-agent headroom under the global and
// per-assignment ceilings
type CapacityCalculator struct {
	agentAssignmentRepo    repository.AgentAssignmentRepository
	assignedInfluencerRepo repository.AssignedInfluencerRepository
	settings               SettingsProvider
}

// NewCapacityCalculator creates a new capacity calculator
func NewCapacityCalculator(
	agentAssignmentRepo repository.AgentAssignmentRepository,
	assignedInfluencerRepo repository.AssignedInfluencerRepository,
	settings SettingsProvider,
) *CapacityCalculator {
	return &CapacityCalculator{
		agentAssignmentRepo:    agentAssignmentRepo,
		assignedInfluencerRepo: assignedInfluencerRepo,
		settings:               settings,
	}
}

// Capacity resolves the current settings and computes the agent's headroom
// for the campaign list
func (c *CapacityCalculator) Capacity(ctx context.Context, agentID, campaignListID uint) (*AgentCapacity, error) {
	settings, err := c.settings.AssignmentSettings(ctx)
	if err != nil {
		return nil, err
	}
	return c.CapacityWithSettings(ctx, agentID, campaignListID, settings)
}

// CapacityWithSettings computes the agent's headroom using already resolved
// settings. The result is bounded by both ceilings and never negative:
// an agent must not be globally overloaded even when a single list could
// absorb more, and one list must not monopolize an agent with global headroom.
func (c *CapacityCalculator) CapacityWithSettings(ctx context.Context, agentID, campaignListID uint, settings AssignmentSettings) (*AgentCapacity, error) {
	globalActive, err := c.assignedInfluencerRepo.CountActiveByAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active influencers for agent %d: %w", agentID, err)
	}

	globalAvailable := settings.MaxConcurrentInfluencers - int(globalActive)

	capacity := &AgentCapacity{
		AgentID:             agentID,
		CurrentActiveGlobal: int(globalActive),
		AssignmentStatus:    AssignmentStatusAtLimit,
	}

	assignment, err := c.agentAssignmentRepo.ByAgentAndList(ctx, agentID, campaignListID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up assignment for agent %d: %w", agentID, err)
	}

	if assignment != nil {
		capacity.ExistingAssignmentID = &assignment.ID

		activeInAssignment, err := c.assignedInfluencerRepo.CountActiveByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count active influencers in assignment %d: %w", assignment.ID, err)
		}
		capacity.ActiveInAssignment = int(activeInAssignment)

		perAssignmentAvailable := settings.MaxInfluencersPerAssignment - capacity.ActiveInAssignment
		if perAssignmentAvailable > 0 {
			capacity.AvailableCapacity = min(perAssignmentAvailable, globalAvailable)
		}
	} else if globalAvailable > 0 {
		capacity.AvailableCapacity = min(settings.MaxInfluencersPerAssignment, globalAvailable)
	}

	if capacity.AvailableCapacity < 0 {
		capacity.AvailableCapacity = 0
	}
	if capacity.AvailableCapacity > 0 {
		capacity.CanAcceptNew = true
		capacity.AssignmentStatus = AssignmentStatusAvailable
	}

	return capacity, nil
}
