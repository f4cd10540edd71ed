package businessflow

import (
	"context"
	"testing"

	"github.com/echoooaiglobal/echooo-backend-sub000/config"
	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityWithSettings(t *testing.T) {
	ctx := context.Background()
	settings := AssignmentSettings{
		MaxConcurrentInfluencers:    10,
		MaxInfluencersPerAssignment: 4,
	}

	t.Run("fresh agent without assignment gets the per-list ceiling", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		agent := env.addAgent("fresh", nil, false, true)

		capacity, err := env.capacity.CapacityWithSettings(ctx, agent.ID, list.ID, settings)
		require.NoError(t, err)

		assert.Equal(t, 0, capacity.CurrentActiveGlobal)
		assert.Equal(t, 4, capacity.AvailableCapacity)
		assert.True(t, capacity.CanAcceptNew)
		assert.Equal(t, AssignmentStatusAvailable, capacity.AssignmentStatus)
		assert.Nil(t, capacity.ExistingAssignmentID)
	})

	t.Run("headroom is the smaller of the two ceilings", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		other := env.addCampaignList(1, "summer")
		agent := env.addAgent("busy", nil, false, true)

		// 8 of 10 global slots taken on another list; the per-list
		// ceiling of 4 must shrink to the 2 global slots left.
		assignment := env.addAssignment(agent.ID, other.ID)
		for _, inf := range env.addInfluencers(other.ID, 8) {
			env.addAssigned(assignment.ID, inf.ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)
		}

		capacity, err := env.capacity.CapacityWithSettings(ctx, agent.ID, list.ID, settings)
		require.NoError(t, err)

		assert.Equal(t, 8, capacity.CurrentActiveGlobal)
		assert.Equal(t, 2, capacity.AvailableCapacity)
		assert.True(t, capacity.CanAcceptNew)
	})

	t.Run("existing assignment at its limit cannot accept more", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		agent := env.addAgent("full", nil, false, true)

		assignment := env.addAssignment(agent.ID, list.ID)
		for _, inf := range env.addInfluencers(list.ID, 4) {
			env.addAssigned(assignment.ID, inf.ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)
		}

		capacity, err := env.capacity.CapacityWithSettings(ctx, agent.ID, list.ID, settings)
		require.NoError(t, err)

		require.NotNil(t, capacity.ExistingAssignmentID)
		assert.Equal(t, assignment.ID, *capacity.ExistingAssignmentID)
		assert.Equal(t, 4, capacity.ActiveInAssignment)
		assert.Zero(t, capacity.AvailableCapacity)
		assert.False(t, capacity.CanAcceptNew)
		assert.Equal(t, AssignmentStatusAtLimit, capacity.AssignmentStatus)
	})

	t.Run("archived rows free their capacity", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		agent := env.addAgent("recycled", nil, false, true)

		assignment := env.addAssignment(agent.ID, list.ID)
		influencers := env.addInfluencers(list.ID, 4)
		for _, inf := range influencers[:3] {
			env.addAssigned(assignment.ID, inf.ID, models.AssignmentTypeArchived, models.AssignedStatusAssigned, 0)
		}
		env.addAssigned(assignment.ID, influencers[3].ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)

		capacity, err := env.capacity.CapacityWithSettings(ctx, agent.ID, list.ID, settings)
		require.NoError(t, err)

		assert.Equal(t, 1, capacity.CurrentActiveGlobal)
		assert.Equal(t, 1, capacity.ActiveInAssignment)
		assert.Equal(t, 3, capacity.AvailableCapacity)
	})

	t.Run("globally saturated agent has zero headroom even on a fresh list", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		other := env.addCampaignList(1, "summer")
		agent := env.addAgent("saturated", nil, false, true)

		assignment := env.addAssignment(agent.ID, other.ID)
		for _, inf := range env.addInfluencers(other.ID, 10) {
			env.addAssigned(assignment.ID, inf.ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)
		}

		capacity, err := env.capacity.CapacityWithSettings(ctx, agent.ID, list.ID, settings)
		require.NoError(t, err)

		assert.Zero(t, capacity.AvailableCapacity)
		assert.False(t, capacity.CanAcceptNew)
		assert.Equal(t, AssignmentStatusAtLimit, capacity.AssignmentStatus)
	})
}

func TestCachedSettingsProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to defaults when no rows exist", func(t *testing.T) {
		env := newFakeEnv()
		provider := NewCachedSettingsProvider(env.settingRows, nil, nil, nil)

		settings, err := provider.AssignmentSettings(ctx)
		require.NoError(t, err)

		assert.Equal(t, utils.DefaultMaxConcurrentInfluencers, settings.MaxConcurrentInfluencers)
		assert.Equal(t, utils.DefaultMaxInfluencersPerAssignment, settings.MaxInfluencersPerAssignment)
	})

	t.Run("reads persisted ceilings", func(t *testing.T) {
		env := newFakeEnv()
		require.NoError(t, env.settingRows.Upsert(ctx, utils.SettingKeyMaxConcurrentInfluencers, "150", "int"))
		require.NoError(t, env.settingRows.Upsert(ctx, utils.SettingKeyMaxInfluencersPerAssignment, "25", "int"))

		provider := NewCachedSettingsProvider(env.settingRows, nil, nil, nil)
		settings, err := provider.AssignmentSettings(ctx)
		require.NoError(t, err)

		assert.Equal(t, 150, settings.MaxConcurrentInfluencers)
		assert.Equal(t, 25, settings.MaxInfluencersPerAssignment)
	})

	t.Run("unparseable values fall back per key", func(t *testing.T) {
		env := newFakeEnv()
		require.NoError(t, env.settingRows.Upsert(ctx, utils.SettingKeyMaxConcurrentInfluencers, "not-a-number", "int"))
		require.NoError(t, env.settingRows.Upsert(ctx, utils.SettingKeyMaxInfluencersPerAssignment, "30", "int"))

		provider := NewCachedSettingsProvider(env.settingRows, nil, nil, nil)
		settings, err := provider.AssignmentSettings(ctx)
		require.NoError(t, err)

		assert.Equal(t, utils.DefaultMaxConcurrentInfluencers, settings.MaxConcurrentInfluencers)
		assert.Equal(t, 30, settings.MaxInfluencersPerAssignment)
	})

	t.Run("configured ceilings replace defaults when no rows exist", func(t *testing.T) {
		env := newFakeEnv()
		assignmentCfg := &config.AssignmentConfig{
			MaxConcurrentInfluencers:    7,
			MaxInfluencersPerAssignment: 3,
		}

		provider := NewCachedSettingsProvider(env.settingRows, nil, nil, assignmentCfg)
		settings, err := provider.AssignmentSettings(ctx)
		require.NoError(t, err)

		assert.Equal(t, 7, settings.MaxConcurrentInfluencers)
		assert.Equal(t, 3, settings.MaxInfluencersPerAssignment)
	})

	t.Run("persisted rows override configured ceilings", func(t *testing.T) {
		env := newFakeEnv()
		require.NoError(t, env.settingRows.Upsert(ctx, utils.SettingKeyMaxConcurrentInfluencers, "50", "int"))
		assignmentCfg := &config.AssignmentConfig{
			MaxConcurrentInfluencers:    7,
			MaxInfluencersPerAssignment: 3,
		}

		provider := NewCachedSettingsProvider(env.settingRows, nil, nil, assignmentCfg)
		settings, err := provider.AssignmentSettings(ctx)
		require.NoError(t, err)

		assert.Equal(t, 50, settings.MaxConcurrentInfluencers)
		assert.Equal(t, 3, settings.MaxInfluencersPerAssignment)
	})
}
