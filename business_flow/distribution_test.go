package businessflow

import (
	"fmt"
	"testing"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCandidate(agentID uint, availableCapacity int) AgentCandidate {
	return AgentCandidate{
		Agent: &models.OutreachAgent{ID: agentID, FullName: fmt.Sprintf("agent-%d", agentID)},
		Capacity: &AgentCapacity{
			AgentID:           agentID,
			AvailableCapacity: availableCapacity,
			CanAcceptNew:      availableCapacity > 0,
		},
	}
}

func makeInfluencers(n int) []*models.CampaignInfluencer {
	out := make([]*models.CampaignInfluencer, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &models.CampaignInfluencer{ID: uint(i), Handle: fmt.Sprintf("handle-%d", i)})
	}
	return out
}

func TestHeuristicAgentCount(t *testing.T) {
	tests := []struct {
		name            string
		influencerCount int
		availableAgents int
		expected        int
	}{
		{"tiny batch uses one agent", 5, 10, 1},
		{"small batch uses two agents", 15, 10, 2},
		{"medium batch uses three agents", 30, 10, 3},
		{"large batch uses four agents", 50, 10, 4},
		{"huge batch caps at six agents", 500, 10, 6},
		{"never exceeds available agents", 500, 2, 2},
		{"zero agents yields zero", 20, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HeuristicAgentCount(tt.influencerCount, tt.availableAgents))
		})
	}
}

func TestOptimalAgentCount(t *testing.T) {
	t.Run("batch fitting in combined headroom uses only agents with capacity", func(t *testing.T) {
		candidates := []AgentCandidate{
			makeCandidate(1, 10),
			makeCandidate(2, 10),
			makeCandidate(3, 0),
		}
		assert.Equal(t, 2, OptimalAgentCount(15, candidates))
	})

	t.Run("batch exceeding headroom drafts every candidate", func(t *testing.T) {
		candidates := []AgentCandidate{
			makeCandidate(1, 5),
			makeCandidate(2, 5),
			makeCandidate(3, 0),
		}
		assert.Equal(t, 3, OptimalAgentCount(50, candidates))
	})

	t.Run("falls back to heuristic without capacity data", func(t *testing.T) {
		candidates := []AgentCandidate{
			{Agent: &models.OutreachAgent{ID: 1}},
			{Agent: &models.OutreachAgent{ID: 2}},
			{Agent: &models.OutreachAgent{ID: 3}},
		}
		assert.Equal(t, 2, OptimalAgentCount(12, candidates))
	})
}

func TestDistributeInvalidStrategy(t *testing.T) {
	_, err := Distribute("random", []AgentCandidate{makeCandidate(1, 5)}, makeInfluencers(3))
	require.Error(t, err)
	assert.True(t, IsInvalidStrategy(err))

	var be *BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "INVALID_STRATEGY", be.Code)
}

func TestDistributeRoundRobin(t *testing.T) {
	t.Run("spreads evenly across equal agents", func(t *testing.T) {
		candidates := []AgentCandidate{
			makeCandidate(1, 10),
			makeCandidate(2, 10),
			makeCandidate(3, 10),
		}

		dist, err := Distribute(StrategyRoundRobin, candidates, makeInfluencers(9))
		require.NoError(t, err)

		assert.Equal(t, 9, dist.AssignedTotal())
		assert.Empty(t, dist.Leftover)
		assert.Len(t, dist.Batches[1], 3)
		assert.Len(t, dist.Batches[2], 3)
		assert.Len(t, dist.Batches[3], 3)
	})

	t.Run("skips exhausted agents and keeps rotating", func(t *testing.T) {
		candidates := []AgentCandidate{
			makeCandidate(1, 1),
			makeCandidate(2, 5),
		}

		dist, err := Distribute(StrategyRoundRobin, candidates, makeInfluencers(6))
		require.NoError(t, err)

		assert.Equal(t, 6, dist.AssignedTotal())
		assert.Empty(t, dist.Leftover)
		assert.Len(t, dist.Batches[1], 1)
		assert.Len(t, dist.Batches[2], 5)
	})

	t.Run("overflow lands in leftover, never dropped", func(t *testing.T) {
		candidates := []AgentCandidate{
			makeCandidate(1, 2),
			makeCandidate(2, 2),
		}

		influencers := makeInfluencers(7)
		dist, err := Distribute(StrategyRoundRobin, candidates, influencers)
		require.NoError(t, err)

		assert.Equal(t, 4, dist.AssignedTotal())
		assert.Len(t, dist.Leftover, 3)
		assert.Equal(t, len(influencers), dist.AssignedTotal()+len(dist.Leftover))
	})
}

func TestDistributeLoadBalanced(t *testing.T) {
	t.Run("prefers the agent with the most headroom", func(t *testing.T) {
		candidates := []AgentCandidate{
			makeCandidate(1, 10),
			makeCandidate(2, 2),
		}

		dist, err := Distribute(StrategyLoadBalanced, candidates, makeInfluencers(6))
		require.NoError(t, err)

		assert.Equal(t, 6, dist.AssignedTotal())
		assert.Empty(t, dist.Leftover)
		// Agent 1 starts 8 ahead, so it absorbs the whole batch before
		// agent 2's headroom ever ties.
		assert.Len(t, dist.Batches[1], 6)
	})

	t.Run("never places beyond an agent's capacity", func(t *testing.T) {
		candidates := []AgentCandidate{
			makeCandidate(1, 3),
			makeCandidate(2, 3),
		}

		dist, err := Distribute(StrategyLoadBalanced, candidates, makeInfluencers(10))
		require.NoError(t, err)

		assert.Equal(t, 6, dist.AssignedTotal())
		assert.Len(t, dist.Leftover, 4)
		assert.LessOrEqual(t, len(dist.Batches[1]), 3)
		assert.LessOrEqual(t, len(dist.Batches[2]), 3)
	})
}

func TestDistributeManual(t *testing.T) {
	// Manual keeps the caller's ordering instead of ranking by headroom,
	// so the first preferred agent fills up first.
	candidates := []AgentCandidate{
		makeCandidate(7, 2),
		makeCandidate(8, 10),
	}

	dist, err := Distribute(StrategyManual, candidates, makeInfluencers(5))
	require.NoError(t, err)

	assert.Equal(t, 5, dist.AssignedTotal())
	require.Len(t, dist.Batches[7], 2)
	require.Len(t, dist.Batches[8], 3)
	assert.Equal(t, uint(1), dist.Batches[7][0].ID)
	assert.Equal(t, uint(2), dist.Batches[8][0].ID)
}

func TestDistributeNoUsableAgents(t *testing.T) {
	candidates := []AgentCandidate{
		makeCandidate(1, 0),
		{Agent: &models.OutreachAgent{ID: 2}},
	}

	influencers := makeInfluencers(4)
	dist, err := Distribute(StrategyRoundRobin, candidates, influencers)
	require.NoError(t, err)

	assert.Zero(t, dist.AssignedTotal())
	assert.Len(t, dist.Leftover, len(influencers))
}
