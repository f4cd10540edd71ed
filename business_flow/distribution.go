package businessflow

import (
	"sort"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
)

// DistributionStrategy selects how influencers are spread across agents
type DistributionStrategy string

const (
	StrategyRoundRobin   DistributionStrategy = "round_robin"
	StrategyLoadBalanced DistributionStrategy = "load_balanced"
	StrategyManual       DistributionStrategy = "manual"
)

// Valid checks if the distribution strategy is valid
func (s DistributionStrategy) Valid() bool {
	switch s {
	case StrategyRoundRobin, StrategyLoadBalanced, StrategyManual:
		return true
	}
	return false
}

// AgentCandidate pairs an agent with its computed capacity for one list
type AgentCandidate struct {
	Agent    *models.OutreachAgent
	Capacity *AgentCapacity
}

// Distribution maps agent IDs to their influencer batches. Influencers that
// no agent could absorb end up in Leftover, never silently dropped.
type Distribution struct {
	Batches  map[uint][]*models.CampaignInfluencer
	Leftover []*models.CampaignInfluencer
}

// AssignedTotal returns the number of influencers placed in batches
func (d *Distribution) AssignedTotal() int {
	total := 0
	for _, batch := range d.Batches {
		total += len(batch)
	}
	return total
}

// HeuristicAgentCount scales the number of agents with the batch size when no
// capacity data is available
func HeuristicAgentCount(influencerCount, availableAgents int) int {
	var n int
	switch {
	case influencerCount <= 5:
		n = 1
	case influencerCount <= 15:
		n = 2
	case influencerCount <= 30:
		n = 3
	case influencerCount <= 50:
		n = 4
	default:
		n = utils.MaxDistributionAgents
	}
	return min(n, availableAgents)
}

// OptimalAgentCount decides how many candidates a distribution should spread
// across. When the batch fits in the combined headroom, only agents with
// nonzero capacity are used; otherwise every candidate is drafted.
func OptimalAgentCount(influencerCount int, candidates []AgentCandidate) int {
	withCapacity := 0
	totalCapacity := 0
	capacityKnown := false
	for _, c := range candidates {
		if c.Capacity == nil {
			continue
		}
		capacityKnown = true
		if c.Capacity.AvailableCapacity > 0 {
			withCapacity++
			totalCapacity += c.Capacity.AvailableCapacity
		}
	}

	if !capacityKnown {
		return HeuristicAgentCount(influencerCount, len(candidates))
	}

	if influencerCount <= totalCapacity {
		return min(withCapacity, len(candidates))
	}
	return len(candidates)
}

// Distribute spreads influencers across candidate agents according to the
// strategy, respecting each agent's computed capacity
func Distribute(strategy DistributionStrategy, candidates []AgentCandidate, influencers []*models.CampaignInfluencer) (*Distribution, error) {
	if !strategy.Valid() {
		return nil, NewBusinessErrorf("INVALID_STRATEGY", "unknown distribution strategy %q", ErrInvalidStrategy, strategy)
	}

	usable := make([]AgentCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Capacity != nil && c.Capacity.CanAcceptNew {
			usable = append(usable, c)
		}
	}

	dist := &Distribution{Batches: make(map[uint][]*models.CampaignInfluencer)}
	if len(usable) == 0 || len(influencers) == 0 {
		dist.Leftover = influencers
		return dist, nil
	}

	// Manual keeps the caller-supplied ordering; the others rank by headroom.
	if strategy != StrategyManual {
		sort.SliceStable(usable, func(i, j int) bool {
			return usable[i].Capacity.AvailableCapacity > usable[j].Capacity.AvailableCapacity
		})
	}

	if n := OptimalAgentCount(len(influencers), usable); n < len(usable) {
		usable = usable[:n]
	}

	switch strategy {
	case StrategyLoadBalanced:
		distributeLoadBalanced(dist, usable, influencers)
	default:
		distributeCyclic(dist, usable, influencers)
	}

	return dist, nil
}

// distributeCyclic hands out one influencer at a time in rotation, dropping
// an agent from the cycle once it hits its capacity
func distributeCyclic(dist *Distribution, agents []AgentCandidate, influencers []*models.CampaignInfluencer) {
	assigned := make(map[uint]int, len(agents))
	idx := 0

	for _, influencer := range influencers {
		placed := false
		for range agents {
			agent := agents[idx%len(agents)]
			idx++
			agentID := agent.Agent.ID
			if assigned[agentID] >= agent.Capacity.AvailableCapacity {
				continue
			}
			dist.Batches[agentID] = append(dist.Batches[agentID], influencer)
			assigned[agentID]++
			placed = true
			break
		}
		if !placed {
			dist.Leftover = append(dist.Leftover, influencer)
		}
	}
}

// distributeLoadBalanced re-picks the agent with the most remaining headroom
// before every single assignment
func distributeLoadBalanced(dist *Distribution, agents []AgentCandidate, influencers []*models.CampaignInfluencer) {
	assigned := make(map[uint]int, len(agents))

	for _, influencer := range influencers {
		var best *AgentCandidate
		bestHeadroom := 0
		for i := range agents {
			headroom := agents[i].Capacity.AvailableCapacity - assigned[agents[i].Agent.ID]
			if headroom > bestHeadroom {
				best = &agents[i]
				bestHeadroom = headroom
			}
		}
		if best == nil {
			dist.Leftover = append(dist.Leftover, influencer)
			continue
		}
		agentID := best.Agent.ID
		dist.Batches[agentID] = append(dist.Batches[agentID], influencer)
		assigned[agentID]++
	}
}
