package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/repository"
	"gorm.io/gorm"
)

// CounterSyncFlow reconciles cached agent and assignment counters from the
// assigned influencer rows that are their ground truth. Every operation is
// idempotent and safe to run at any time.
type CounterSyncFlow interface {
	SyncAllAgentCounters(ctx context.Context) (*dto.SyncAgentCountersResponse, error)
	SyncAgentCounters(ctx context.Context, agentIDs []uint) (*dto.SyncAgentCountersResponse, error)
	SyncAgentAssignmentCounters(ctx context.Context) (*dto.SyncAssignmentCountersResponse, error)
	ValidateCounterIntegrity(ctx context.Context) (*dto.ValidateCounterIntegrityResponse, error)
}

// CounterSyncFlowImpl implements CounterSyncFlow
type CounterSyncFlowImpl struct {
	agentRepo              repository.OutreachAgentRepository
	agentAssignmentRepo    repository.AgentAssignmentRepository
	assignedInfluencerRepo repository.AssignedInfluencerRepository
	db                     *gorm.DB
}

// NewCounterSyncFlow creates a new counter sync flow
func NewCounterSyncFlow(
	agentRepo repository.OutreachAgentRepository,
	agentAssignmentRepo repository.AgentAssignmentRepository,
	assignedInfluencerRepo repository.AssignedInfluencerRepository,
	db *gorm.DB,
) CounterSyncFlow {
	return &CounterSyncFlowImpl{
		agentRepo:              agentRepo,
		agentAssignmentRepo:    agentAssignmentRepo,
		assignedInfluencerRepo: assignedInfluencerRepo,
		db:                     db,
	}
}

// agentGroundTruth recomputes an agent's counters from assigned influencer rows
func (f *CounterSyncFlowImpl) agentGroundTruth(ctx context.Context, agentID uint) (activeInfluencers, activeLists int, err error) {
	activeCount, err := f.assignedInfluencerRepo.CountActiveByAgent(ctx, agentID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count active influencers for agent %d: %w", agentID, err)
	}

	assignments, err := f.agentAssignmentRepo.NonDeletedByAgent(ctx, agentID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list assignments for agent %d: %w", agentID, err)
	}

	for _, assignment := range assignments {
		count, err := f.assignedInfluencerRepo.CountByAssignment(ctx, assignment.ID)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to count influencers in assignment %d: %w", assignment.ID, err)
		}
		if count > 0 {
			activeLists++
		}
	}

	return int(activeCount), activeLists, nil
}

// SyncAgentCounters reconciles the counters of the given agents
func (f *CounterSyncFlowImpl) SyncAgentCounters(ctx context.Context, agentIDs []uint) (*dto.SyncAgentCountersResponse, error) {
	response := &dto.SyncAgentCountersResponse{}

	err := withTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, agentID := range agentIDs {
			agent, err := f.agentRepo.ByID(txCtx, agentID)
			if err != nil {
				return err
			}
			if agent == nil {
				continue
			}

			activeInfluencers, activeLists, err := f.agentGroundTruth(txCtx, agentID)
			if err != nil {
				return err
			}

			synced := dto.AgentCounterSyncDTO{
				AgentID:                  agentID,
				ActiveInfluencersCount:   activeInfluencers,
				ActiveListsCount:         activeLists,
				PreviousInfluencersCount: agent.ActiveInfluencersCount,
				PreviousListsCount:       agent.ActiveListsCount,
			}

			if agent.ActiveInfluencersCount != activeInfluencers || agent.ActiveListsCount != activeLists {
				if err := f.agentRepo.UpdateCounters(txCtx, agentID, activeInfluencers, activeLists); err != nil {
					return fmt.Errorf("failed to update counters for agent %d: %w", agentID, err)
				}
				response.AgentsChanged++
			}

			response.AgentsSynced++
			response.Agents = append(response.Agents, synced)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response.Message = fmt.Sprintf("Synced counters for %d agents, %d corrected", response.AgentsSynced, response.AgentsChanged)
	return response, nil
}

// SyncAllAgentCounters reconciles the counters of every agent
func (f *CounterSyncFlowImpl) SyncAllAgentCounters(ctx context.Context) (*dto.SyncAgentCountersResponse, error) {
	agents, err := f.agentRepo.ByFilter(ctx, models.OutreachAgentFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	agentIDs := make([]uint, 0, len(agents))
	for _, agent := range agents {
		agentIDs = append(agentIDs, agent.ID)
	}

	return f.SyncAgentCounters(ctx, agentIDs)
}

// SyncAgentAssignmentCounters reconciles assigned_influencers_count on every
// non-deleted assignment. The counter intentionally tracks the total ever
// assigned, all lifecycle types included.
func (f *CounterSyncFlowImpl) SyncAgentAssignmentCounters(ctx context.Context) (*dto.SyncAssignmentCountersResponse, error) {
	response := &dto.SyncAssignmentCountersResponse{}

	err := withTransaction(ctx, f.db, func(txCtx context.Context) error {
		assignments, err := f.agentAssignmentRepo.ListNonDeleted(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}

		for _, assignment := range assignments {
			count, err := f.assignedInfluencerRepo.CountByAssignment(txCtx, assignment.ID)
			if err != nil {
				return fmt.Errorf("failed to count influencers in assignment %d: %w", assignment.ID, err)
			}

			synced := dto.AssignmentCounterSyncDTO{
				AgentAssignmentID: assignment.ID,
				AgentID:           assignment.AgentID,
				CampaignListID:    assignment.CampaignListID,
				AssignedCount:     int(count),
				PreviousCount:     assignment.AssignedInfluencersCount,
			}

			if assignment.AssignedInfluencersCount != int(count) {
				if err := f.agentAssignmentRepo.UpdateAssignedCount(txCtx, assignment.ID, int(count)); err != nil {
					return fmt.Errorf("failed to update count for assignment %d: %w", assignment.ID, err)
				}
				response.AssignmentsChanged++
			}

			response.AssignmentsSynced++
			response.Assignments = append(response.Assignments, synced)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response.Message = fmt.Sprintf("Synced counters for %d assignments, %d corrected", response.AssignmentsSynced, response.AssignmentsChanged)
	return response, nil
}

// ValidateCounterIntegrity compares stored counters with recomputed values
// and reports drift without mutating anything
func (f *CounterSyncFlowImpl) ValidateCounterIntegrity(ctx context.Context) (*dto.ValidateCounterIntegrityResponse, error) {
	response := &dto.ValidateCounterIntegrityResponse{
		Discrepancies: []dto.CounterDiscrepancyDTO{},
	}

	agents, err := f.agentRepo.ByFilter(ctx, models.OutreachAgentFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	for _, agent := range agents {
		activeInfluencers, activeLists, err := f.agentGroundTruth(ctx, agent.ID)
		if err != nil {
			return nil, err
		}

		if agent.ActiveInfluencersCount != activeInfluencers {
			response.Discrepancies = append(response.Discrepancies, dto.CounterDiscrepancyDTO{
				EntityType:  "outreach_agent",
				EntityID:    agent.ID,
				CounterName: "active_influencers_count",
				StoredValue: agent.ActiveInfluencersCount,
				ActualValue: activeInfluencers,
			})
		}
		if agent.ActiveListsCount != activeLists {
			response.Discrepancies = append(response.Discrepancies, dto.CounterDiscrepancyDTO{
				EntityType:  "outreach_agent",
				EntityID:    agent.ID,
				CounterName: "active_lists_count",
				StoredValue: agent.ActiveListsCount,
				ActualValue: activeLists,
			})
		}
		response.AgentsChecked++
	}

	assignments, err := f.agentAssignmentRepo.ListNonDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	for _, assignment := range assignments {
		count, err := f.assignedInfluencerRepo.CountByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count influencers in assignment %d: %w", assignment.ID, err)
		}
		if assignment.AssignedInfluencersCount != int(count) {
			response.Discrepancies = append(response.Discrepancies, dto.CounterDiscrepancyDTO{
				EntityType:  "agent_assignment",
				EntityID:    assignment.ID,
				CounterName: "assigned_influencers_count",
				StoredValue: assignment.AssignedInfluencersCount,
				ActualValue: int(count),
			})
		}
		response.AssignmentsChecked++
	}

	response.IsConsistent = len(response.Discrepancies) == 0
	if response.IsConsistent {
		response.Message = "All counters are consistent"
	} else {
		response.Message = fmt.Sprintf("Found %d counter discrepancies", len(response.Discrepancies))
		log.Printf("counter integrity check found %d discrepancies", len(response.Discrepancies))
	}

	return response, nil
}
