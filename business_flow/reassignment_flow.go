package businessflow

import (
	"context"
	"fmt"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/repository"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
)

// ReassignmentFlow moves one influencer's active work item to a different
// agent, archiving the old row and recording an audit history entry
type ReassignmentFlow interface {
	ReassignInfluencer(ctx context.Context, req *dto.ReassignInfluencerRequest, metadata *ClientMetadata) (*dto.ReassignInfluencerResponse, error)
}

// ReassignmentFlowImpl implements ReassignmentFlow
type ReassignmentFlowImpl struct {
	campaignListRepo       repository.CampaignListRepository
	campaignInfluencerRepo repository.CampaignInfluencerRepository
	agentRepo              repository.OutreachAgentRepository
	agentAssignmentRepo    repository.AgentAssignmentRepository
	assignedInfluencerRepo repository.AssignedInfluencerRepository
	historyRepo            repository.AssignmentHistoryRepository
	capacity               *CapacityCalculator
	settings               SettingsProvider
	db                     *gorm.DB
}

// NewReassignmentFlow creates a new reassignment flow
func NewReassignmentFlow(
	campaignListRepo repository.CampaignListRepository,
	campaignInfluencerRepo repository.CampaignInfluencerRepository,
	agentRepo repository.OutreachAgentRepository,
	agentAssignmentRepo repository.AgentAssignmentRepository,
	assignedInfluencerRepo repository.AssignedInfluencerRepository,
	historyRepo repository.AssignmentHistoryRepository,
	capacity *CapacityCalculator,
	settings SettingsProvider,
	db *gorm.DB,
) ReassignmentFlow {
	return &ReassignmentFlowImpl{
		campaignListRepo:       campaignListRepo,
		campaignInfluencerRepo: campaignInfluencerRepo,
		agentRepo:              agentRepo,
		agentAssignmentRepo:    agentAssignmentRepo,
		assignedInfluencerRepo: assignedInfluencerRepo,
		historyRepo:            historyRepo,
		capacity:               capacity,
		settings:               settings,
		db:                     db,
	}
}

// ReassignInfluencer archives the current active work item and creates a new
// one under another agent with capacity. The whole move is atomic; when no
// candidate agent exists nothing is mutated.
func (f *ReassignmentFlowImpl) ReassignInfluencer(ctx context.Context, req *dto.ReassignInfluencerRequest, metadata *ClientMetadata) (*dto.ReassignInfluencerResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	current, err := f.assignedInfluencerRepo.ByID(ctx, req.AssignedInfluencerID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, NewBusinessErrorf("ASSIGNED_INFLUENCER_NOT_FOUND", "assigned influencer %d not found", ErrAssignedInfluencerNotFound, req.AssignedInfluencerID)
	}
	if !current.IsActive() {
		return nil, NewBusinessErrorf("NO_ACTIVE_ASSIGNMENT", "assigned influencer %d is already %s", ErrNoActiveAssignment, current.ID, current.Type)
	}
	if current.AgentAssignment == nil {
		return nil, NewBusinessErrorf("ASSIGNMENT_NOT_FOUND", "assignment %d not found", ErrAgentAssignmentNotFound, current.AgentAssignmentID)
	}

	currentAgentID := current.AgentAssignment.AgentID
	campaignListID := current.AgentAssignment.CampaignListID

	list, err := f.campaignListRepo.ByID(ctx, campaignListID)
	if err != nil {
		return nil, err
	}
	if list == nil || list.Campaign == nil {
		return nil, NewBusinessErrorf("CAMPAIGN_LIST_NOT_FOUND", "campaign list %d not found", ErrCampaignListNotFound, campaignListID)
	}

	settings, err := f.settings.AssignmentSettings(ctx)
	if err != nil {
		return nil, err
	}

	target, targetCapacity, err := f.findCandidate(ctx, list.Campaign.CompanyID, campaignListID, currentAgentID, settings, req.PreferExisting)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, NewBusinessError("NO_REASSIGNMENT_CANDIDATE", "no agent with available capacity found", ErrNoReassignmentCandidate)
	}

	reassignedBy := req.ReassignedBy
	if reassignedBy == "" {
		reassignedBy = "system"
	}

	response := &dto.ReassignInfluencerResponse{
		FromAgentID: currentAgentID,
		ToAgentID:   target.ID,
	}

	err = withTransaction(ctx, f.db, func(txCtx context.Context) error {
		now := utils.UTCNow()

		old := *current
		old.Type = models.AssignmentTypeArchived
		old.ArchivedAt = &now
		if err := f.assignedInfluencerRepo.Update(txCtx, old); err != nil {
			return fmt.Errorf("failed to archive assigned influencer %d: %w", old.ID, err)
		}

		if err := f.campaignInfluencerRepo.MarkAssigned(txCtx, current.CampaignInfluencerID, false); err != nil {
			return fmt.Errorf("failed to clear assignment flag for influencer %d: %w", current.CampaignInfluencerID, err)
		}

		assignment, err := f.findOrCreateAssignment(txCtx, target.ID, campaignListID, targetCapacity)
		if err != nil {
			return err
		}

		replacement := models.AssignedInfluencer{
			AgentAssignmentID:    assignment.ID,
			CampaignInfluencerID: current.CampaignInfluencerID,
			Type:                 models.AssignmentTypeActive,
			Status:               models.AssignedStatusAssigned,
		}
		if err := f.assignedInfluencerRepo.Save(txCtx, &replacement); err != nil {
			return fmt.Errorf("failed to create replacement work item: %w", err)
		}

		if err := f.campaignInfluencerRepo.MarkAssigned(txCtx, current.CampaignInfluencerID, true); err != nil {
			return fmt.Errorf("failed to flag influencer %d as assigned: %w", current.CampaignInfluencerID, err)
		}

		history := models.InfluencerAssignmentHistory{
			CampaignInfluencerID:       current.CampaignInfluencerID,
			FromAgentID:                currentAgentID,
			ToAgentID:                  target.ID,
			Reason:                     req.Reason,
			AttemptsBeforeReassignment: current.AttemptsMade,
			TriggeredBy:                reassignedBy,
			Snapshot: models.AssignmentSnapshot{
				AssignedInfluencerID: current.ID,
				CampaignListID:       campaignListID,
				Status:               current.Status,
				AttemptsMade:         current.AttemptsMade,
				LastContactedAt:      current.LastContactedAt,
				NextContactAt:        current.NextContactAt,
			},
		}
		if err := f.historyRepo.Save(txCtx, &history); err != nil {
			return fmt.Errorf("failed to record reassignment history: %w", err)
		}

		total, err := f.assignedInfluencerRepo.CountByAssignment(txCtx, assignment.ID)
		if err != nil {
			return fmt.Errorf("failed to recount assignment %d: %w", assignment.ID, err)
		}
		if err := f.agentAssignmentRepo.UpdateAssignedCount(txCtx, assignment.ID, int(total)); err != nil {
			return fmt.Errorf("failed to update count for assignment %d: %w", assignment.ID, err)
		}

		response.AssignedInfluencerID = replacement.ID
		response.NewAgentAssignmentID = assignment.ID
		response.HistoryID = history.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	response.Message = fmt.Sprintf("Influencer reassigned from agent %d to agent %d", currentAgentID, target.ID)
	return response, nil
}

// findCandidate picks the replacement agent. With preferExisting, peers that
// already hold an assignment on the same list are tried first; the fallback
// is the company's full eligible pool. The current agent is always excluded
// and the first agent with capacity wins.
func (f *ReassignmentFlowImpl) findCandidate(ctx context.Context, companyID, campaignListID, currentAgentID uint, settings AssignmentSettings, preferExisting bool) (*models.OutreachAgent, *AgentCapacity, error) {
	if preferExisting {
		assignments, err := f.agentAssignmentRepo.NonDeletedByList(ctx, campaignListID)
		if err != nil {
			return nil, nil, err
		}
		for _, assignment := range assignments {
			if assignment.AgentID == currentAgentID {
				continue
			}
			agent, err := f.agentRepo.ByID(ctx, assignment.AgentID)
			if err != nil {
				return nil, nil, err
			}
			if agent == nil || !utils.IsTrue(agent.IsAvailableForAssignment) || !agent.EligibleForCompany(companyID) {
				continue
			}
			capacity, err := f.capacity.CapacityWithSettings(ctx, agent.ID, campaignListID, settings)
			if err != nil {
				return nil, nil, err
			}
			if capacity.CanAcceptNew {
				return agent, capacity, nil
			}
		}
	}

	agents, err := f.agentRepo.EligibleForCompany(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	for _, agent := range agents {
		if agent.ID == currentAgentID {
			continue
		}
		capacity, err := f.capacity.CapacityWithSettings(ctx, agent.ID, campaignListID, settings)
		if err != nil {
			return nil, nil, err
		}
		if capacity.CanAcceptNew {
			return agent, capacity, nil
		}
	}

	return nil, nil, nil
}

// findOrCreateAssignment reuses the capacity lookup's assignment when one
// exists, creating the pairing otherwise
func (f *ReassignmentFlowImpl) findOrCreateAssignment(ctx context.Context, agentID, campaignListID uint, capacity *AgentCapacity) (*models.AgentAssignment, error) {
	if capacity != nil && capacity.ExistingAssignmentID != nil {
		assignment, err := f.agentAssignmentRepo.ByID(ctx, *capacity.ExistingAssignmentID)
		if err != nil {
			return nil, err
		}
		if assignment != nil {
			return assignment, nil
		}
	}

	assignment := &models.AgentAssignment{
		AgentID:        agentID,
		CampaignListID: campaignListID,
		IsDeleted:      utils.ToPtr(false),
	}
	if err := f.agentAssignmentRepo.Save(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment for agent %d: %w", agentID, err)
	}
	return assignment, nil
}
