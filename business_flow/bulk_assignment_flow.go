package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/repository"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
)

// BulkAssignmentFlow distributes a campaign list's unassigned influencers
// across eligible agents under the capacity ceilings
type BulkAssignmentFlow interface {
	ValidateBulkAssignment(ctx context.Context, req *dto.ValidateBulkAssignmentRequest, metadata *ClientMetadata) (*dto.ValidateBulkAssignmentResponse, error)
	ExecuteBulkAssignment(ctx context.Context, req *dto.ExecuteBulkAssignmentRequest, metadata *ClientMetadata) (*dto.ExecuteBulkAssignmentResponse, error)
}

// BulkAssignmentFlowImpl implements BulkAssignmentFlow
type BulkAssignmentFlowImpl struct {
	campaignListRepo       repository.CampaignListRepository
	campaignInfluencerRepo repository.CampaignInfluencerRepository
	agentRepo              repository.OutreachAgentRepository
	agentAssignmentRepo    repository.AgentAssignmentRepository
	assignedInfluencerRepo repository.AssignedInfluencerRepository
	capacity               *CapacityCalculator
	settings               SettingsProvider
	counterSync            CounterSyncFlow
	db                     *gorm.DB
}

// NewBulkAssignmentFlow creates a new bulk assignment flow
func NewBulkAssignmentFlow(
	campaignListRepo repository.CampaignListRepository,
	campaignInfluencerRepo repository.CampaignInfluencerRepository,
	agentRepo repository.OutreachAgentRepository,
	agentAssignmentRepo repository.AgentAssignmentRepository,
	assignedInfluencerRepo repository.AssignedInfluencerRepository,
	capacity *CapacityCalculator,
	settings SettingsProvider,
	counterSync CounterSyncFlow,
	db *gorm.DB,
) BulkAssignmentFlow {
	return &BulkAssignmentFlowImpl{
		campaignListRepo:       campaignListRepo,
		campaignInfluencerRepo: campaignInfluencerRepo,
		agentRepo:              agentRepo,
		agentAssignmentRepo:    agentAssignmentRepo,
		assignedInfluencerRepo: assignedInfluencerRepo,
		capacity:               capacity,
		settings:               settings,
		counterSync:            counterSync,
		db:                     db,
	}
}

// loadCampaignList fetches a campaign list with its campaign, failing when
// either is missing
func (f *BulkAssignmentFlowImpl) loadCampaignList(ctx context.Context, campaignListID uint) (*models.CampaignList, error) {
	list, err := f.campaignListRepo.ByID(ctx, campaignListID)
	if err != nil {
		return nil, err
	}
	if list == nil || list.Campaign == nil {
		return nil, NewBusinessErrorf("CAMPAIGN_LIST_NOT_FOUND", "campaign list %d not found", ErrCampaignListNotFound, campaignListID)
	}
	return list, nil
}

// eligibleAgents resolves the candidate pool for a company, honoring an
// optional preferred ordering. Preferred agents that are unavailable or
// ineligible for the company are silently skipped.
func (f *BulkAssignmentFlowImpl) eligibleAgents(ctx context.Context, companyID uint, preferredIDs []uint) ([]*models.OutreachAgent, error) {
	if len(preferredIDs) == 0 {
		return f.agentRepo.EligibleForCompany(ctx, companyID)
	}

	agents := make([]*models.OutreachAgent, 0, len(preferredIDs))
	for _, agentID := range preferredIDs {
		agent, err := f.agentRepo.ByID(ctx, agentID)
		if err != nil {
			return nil, err
		}
		if agent == nil || !utils.IsTrue(agent.IsAvailableForAssignment) || !agent.EligibleForCompany(companyID) {
			continue
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// candidateCapacities computes each agent's headroom for the list. When
// forceNew is set, existing assignments are ignored so each agent is rated
// with a fresh per-list ceiling.
func (f *BulkAssignmentFlowImpl) candidateCapacities(ctx context.Context, agents []*models.OutreachAgent, campaignListID uint, settings AssignmentSettings, forceNew bool) ([]AgentCandidate, error) {
	candidates := make([]AgentCandidate, 0, len(agents))
	for _, agent := range agents {
		capacity, err := f.capacity.CapacityWithSettings(ctx, agent.ID, campaignListID, settings)
		if err != nil {
			return nil, err
		}

		if forceNew && capacity.ExistingAssignmentID != nil {
			globalAvailable := settings.MaxConcurrentInfluencers - capacity.CurrentActiveGlobal
			capacity.ActiveInAssignment = 0
			capacity.AvailableCapacity = 0
			if globalAvailable > 0 {
				capacity.AvailableCapacity = min(settings.MaxInfluencersPerAssignment, globalAvailable)
			}
			capacity.CanAcceptNew = capacity.AvailableCapacity > 0
			capacity.AssignmentStatus = AssignmentStatusAtLimit
			if capacity.CanAcceptNew {
				capacity.AssignmentStatus = AssignmentStatusAvailable
			}
		}

		candidates = append(candidates, AgentCandidate{Agent: agent, Capacity: capacity})
	}
	return candidates, nil
}

// ValidateBulkAssignment previews a bulk assignment without mutating anything
func (f *BulkAssignmentFlowImpl) ValidateBulkAssignment(ctx context.Context, req *dto.ValidateBulkAssignmentRequest, metadata *ClientMetadata) (*dto.ValidateBulkAssignmentResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	list, err := f.loadCampaignList(ctx, req.CampaignListID)
	if err != nil {
		return nil, err
	}

	agents, err := f.eligibleAgents(ctx, list.Campaign.CompanyID, req.PreferredAgentIDs)
	if err != nil {
		return nil, err
	}

	unassigned, err := f.campaignInfluencerRepo.UnassignedByList(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	settings, err := f.settings.AssignmentSettings(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := f.candidateCapacities(ctx, agents, list.ID, settings, false)
	if err != nil {
		return nil, err
	}

	response := &dto.ValidateBulkAssignmentResponse{
		CampaignList: dto.CampaignListInfoDTO{
			ID:         list.ID,
			UUID:       list.UUID.String(),
			Name:       list.Name,
			CampaignID: list.CampaignID,
			CompanyID:  list.Campaign.CompanyID,
		},
		TotalUnassigned: len(unassigned),
	}

	for _, c := range candidates {
		response.TotalAvailableCapacity += c.Capacity.AvailableCapacity
		response.AvailableAgents = append(response.AvailableAgents, dto.AgentCapacityDTO{
			AgentID:              c.Agent.ID,
			AgentName:            c.Agent.FullName,
			CurrentActiveGlobal:  c.Capacity.CurrentActiveGlobal,
			ActiveInAssignment:   c.Capacity.ActiveInAssignment,
			AvailableCapacity:    c.Capacity.AvailableCapacity,
			CanAcceptNew:         c.Capacity.CanAcceptNew,
			AssignmentStatus:     string(c.Capacity.AssignmentStatus),
			ExistingAssignmentID: c.Capacity.ExistingAssignmentID,
		})
	}

	response.CanAssignAll = len(unassigned) > 0 && len(unassigned) <= response.TotalAvailableCapacity

	switch {
	case len(unassigned) == 0:
		response.Recommendations = append(response.Recommendations, "All influencers in this list are already assigned")
	case len(agents) == 0:
		response.Recommendations = append(response.Recommendations, "No eligible agents are available for this company")
	case !response.CanAssignAll:
		response.Recommendations = append(response.Recommendations,
			fmt.Sprintf("Only %d of %d influencers can be assigned; free up agent capacity or add agents", response.TotalAvailableCapacity, len(unassigned)))
	}

	return response, nil
}

// ExecuteBulkAssignment distributes and persists a bulk assignment. Per-item
// failures are collected and do not abort the batch; the operation commits
// or rolls back as a whole.
func (f *BulkAssignmentFlowImpl) ExecuteBulkAssignment(ctx context.Context, req *dto.ExecuteBulkAssignmentRequest, metadata *ClientMetadata) (*dto.ExecuteBulkAssignmentResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	strategy := DistributionStrategy(req.Strategy)
	if !strategy.Valid() {
		return nil, NewBusinessErrorf("INVALID_STRATEGY", "unknown distribution strategy %q", ErrInvalidStrategy, req.Strategy)
	}

	list, err := f.loadCampaignList(ctx, req.CampaignListID)
	if err != nil {
		return nil, err
	}

	agents, err := f.eligibleAgents(ctx, list.Campaign.CompanyID, req.PreferredAgentIDs)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, NewBusinessError("NO_ELIGIBLE_AGENTS", "no eligible agents available for this campaign list", ErrNoEligibleAgents)
	}

	influencers, err := f.campaignInfluencerRepo.UnassignedByList(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	if len(influencers) == 0 {
		return nil, NewBusinessError("NO_UNASSIGNED_INFLUENCERS", "campaign list has no unassigned influencers", ErrNoUnassignedInfluencers)
	}

	settings, err := f.settings.AssignmentSettings(ctx)
	if err != nil {
		return nil, err
	}
	if req.MaxPerAgentOverride != nil && *req.MaxPerAgentOverride > 0 {
		settings.MaxInfluencersPerAssignment = *req.MaxPerAgentOverride
	}

	candidates, err := f.candidateCapacities(ctx, agents, list.ID, settings, req.ForceNewAssignments)
	if err != nil {
		return nil, err
	}

	dist, err := Distribute(strategy, candidates, influencers)
	if err != nil {
		return nil, err
	}
	if dist.AssignedTotal() == 0 {
		return nil, NewBusinessError("NO_AVAILABLE_CAPACITY", "no agent has capacity for this campaign list", ErrNoAvailableCapacity)
	}

	response := &dto.ExecuteBulkAssignmentResponse{
		AssignmentSummary: dto.AssignmentSummaryDTO{TotalRequested: len(influencers)},
	}

	err = withTransaction(ctx, f.db, func(txCtx context.Context) error {
		syncedAgents := make([]uint, 0, len(candidates))

		for _, candidate := range candidates {
			batch := dist.Batches[candidate.Agent.ID]
			if len(batch) == 0 {
				continue
			}

			assignment, isNew, err := f.findOrCreateAssignment(txCtx, candidate.Agent.ID, list.ID)
			if err != nil {
				return err
			}

			result := dto.AgentAssignmentResultDTO{
				AgentID:           candidate.Agent.ID,
				AgentAssignmentID: assignment.ID,
				IsNewAssignment:   isNew,
			}

			for _, influencer := range batch {
				assigned := models.AssignedInfluencer{
					AgentAssignmentID:    assignment.ID,
					CampaignInfluencerID: influencer.ID,
					Type:                 models.AssignmentTypeActive,
					Status:               models.AssignedStatusAssigned,
				}
				if err := f.assignedInfluencerRepo.Save(txCtx, &assigned); err != nil {
					log.Printf("bulk assignment: failed to assign influencer %d to agent %d: %v", influencer.ID, candidate.Agent.ID, err)
					response.AssignmentSummary.TotalFailed++
					response.UnassignedInfluencers = append(response.UnassignedInfluencers, influencer.ID)
					response.Errors = append(response.Errors,
						fmt.Sprintf("failed to assign influencer %d to agent %d", influencer.ID, candidate.Agent.ID))
					continue
				}

				if err := f.campaignInfluencerRepo.MarkAssigned(txCtx, influencer.ID, true); err != nil {
					return fmt.Errorf("failed to flag influencer %d as assigned: %w", influencer.ID, err)
				}

				result.AssignedCount++
				result.InfluencerIDs = append(result.InfluencerIDs, influencer.ID)
				response.AssignmentSummary.TotalAssigned++
			}

			// Inserts above already hit the transaction, so this count
			// reflects the rows just created.
			total, err := f.assignedInfluencerRepo.CountByAssignment(txCtx, assignment.ID)
			if err != nil {
				return fmt.Errorf("failed to recount assignment %d: %w", assignment.ID, err)
			}
			result.TotalInAssignment = int(total)
			if err := f.agentAssignmentRepo.UpdateAssignedCount(txCtx, assignment.ID, int(total)); err != nil {
				return fmt.Errorf("failed to update count for assignment %d: %w", assignment.ID, err)
			}

			response.AgentResults = append(response.AgentResults, result)
			syncedAgents = append(syncedAgents, candidate.Agent.ID)
		}

		if _, err := f.counterSync.SyncAgentCounters(txCtx, syncedAgents); err != nil {
			return fmt.Errorf("failed to resync agent counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, influencer := range dist.Leftover {
		response.UnassignedInfluencers = append(response.UnassignedInfluencers, influencer.ID)
	}
	if len(dist.Leftover) > 0 {
		response.Warnings = append(response.Warnings,
			fmt.Sprintf("%d influencers could not be assigned due to capacity limits", len(dist.Leftover)))
	}
	if response.UnassignedInfluencers == nil {
		response.UnassignedInfluencers = []uint{}
	}

	response.Message = fmt.Sprintf("Assigned %d of %d influencers across %d agents",
		response.AssignmentSummary.TotalAssigned, response.AssignmentSummary.TotalRequested, len(response.AgentResults))
	return response, nil
}

// findOrCreateAssignment returns the non-deleted assignment for the pair,
// creating one when none exists
func (f *BulkAssignmentFlowImpl) findOrCreateAssignment(ctx context.Context, agentID, campaignListID uint) (*models.AgentAssignment, bool, error) {
	assignment, err := f.agentAssignmentRepo.ByAgentAndList(ctx, agentID, campaignListID)
	if err != nil {
		return nil, false, err
	}
	if assignment != nil {
		return assignment, false, nil
	}

	assignment = &models.AgentAssignment{
		AgentID:        agentID,
		CampaignListID: campaignListID,
		IsDeleted:      utils.ToPtr(false),
	}
	if err := f.agentAssignmentRepo.Save(ctx, assignment); err != nil {
		return nil, false, fmt.Errorf("failed to create assignment for agent %d: %w", agentID, err)
	}
	return assignment, true, nil
}
