package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/repository"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
)

// Contact attempt template resolution reasons
const (
	TemplateReasonScheduled           = "scheduled"
	TemplateReasonManualOverride      = "manual_override"
	TemplateReasonNoInitialTemplate   = "no_initial_template"
	TemplateReasonNoFollowupTemplate  = "no_followup_template"
	TemplateReasonCampaignListMissing = "campaign_list_not_found"
)

// ContactAttemptFlow records outreach attempts and derives the next contact
// time from the campaign's follow-up template sequence
type ContactAttemptFlow interface {
	RecordContactAttempt(ctx context.Context, req *dto.RecordContactAttemptRequest, metadata *ClientMetadata) (*dto.RecordContactAttemptResponse, error)
}

// ContactAttemptFlowImpl implements ContactAttemptFlow
type ContactAttemptFlowImpl struct {
	campaignListRepo       repository.CampaignListRepository
	campaignInfluencerRepo repository.CampaignInfluencerRepository
	assignedInfluencerRepo repository.AssignedInfluencerRepository
	templateRepo           repository.MessageTemplateRepository
	db                     *gorm.DB
}

// NewContactAttemptFlow creates a new contact attempt flow
func NewContactAttemptFlow(
	campaignListRepo repository.CampaignListRepository,
	campaignInfluencerRepo repository.CampaignInfluencerRepository,
	assignedInfluencerRepo repository.AssignedInfluencerRepository,
	templateRepo repository.MessageTemplateRepository,
	db *gorm.DB,
) ContactAttemptFlow {
	return &ContactAttemptFlowImpl{
		campaignListRepo:       campaignListRepo,
		campaignInfluencerRepo: campaignInfluencerRepo,
		assignedInfluencerRepo: assignedInfluencerRepo,
		templateRepo:           templateRepo,
		db:                     db,
	}
}

// RecordContactAttempt bumps the attempt counter, applies the status
// transitions, and computes next_contact_at from the follow-up template
// whose sequence position equals the next attempt number. The cadence is
// entirely data-driven by template rows, not a fixed backoff formula.
func (f *ContactAttemptFlowImpl) RecordContactAttempt(ctx context.Context, req *dto.RecordContactAttemptRequest, metadata *ClientMetadata) (*dto.RecordContactAttemptResponse, error) {
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
	if current.Status == models.AssignedStatusMaxAttemptsReached {
		return nil, NewBusinessErrorf("MAX_ATTEMPTS_REACHED", "assigned influencer %d already reached %d attempts", ErrMaxAttemptsReached, current.ID, current.AttemptsMade)
	}

	now := utils.UTCNow()
	attempt := current.AttemptsMade + 1

	response := &dto.RecordContactAttemptResponse{}

	updated := *current
	updated.AttemptsMade = attempt
	updated.LastContactedAt = &now

	var influencer *models.CampaignInfluencer
	if current.CampaignInfluencer != nil {
		copied := *current.CampaignInfluencer
		influencer = &copied
	} else {
		influencer, err = f.campaignInfluencerRepo.ByID(ctx, current.CampaignInfluencerID)
		if err != nil {
			return nil, err
		}
	}
	if influencer == nil {
		return nil, NewBusinessErrorf("ASSIGNED_INFLUENCER_NOT_FOUND", "campaign influencer %d not found", ErrAssignedInfluencerNotFound, current.CampaignInfluencerID)
	}
	influencer.TotalContactAttempts++

	if attempt == 1 {
		updated.Status = models.AssignedStatusAwaitingResponse
		influencer.Status = models.InfluencerStatusContacted
		response.StatusUpdates = append(response.StatusUpdates,
			"assigned influencer moved to awaiting_response",
			"campaign influencer moved to contacted")
	}
	if attempt >= utils.MaxContactAttempts {
		updated.Status = models.AssignedStatusMaxAttemptsReached
		response.StatusUpdates = append(response.StatusUpdates,
			fmt.Sprintf("assigned influencer reached the maximum of %d attempts", utils.MaxContactAttempts))
	}

	templateInfo, nextContactAt, err := f.resolveNextContact(ctx, influencer.CampaignListID, attempt, now, req.OverrideDelayHours)
	if err != nil {
		return nil, err
	}
	updated.NextContactAt = nextContactAt

	err = withTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.assignedInfluencerRepo.Update(txCtx, updated); err != nil {
			return fmt.Errorf("failed to update assigned influencer %d: %w", updated.ID, err)
		}
		if err := f.campaignInfluencerRepo.Update(txCtx, *influencer); err != nil {
			return fmt.Errorf("failed to update campaign influencer %d: %w", influencer.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response.Message = fmt.Sprintf("Contact attempt %d recorded", attempt)
	response.TemplateInfo = *templateInfo
	response.UpdatedRecord = dto.ContactAttemptRecordDTO{
		AssignedInfluencerID: updated.ID,
		AttemptsMade:         updated.AttemptsMade,
		Status:               string(updated.Status),
		LastContactedAt:      now,
		NextContactAt:        updated.NextContactAt,
	}
	return response, nil
}

// resolveNextContact computes the next contact time. An explicit override
// wins; otherwise the campaign's follow-up template with
// followup_sequence == attempt number decides. Missing templates leave
// next_contact_at unset with the reason reported.
func (f *ContactAttemptFlowImpl) resolveNextContact(ctx context.Context, campaignListID uint, attempt int, now time.Time, overrideHours *int) (*dto.TemplateInfoDTO, *time.Time, error) {
	if overrideHours != nil && *overrideHours > 0 {
		next := now.Add(time.Duration(*overrideHours) * time.Hour)
		return &dto.TemplateInfoDTO{
			Reason:     TemplateReasonManualOverride,
			DelayHours: overrideHours,
		}, &next, nil
	}

	list, err := f.campaignListRepo.ByID(ctx, campaignListID)
	if err != nil {
		return nil, nil, err
	}
	if list == nil {
		return &dto.TemplateInfoDTO{Reason: TemplateReasonCampaignListMissing}, nil, nil
	}

	initial, err := f.templateRepo.InitialByCampaign(ctx, list.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	if initial == nil {
		return &dto.TemplateInfoDTO{Reason: TemplateReasonNoInitialTemplate}, nil, nil
	}

	followup, err := f.templateRepo.FollowupBySequence(ctx, list.CampaignID, attempt)
	if err != nil {
		return nil, nil, err
	}
	if followup == nil {
		return &dto.TemplateInfoDTO{Reason: TemplateReasonNoFollowupTemplate}, nil, nil
	}

	delay := followup.DelayHours()
	next := now.Add(time.Duration(delay) * time.Hour)
	return &dto.TemplateInfoDTO{
		Reason:           TemplateReasonScheduled,
		TemplateID:       &followup.ID,
		FollowupSequence: followup.FollowupSequence,
		DelayHours:       &delay,
	}, &next, nil
}
