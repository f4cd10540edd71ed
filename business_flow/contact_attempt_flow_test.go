package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contactFixture is one active work item on a list with an initial template
type contactFixture struct {
	env        *fakeEnv
	list       *models.CampaignList
	influencer *models.CampaignInfluencer
	assigned   *models.AssignedInfluencer
}

func newContactFixture(t *testing.T) *contactFixture {
	t.Helper()
	env := newFakeEnv()
	list := env.addCampaignList(1, "spring")
	agent := env.addAgent("alpha", nil, false, true)
	assignment := env.addAssignment(agent.ID, list.ID)
	influencer := env.addInfluencers(list.ID, 1)[0]
	assigned := env.addAssigned(assignment.ID, influencer.ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)
	env.addInitialTemplate(list.CampaignID)
	return &contactFixture{env: env, list: list, influencer: influencer, assigned: assigned}
}

func TestRecordContactAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("first attempt moves both records forward and schedules the follow-up", func(t *testing.T) {
		fx := newContactFixture(t)
		fx.env.addFollowupTemplate(fx.list.CampaignID, 1, utils.ToPtr(48))

		res, err := fx.env.contactAttemptFlow().RecordContactAttempt(ctx, &dto.RecordContactAttemptRequest{
			AssignedInfluencerID: fx.assigned.ID,
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, "Contact attempt 1 recorded", res.Message)
		assert.Equal(t, 1, res.UpdatedRecord.AttemptsMade)
		assert.Equal(t, string(models.AssignedStatusAwaitingResponse), res.UpdatedRecord.Status)
		assert.Equal(t, TemplateReasonScheduled, res.TemplateInfo.Reason)
		require.NotNil(t, res.TemplateInfo.DelayHours)
		assert.Equal(t, 48, *res.TemplateInfo.DelayHours)
		require.NotNil(t, res.UpdatedRecord.NextContactAt)
		assert.WithinDuration(t, utils.UTCNow().Add(48*time.Hour), *res.UpdatedRecord.NextContactAt, 5*time.Second)

		row, err := fx.env.assigned.ByID(ctx, fx.assigned.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignedStatusAwaitingResponse, row.Status)
		assert.Equal(t, 1, row.AttemptsMade)
		assert.NotNil(t, row.LastContactedAt)

		influencer, err := fx.env.influencers.ByID(ctx, fx.influencer.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InfluencerStatusContacted, influencer.Status)
		assert.Equal(t, 1, influencer.TotalContactAttempts)
	})

	t.Run("template without a delay uses the platform default", func(t *testing.T) {
		fx := newContactFixture(t)
		fx.env.addFollowupTemplate(fx.list.CampaignID, 1, nil)

		res, err := fx.env.contactAttemptFlow().RecordContactAttempt(ctx, &dto.RecordContactAttemptRequest{
			AssignedInfluencerID: fx.assigned.ID,
		}, testMetadata())
		require.NoError(t, err)

		require.NotNil(t, res.TemplateInfo.DelayHours)
		assert.Equal(t, utils.DefaultFollowupDelayHours, *res.TemplateInfo.DelayHours)
		require.NotNil(t, res.UpdatedRecord.NextContactAt)
		assert.WithinDuration(t, utils.UTCNow().Add(24*time.Hour), *res.UpdatedRecord.NextContactAt, 5*time.Second)
	})

	t.Run("manual override wins over the template cadence", func(t *testing.T) {
		fx := newContactFixture(t)
		fx.env.addFollowupTemplate(fx.list.CampaignID, 1, utils.ToPtr(48))

		res, err := fx.env.contactAttemptFlow().RecordContactAttempt(ctx, &dto.RecordContactAttemptRequest{
			AssignedInfluencerID: fx.assigned.ID,
			OverrideDelayHours:   utils.ToPtr(6),
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, TemplateReasonManualOverride, res.TemplateInfo.Reason)
		assert.Nil(t, res.TemplateInfo.TemplateID)
		require.NotNil(t, res.UpdatedRecord.NextContactAt)
		assert.WithinDuration(t, utils.UTCNow().Add(6*time.Hour), *res.UpdatedRecord.NextContactAt, 5*time.Second)
	})

	t.Run("missing initial template leaves next contact unset", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		agent := env.addAgent("alpha", nil, false, true)
		assignment := env.addAssignment(agent.ID, list.ID)
		influencer := env.addInfluencers(list.ID, 1)[0]
		assigned := env.addAssigned(assignment.ID, influencer.ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)

		res, err := env.contactAttemptFlow().RecordContactAttempt(ctx, &dto.RecordContactAttemptRequest{
			AssignedInfluencerID: assigned.ID,
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, TemplateReasonNoInitialTemplate, res.TemplateInfo.Reason)
		assert.Nil(t, res.UpdatedRecord.NextContactAt)
	})

	t.Run("missing follow-up for the attempt number is reported", func(t *testing.T) {
		fx := newContactFixture(t)
		fx.env.addFollowupTemplate(fx.list.CampaignID, 2, utils.ToPtr(48))

		res, err := fx.env.contactAttemptFlow().RecordContactAttempt(ctx, &dto.RecordContactAttemptRequest{
			AssignedInfluencerID: fx.assigned.ID,
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, TemplateReasonNoFollowupTemplate, res.TemplateInfo.Reason)
		assert.Nil(t, res.UpdatedRecord.NextContactAt)
	})

	t.Run("the final attempt flips the work item to max attempts reached", func(t *testing.T) {
		fx := newContactFixture(t)
		fx.env.addFollowupTemplate(fx.list.CampaignID, 1, nil)
		fx.env.addFollowupTemplate(fx.list.CampaignID, 2, nil)

		flow := fx.env.contactAttemptFlow()
		for i := 0; i < utils.MaxContactAttempts; i++ {
			res, err := flow.RecordContactAttempt(ctx, &dto.RecordContactAttemptRequest{
				AssignedInfluencerID: fx.assigned.ID,
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, i+1, res.UpdatedRecord.AttemptsMade)
		}

		row, err := fx.env.assigned.ByID(ctx, fx.assigned.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignedStatusMaxAttemptsReached, row.Status)
		assert.Equal(t, utils.MaxContactAttempts, row.AttemptsMade)

		_, err = flow.RecordContactAttempt(ctx, &dto.RecordContactAttemptRequest{
			AssignedInfluencerID: fx.assigned.ID,
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsMaxAttemptsReached(err))
		assert.Equal(t, "MAX_ATTEMPTS_REACHED", businessCode(t, err))

		// Rejected attempts must not advance the counters.
		row, err = fx.env.assigned.ByID(ctx, fx.assigned.ID)
		require.NoError(t, err)
		assert.Equal(t, utils.MaxContactAttempts, row.AttemptsMade)
		influencer, err := fx.env.influencers.ByID(ctx, fx.influencer.ID)
		require.NoError(t, err)
		assert.Equal(t, utils.MaxContactAttempts, influencer.TotalContactAttempts)
	})

	t.Run("archived work items reject attempts", func(t *testing.T) {
		fx := newContactFixture(t)
		archived := *fx.assigned
		archived.Type = models.AssignmentTypeArchived
		require.NoError(t, fx.env.assigned.Update(ctx, archived))

		_, err := fx.env.contactAttemptFlow().RecordContactAttempt(ctx, &dto.RecordContactAttemptRequest{
			AssignedInfluencerID: fx.assigned.ID,
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsNoActiveAssignment(err))
	})
}
