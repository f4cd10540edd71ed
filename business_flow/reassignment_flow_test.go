package businessflow

import (
	"context"
	"testing"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReassignInfluencer(t *testing.T) {
	ctx := context.Background()

	t.Run("archives the old work item and creates a replacement", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		from := env.addAgent("from", nil, false, true)
		to := env.addAgent("to", nil, false, true)

		assignment := env.addAssignment(from.ID, list.ID)
		influencer := env.addInfluencers(list.ID, 1)[0]
		now := utils.UTCNow()
		current := env.addAssigned(assignment.ID, influencer.ID, models.AssignmentTypeActive, models.AssignedStatusAwaitingResponse, 2)
		current.LastContactedAt = &now
		require.NoError(t, env.assigned.fakeRepo.Save(ctx, current))

		res, err := env.reassignmentFlow().ReassignInfluencer(ctx, &dto.ReassignInfluencerRequest{
			AssignedInfluencerID: current.ID,
			Reason:               "influencer not responding",
			ReassignedBy:         "ops@example.com",
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, from.ID, res.FromAgentID)
		assert.Equal(t, to.ID, res.ToAgentID)
		assert.NotEqual(t, current.ID, res.AssignedInfluencerID)

		old, err := env.assigned.ByID(ctx, current.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignmentTypeArchived, old.Type)
		assert.NotNil(t, old.ArchivedAt)

		replacement, err := env.assigned.ByID(ctx, res.AssignedInfluencerID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignmentTypeActive, replacement.Type)
		assert.Equal(t, models.AssignedStatusAssigned, replacement.Status)
		assert.Zero(t, replacement.AttemptsMade)
		assert.Equal(t, influencer.ID, replacement.CampaignInfluencerID)

		newAssignment, err := env.assignments.ByID(ctx, res.NewAgentAssignmentID)
		require.NoError(t, err)
		assert.Equal(t, to.ID, newAssignment.AgentID)
		assert.Equal(t, 1, newAssignment.AssignedInfluencersCount)

		row, err := env.influencers.ByID(ctx, influencer.ID)
		require.NoError(t, err)
		assert.True(t, utils.IsTrue(row.IsAssignedToAgent))

		entries, err := env.history.ByCampaignInfluencer(ctx, influencer.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		entry := entries[0]
		assert.Equal(t, from.ID, entry.FromAgentID)
		assert.Equal(t, to.ID, entry.ToAgentID)
		assert.Equal(t, "influencer not responding", entry.Reason)
		assert.Equal(t, 2, entry.AttemptsBeforeReassignment)
		assert.Equal(t, "ops@example.com", entry.TriggeredBy)
		assert.Equal(t, current.ID, entry.Snapshot.AssignedInfluencerID)
		assert.Equal(t, list.ID, entry.Snapshot.CampaignListID)
		assert.Equal(t, models.AssignedStatusAwaitingResponse, entry.Snapshot.Status)
		assert.Equal(t, 2, entry.Snapshot.AttemptsMade)
		assert.NotNil(t, entry.Snapshot.LastContactedAt)
	})

	t.Run("unknown work item", func(t *testing.T) {
		env := newFakeEnv()
		_, err := env.reassignmentFlow().ReassignInfluencer(ctx, &dto.ReassignInfluencerRequest{
			AssignedInfluencerID: 99,
			Reason:               "gone",
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsAssignedInfluencerNotFound(err))
	})

	t.Run("archived work item cannot be reassigned", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		agent := env.addAgent("alpha", nil, false, true)
		assignment := env.addAssignment(agent.ID, list.ID)
		influencer := env.addInfluencers(list.ID, 1)[0]
		archived := env.addAssigned(assignment.ID, influencer.ID, models.AssignmentTypeArchived, models.AssignedStatusAssigned, 1)

		_, err := env.reassignmentFlow().ReassignInfluencer(ctx, &dto.ReassignInfluencerRequest{
			AssignedInfluencerID: archived.ID,
			Reason:               "retry",
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsNoActiveAssignment(err))
	})

	t.Run("no candidate leaves everything untouched", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		only := env.addAgent("only", nil, false, true)
		env.addAgent("wrong-company", utils.ToPtr(uint(2)), false, true)

		assignment := env.addAssignment(only.ID, list.ID)
		influencer := env.addInfluencers(list.ID, 1)[0]
		current := env.addAssigned(assignment.ID, influencer.ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)

		_, err := env.reassignmentFlow().ReassignInfluencer(ctx, &dto.ReassignInfluencerRequest{
			AssignedInfluencerID: current.ID,
			Reason:               "rebalance",
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsNoReassignmentCandidate(err))
		assert.Equal(t, "NO_REASSIGNMENT_CANDIDATE", businessCode(t, err))

		row, err := env.assigned.ByID(ctx, current.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignmentTypeActive, row.Type)
		assert.Nil(t, row.ArchivedAt)

		entries, err := env.history.ByCampaignInfluencer(ctx, influencer.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("defaults the audit trigger to system", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		from := env.addAgent("from", nil, false, true)
		env.addAgent("to", nil, false, true)

		assignment := env.addAssignment(from.ID, list.ID)
		influencer := env.addInfluencers(list.ID, 1)[0]
		current := env.addAssigned(assignment.ID, influencer.ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)

		_, err := env.reassignmentFlow().ReassignInfluencer(ctx, &dto.ReassignInfluencerRequest{
			AssignedInfluencerID: current.ID,
			Reason:               "rebalance",
		}, testMetadata())
		require.NoError(t, err)

		entries, err := env.history.ByCampaignInfluencer(ctx, influencer.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "system", entries[0].TriggeredBy)
	})

	t.Run("prefer existing picks a peer already on the list", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		from := env.addAgent("from", nil, false, true)
		fresh := env.addAgent("fresh", nil, false, true)
		peer := env.addAgent("peer", nil, false, true)

		fromAssignment := env.addAssignment(from.ID, list.ID)
		env.addAssignment(peer.ID, list.ID)
		influencer := env.addInfluencers(list.ID, 1)[0]
		current := env.addAssigned(fromAssignment.ID, influencer.ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)

		res, err := env.reassignmentFlow().ReassignInfluencer(ctx, &dto.ReassignInfluencerRequest{
			AssignedInfluencerID: current.ID,
			Reason:               "rebalance",
			PreferExisting:       true,
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, peer.ID, res.ToAgentID)

		// Without the preference the pool ordering wins and the fresh
		// agent never jumps the queue.
		res2, err := env.reassignmentFlow().ReassignInfluencer(ctx, &dto.ReassignInfluencerRequest{
			AssignedInfluencerID: res.AssignedInfluencerID,
			Reason:               "rebalance again",
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, from.ID, res2.ToAgentID)
		assert.NotEqual(t, fresh.ID, res2.ToAgentID)
	})
}
