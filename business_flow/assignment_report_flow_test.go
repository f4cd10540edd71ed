package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDownloadAssignmentReport(t *testing.T) {
	ctx := context.Background()

	t.Run("one sheet per agent with that agent's work items", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "spring")
		alpha := env.addAgent("Alpha Agent", nil, false, true)
		beta := env.addAgent("Beta Agent", nil, false, true)

		alphaAssignment := env.addAssignment(alpha.ID, list.ID)
		betaAssignment := env.addAssignment(beta.ID, list.ID)
		influencers := env.addInfluencers(list.ID, 3)
		env.addAssigned(alphaAssignment.ID, influencers[0].ID, models.AssignmentTypeActive, models.AssignedStatusAssigned, 0)
		env.addAssigned(alphaAssignment.ID, influencers[1].ID, models.AssignmentTypeArchived, models.AssignedStatusAssigned, 2)
		env.addAssigned(betaAssignment.ID, influencers[2].ID, models.AssignmentTypeActive, models.AssignedStatusAwaitingResponse, 1)

		flow := NewAssignmentReportFlow(env.lists, env.agents, env.assignments, env.assigned)
		res, err := flow.DownloadAssignmentReport(ctx, &dto.AssignmentReportRequest{CampaignListID: list.ID})
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("assignment_report_list_%d.xlsx", list.ID), res.FileName)
		require.NotEmpty(t, res.Content)

		xl, err := excelize.OpenReader(bytes.NewReader(res.Content))
		require.NoError(t, err)
		defer func() { _ = xl.Close() }()

		assert.ElementsMatch(t, []string{"Alpha Agent", "Beta Agent"}, xl.GetSheetList())

		rows, err := xl.GetRows("Alpha Agent")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "assigned_influencer_id", rows[0][0])
		assert.Equal(t, influencers[0].Handle, rows[1][1])
		assert.Equal(t, "active", rows[1][3])
		assert.Equal(t, "archived", rows[2][3])
		assert.Equal(t, "2", rows[2][5])

		rows, err = xl.GetRows("Beta Agent")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "awaiting_response", rows[1][4])
	})

	t.Run("missing campaign list", func(t *testing.T) {
		env := newFakeEnv()
		flow := NewAssignmentReportFlow(env.lists, env.agents, env.assignments, env.assigned)

		_, err := flow.DownloadAssignmentReport(ctx, &dto.AssignmentReportRequest{CampaignListID: 404})
		require.Error(t, err)
		assert.True(t, IsCampaignListNotFound(err))
	})

	t.Run("empty list still yields a readable workbook", func(t *testing.T) {
		env := newFakeEnv()
		list := env.addCampaignList(1, "empty")

		flow := NewAssignmentReportFlow(env.lists, env.agents, env.assignments, env.assigned)
		res, err := flow.DownloadAssignmentReport(ctx, &dto.AssignmentReportRequest{CampaignListID: list.ID})
		require.NoError(t, err)

		xl, err := excelize.OpenReader(bytes.NewReader(res.Content))
		require.NoError(t, err)
		defer func() { _ = xl.Close() }()
		assert.NotEmpty(t, xl.GetSheetList())
	})
}
