// Package testing provides test utilities and database setup for testing the allocation engine
package testing

import (
	"fmt"
	"math/rand"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCampaignList creates a campaign owned by the company plus one list under it
func (tf *TestFixtures) CreateTestCampaignList(companyID uint, name string) (*models.CampaignList, error) {
	campaign := &models.Campaign{
		CompanyID: companyID,
		Name:      fmt.Sprintf("%s campaign", name),
		Status:    models.CampaignStatusActive,
	}
	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}

	list := &models.CampaignList{
		CampaignID: campaign.ID,
		Name:       name,
	}
	if err := tf.DB.DB.Create(list).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign list: %w", err)
	}
	list.Campaign = campaign

	return list, nil
}

// CreateTestAgent creates an available outreach agent. companyID nil makes it
// a platform-shared agent.
func (tf *TestFixtures) CreateTestAgent(name string, companyID *uint) (*models.OutreachAgent, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	agent := &models.OutreachAgent{
		FullName:                 name,
		Email:                    fmt.Sprintf("%s.%s@example.com", name, randomDigits),
		CompanyID:                companyID,
		IsCompanyExclusive:       utils.ToPtr(false),
		IsAvailableForAssignment: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(agent).Error; err != nil {
		return nil, fmt.Errorf("failed to create test agent: %w", err)
	}

	return agent, nil
}

// CreateTestInfluencers creates n unassigned influencers on the list
func (tf *TestFixtures) CreateTestInfluencers(campaignListID uint, n int) ([]*models.CampaignInfluencer, error) {
	influencers := make([]*models.CampaignInfluencer, 0, n)
	for i := 0; i < n; i++ {
		influencer := &models.CampaignInfluencer{
			CampaignListID:    campaignListID,
			Handle:            fmt.Sprintf("influencer_%d_%d", campaignListID, i),
			Platform:          "instagram",
			IsAssignedToAgent: utils.ToPtr(false),
			Status:            models.InfluencerStatusDiscovered,
		}
		if err := tf.DB.DB.Create(influencer).Error; err != nil {
			return nil, fmt.Errorf("failed to create test influencer: %w", err)
		}
		influencers = append(influencers, influencer)
	}

	return influencers, nil
}

// CreateTestAssignment pairs the agent with the list
func (tf *TestFixtures) CreateTestAssignment(agentID, campaignListID uint) (*models.AgentAssignment, error) {
	assignment := &models.AgentAssignment{
		AgentID:        agentID,
		CampaignListID: campaignListID,
		IsDeleted:      utils.ToPtr(false),
	}
	if err := tf.DB.DB.Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to create test assignment: %w", err)
	}

	return assignment, nil
}

// CreateTestAssignedInfluencer creates one work item under an assignment and
// flags the influencer as assigned when the item is active
func (tf *TestFixtures) CreateTestAssignedInfluencer(assignmentID, influencerID uint, typ models.AssignmentType) (*models.AssignedInfluencer, error) {
	assigned := &models.AssignedInfluencer{
		AgentAssignmentID:    assignmentID,
		CampaignInfluencerID: influencerID,
		Type:                 typ,
		Status:               models.AssignedStatusAssigned,
	}
	if err := tf.DB.DB.Create(assigned).Error; err != nil {
		return nil, fmt.Errorf("failed to create test assigned influencer: %w", err)
	}

	if typ == models.AssignmentTypeActive {
		err := tf.DB.DB.Model(&models.CampaignInfluencer{}).
			Where("id = ?", influencerID).
			Update("is_assigned_to_agent", true).Error
		if err != nil {
			return nil, fmt.Errorf("failed to flag test influencer as assigned: %w", err)
		}
	}

	return assigned, nil
}

// CreateTestTemplates creates an initial template plus followups follow-up
// templates, each with the given delay in hours
func (tf *TestFixtures) CreateTestTemplates(campaignID uint, followups, delayHours int) error {
	initial := &models.MessageTemplate{
		CampaignID:   campaignID,
		TemplateType: models.TemplateTypeInitial,
		Body:         "Hi {{handle}}, we would love to work with you!",
	}
	if err := tf.DB.DB.Create(initial).Error; err != nil {
		return fmt.Errorf("failed to create initial template: %w", err)
	}

	for seq := 1; seq <= followups; seq++ {
		followup := &models.MessageTemplate{
			CampaignID:         campaignID,
			TemplateType:       models.TemplateTypeFollowup,
			ParentTemplateID:   &initial.ID,
			FollowupSequence:   utils.ToPtr(seq),
			FollowupDelayHours: utils.ToPtr(delayHours),
			Body:               fmt.Sprintf("Follow-up %d for {{handle}}", seq),
		}
		if err := tf.DB.DB.Create(followup).Error; err != nil {
			return fmt.Errorf("failed to create follow-up template %d: %w", seq, err)
		}
	}

	return nil
}

// CreateTestSettings persists the capacity ceilings as platform setting rows
func (tf *TestFixtures) CreateTestSettings(maxConcurrent, maxPerAssignment int) error {
	settings := []*models.PlatformSetting{
		{Key: utils.SettingKeyMaxConcurrentInfluencers, Value: fmt.Sprintf("%d", maxConcurrent), ValueType: "int"},
		{Key: utils.SettingKeyMaxInfluencersPerAssignment, Value: fmt.Sprintf("%d", maxPerAssignment), ValueType: "int"},
	}

	for _, setting := range settings {
		if err := tf.DB.DB.Create(setting).Error; err != nil {
			return fmt.Errorf("failed to create setting %s: %w", setting.Key, err)
		}
	}

	return nil
}
