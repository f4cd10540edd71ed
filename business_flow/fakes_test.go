package businessflow

import (
	"context"
	"fmt"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
)

// fakeRepo is an in-memory stand-in for the generic repository used by the
// flow tests. Rows are stored by value so callers mutating returned copies
// only change the store through Save or Update.
type fakeRepo[T any, F any] struct {
	rows  []*T
	seq   *uint
	getID func(*T) uint
	setID func(*T, uint)
}

func (r *fakeRepo[T, F]) ByID(ctx context.Context, id uint) (*T, error) {
	for _, row := range r.rows {
		if r.getID(row) == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo[T, F]) ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error) {
	out := make([]*T, 0, len(r.rows))
	for _, row := range r.rows {
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeRepo[T, F]) Save(ctx context.Context, entity *T) error {
	if r.getID(entity) == 0 {
		*r.seq++
		r.setID(entity, *r.seq)
	}
	copied := *entity
	for i, row := range r.rows {
		if r.getID(row) == r.getID(entity) {
			r.rows[i] = &copied
			return nil
		}
	}
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakeRepo[T, F]) SaveBatch(ctx context.Context, entities []*T) error {
	for _, entity := range entities {
		if err := r.Save(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRepo[T, F]) Count(ctx context.Context, filter F) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *fakeRepo[T, F]) Exists(ctx context.Context, filter F) (bool, error) {
	return len(r.rows) > 0, nil
}

type fakeCampaignListRepo struct {
	*fakeRepo[models.CampaignList, models.CampaignListFilter]
}

func (r *fakeCampaignListRepo) ByUUID(ctx context.Context, uuid string) (*models.CampaignList, error) {
	for _, row := range r.rows {
		if row.UUID.String() == uuid {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeCampaignInfluencerRepo struct {
	*fakeRepo[models.CampaignInfluencer, models.CampaignInfluencerFilter]
}

func (r *fakeCampaignInfluencerRepo) UnassignedByList(ctx context.Context, campaignListID uint) ([]*models.CampaignInfluencer, error) {
	var out []*models.CampaignInfluencer
	for _, row := range r.rows {
		if row.CampaignListID == campaignListID && !utils.IsTrue(row.IsAssignedToAgent) {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCampaignInfluencerRepo) MarkAssigned(ctx context.Context, id uint, assigned bool) error {
	for _, row := range r.rows {
		if row.ID == id {
			row.IsAssignedToAgent = utils.ToPtr(assigned)
			return nil
		}
	}
	return fmt.Errorf("campaign influencer %d not found", id)
}

func (r *fakeCampaignInfluencerRepo) Update(ctx context.Context, influencer models.CampaignInfluencer) error {
	for i, row := range r.rows {
		if row.ID == influencer.ID {
			copied := influencer
			r.rows[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("campaign influencer %d not found", influencer.ID)
}

type fakeOutreachAgentRepo struct {
	*fakeRepo[models.OutreachAgent, models.OutreachAgentFilter]
}

func (r *fakeOutreachAgentRepo) EligibleForCompany(ctx context.Context, companyID uint) ([]*models.OutreachAgent, error) {
	var out []*models.OutreachAgent
	for _, row := range r.rows {
		if utils.IsTrue(row.IsAvailableForAssignment) && row.EligibleForCompany(companyID) {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOutreachAgentRepo) UpdateCounters(ctx context.Context, agentID uint, activeInfluencers, activeLists int) error {
	for _, row := range r.rows {
		if row.ID == agentID {
			row.ActiveInfluencersCount = activeInfluencers
			row.ActiveListsCount = activeLists
			return nil
		}
	}
	return fmt.Errorf("outreach agent %d not found", agentID)
}

type fakeAgentAssignmentRepo struct {
	*fakeRepo[models.AgentAssignment, models.AgentAssignmentFilter]
}

func (r *fakeAgentAssignmentRepo) ByAgentAndList(ctx context.Context, agentID, campaignListID uint) (*models.AgentAssignment, error) {
	for _, row := range r.rows {
		if row.AgentID == agentID && row.CampaignListID == campaignListID && !utils.IsTrue(row.IsDeleted) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAgentAssignmentRepo) NonDeletedByAgent(ctx context.Context, agentID uint) ([]*models.AgentAssignment, error) {
	var out []*models.AgentAssignment
	for _, row := range r.rows {
		if row.AgentID == agentID && !utils.IsTrue(row.IsDeleted) {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAgentAssignmentRepo) NonDeletedByList(ctx context.Context, campaignListID uint) ([]*models.AgentAssignment, error) {
	var out []*models.AgentAssignment
	for _, row := range r.rows {
		if row.CampaignListID == campaignListID && !utils.IsTrue(row.IsDeleted) {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAgentAssignmentRepo) ListNonDeleted(ctx context.Context) ([]*models.AgentAssignment, error) {
	var out []*models.AgentAssignment
	for _, row := range r.rows {
		if !utils.IsTrue(row.IsDeleted) {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAgentAssignmentRepo) Update(ctx context.Context, assignment models.AgentAssignment) error {
	for i, row := range r.rows {
		if row.ID == assignment.ID {
			copied := assignment
			r.rows[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("agent assignment %d not found", assignment.ID)
}

func (r *fakeAgentAssignmentRepo) UpdateAssignedCount(ctx context.Context, id uint, count int) error {
	for _, row := range r.rows {
		if row.ID == id {
			row.AssignedInfluencersCount = count
			return nil
		}
	}
	return fmt.Errorf("agent assignment %d not found", id)
}

type fakeAssignedInfluencerRepo struct {
	*fakeRepo[models.AssignedInfluencer, models.AssignedInfluencerFilter]

	assignments *fakeAgentAssignmentRepo
	influencers *fakeCampaignInfluencerRepo

	// failForInfluencer makes Save fail for work items that reference the
	// listed campaign influencer IDs, simulating per-row insert failures.
	failForInfluencer map[uint]bool
}

func (r *fakeAssignedInfluencerRepo) ByID(ctx context.Context, id uint) (*models.AssignedInfluencer, error) {
	row, err := r.fakeRepo.ByID(ctx, id)
	if err != nil || row == nil {
		return row, err
	}
	row.AgentAssignment, _ = r.assignments.ByID(ctx, row.AgentAssignmentID)
	row.CampaignInfluencer, _ = r.influencers.ByID(ctx, row.CampaignInfluencerID)
	return row, nil
}

func (r *fakeAssignedInfluencerRepo) Save(ctx context.Context, entity *models.AssignedInfluencer) error {
	if r.failForInfluencer[entity.CampaignInfluencerID] {
		return fmt.Errorf("simulated insert failure for influencer %d", entity.CampaignInfluencerID)
	}
	return r.fakeRepo.Save(ctx, entity)
}

func (r *fakeAssignedInfluencerRepo) Update(ctx context.Context, assigned models.AssignedInfluencer) error {
	for i, row := range r.rows {
		if row.ID == assigned.ID {
			copied := assigned
			copied.AgentAssignment = nil
			copied.CampaignInfluencer = nil
			r.rows[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("assigned influencer %d not found", assigned.ID)
}

func (r *fakeAssignedInfluencerRepo) CountActiveByAgent(ctx context.Context, agentID uint) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if !row.IsActive() {
			continue
		}
		assignment, _ := r.assignments.ByID(ctx, row.AgentAssignmentID)
		if assignment != nil && assignment.AgentID == agentID && !utils.IsTrue(assignment.IsDeleted) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssignedInfluencerRepo) CountActiveByAssignment(ctx context.Context, agentAssignmentID uint) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.AgentAssignmentID == agentAssignmentID && row.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssignedInfluencerRepo) CountByAssignment(ctx context.Context, agentAssignmentID uint) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.AgentAssignmentID == agentAssignmentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssignedInfluencerRepo) ActiveByCampaignInfluencer(ctx context.Context, campaignInfluencerID uint) (*models.AssignedInfluencer, error) {
	for _, row := range r.rows {
		if row.CampaignInfluencerID == campaignInfluencerID && row.IsActive() {
			return r.ByID(ctx, row.ID)
		}
	}
	return nil, nil
}

func (r *fakeAssignedInfluencerRepo) ListByAssignment(ctx context.Context, agentAssignmentID uint) ([]*models.AssignedInfluencer, error) {
	var out []*models.AssignedInfluencer
	for _, row := range r.rows {
		if row.AgentAssignmentID == agentAssignmentID {
			copied := *row
			copied.CampaignInfluencer, _ = r.influencers.ByID(ctx, copied.CampaignInfluencerID)
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeAssignmentHistoryRepo struct {
	*fakeRepo[models.InfluencerAssignmentHistory, models.InfluencerAssignmentHistoryFilter]
}

func (r *fakeAssignmentHistoryRepo) ByCampaignInfluencer(ctx context.Context, campaignInfluencerID uint) ([]*models.InfluencerAssignmentHistory, error) {
	var out []*models.InfluencerAssignmentHistory
	for _, row := range r.rows {
		if row.CampaignInfluencerID == campaignInfluencerID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeMessageTemplateRepo struct {
	*fakeRepo[models.MessageTemplate, models.MessageTemplateFilter]
}

func (r *fakeMessageTemplateRepo) InitialByCampaign(ctx context.Context, campaignID uint) (*models.MessageTemplate, error) {
	for _, row := range r.rows {
		if row.CampaignID == campaignID && row.TemplateType == models.TemplateTypeInitial {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageTemplateRepo) FollowupBySequence(ctx context.Context, campaignID uint, sequence int) (*models.MessageTemplate, error) {
	for _, row := range r.rows {
		if row.CampaignID != campaignID || row.TemplateType != models.TemplateTypeFollowup {
			continue
		}
		if row.FollowupSequence != nil && *row.FollowupSequence == sequence {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

type fakePlatformSettingRepo struct {
	*fakeRepo[models.PlatformSetting, models.PlatformSettingFilter]
}

func (r *fakePlatformSettingRepo) ByKey(ctx context.Context, key string) (*models.PlatformSetting, error) {
	for _, row := range r.rows {
		if row.Key == key {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePlatformSettingRepo) Upsert(ctx context.Context, key, value, valueType string) error {
	for _, row := range r.rows {
		if row.Key == key {
			row.Value = value
			row.ValueType = valueType
			return nil
		}
	}
	return r.Save(ctx, &models.PlatformSetting{Key: key, Value: value, ValueType: valueType})
}

// staticSettings satisfies SettingsProvider with fixed ceilings
type staticSettings struct {
	settings AssignmentSettings
}

func (s *staticSettings) AssignmentSettings(ctx context.Context) (AssignmentSettings, error) {
	return s.settings, nil
}

// fakeEnv wires a complete in-memory persistence layer plus builder helpers
// so flows can run without a database connection
type fakeEnv struct {
	seq uint

	lists       *fakeCampaignListRepo
	influencers *fakeCampaignInfluencerRepo
	agents      *fakeOutreachAgentRepo
	assignments *fakeAgentAssignmentRepo
	assigned    *fakeAssignedInfluencerRepo
	history     *fakeAssignmentHistoryRepo
	templates   *fakeMessageTemplateRepo
	settingRows *fakePlatformSettingRepo

	settings *staticSettings
	capacity *CapacityCalculator
}

func newFakeEnv() *fakeEnv {
	env := &fakeEnv{
		settings: &staticSettings{settings: AssignmentSettings{
			MaxConcurrentInfluencers:    utils.DefaultMaxConcurrentInfluencers,
			MaxInfluencersPerAssignment: utils.DefaultMaxInfluencersPerAssignment,
		}},
	}

	env.lists = &fakeCampaignListRepo{fakeRepo: &fakeRepo[models.CampaignList, models.CampaignListFilter]{
		seq:   &env.seq,
		getID: func(l *models.CampaignList) uint { return l.ID },
		setID: func(l *models.CampaignList, id uint) { l.ID = id },
	}}
	env.influencers = &fakeCampaignInfluencerRepo{fakeRepo: &fakeRepo[models.CampaignInfluencer, models.CampaignInfluencerFilter]{
		seq:   &env.seq,
		getID: func(i *models.CampaignInfluencer) uint { return i.ID },
		setID: func(i *models.CampaignInfluencer, id uint) { i.ID = id },
	}}
	env.agents = &fakeOutreachAgentRepo{fakeRepo: &fakeRepo[models.OutreachAgent, models.OutreachAgentFilter]{
		seq:   &env.seq,
		getID: func(a *models.OutreachAgent) uint { return a.ID },
		setID: func(a *models.OutreachAgent, id uint) { a.ID = id },
	}}
	env.assignments = &fakeAgentAssignmentRepo{fakeRepo: &fakeRepo[models.AgentAssignment, models.AgentAssignmentFilter]{
		seq:   &env.seq,
		getID: func(a *models.AgentAssignment) uint { return a.ID },
		setID: func(a *models.AgentAssignment, id uint) { a.ID = id },
	}}
	env.assigned = &fakeAssignedInfluencerRepo{
		fakeRepo: &fakeRepo[models.AssignedInfluencer, models.AssignedInfluencerFilter]{
			seq:   &env.seq,
			getID: func(a *models.AssignedInfluencer) uint { return a.ID },
			setID: func(a *models.AssignedInfluencer, id uint) { a.ID = id },
		},
		assignments:       env.assignments,
		influencers:       env.influencers,
		failForInfluencer: map[uint]bool{},
	}
	env.history = &fakeAssignmentHistoryRepo{fakeRepo: &fakeRepo[models.InfluencerAssignmentHistory, models.InfluencerAssignmentHistoryFilter]{
		seq:   &env.seq,
		getID: func(h *models.InfluencerAssignmentHistory) uint { return h.ID },
		setID: func(h *models.InfluencerAssignmentHistory, id uint) { h.ID = id },
	}}
	env.templates = &fakeMessageTemplateRepo{fakeRepo: &fakeRepo[models.MessageTemplate, models.MessageTemplateFilter]{
		seq:   &env.seq,
		getID: func(t *models.MessageTemplate) uint { return t.ID },
		setID: func(t *models.MessageTemplate, id uint) { t.ID = id },
	}}
	env.settingRows = &fakePlatformSettingRepo{fakeRepo: &fakeRepo[models.PlatformSetting, models.PlatformSettingFilter]{
		seq:   &env.seq,
		getID: func(s *models.PlatformSetting) uint { return s.ID },
		setID: func(s *models.PlatformSetting, id uint) { s.ID = id },
	}}

	env.capacity = NewCapacityCalculator(env.assignments, env.assigned, env.settings)
	return env
}

func (env *fakeEnv) counterSyncFlow() CounterSyncFlow {
	return NewCounterSyncFlow(env.agents, env.assignments, env.assigned, nil)
}

func (env *fakeEnv) bulkAssignmentFlow() BulkAssignmentFlow {
	return NewBulkAssignmentFlow(env.lists, env.influencers, env.agents, env.assignments, env.assigned,
		env.capacity, env.settings, env.counterSyncFlow(), nil)
}

func (env *fakeEnv) reassignmentFlow() ReassignmentFlow {
	return NewReassignmentFlow(env.lists, env.influencers, env.agents, env.assignments, env.assigned,
		env.history, env.capacity, env.settings, nil)
}

func (env *fakeEnv) contactAttemptFlow() ContactAttemptFlow {
	return NewContactAttemptFlow(env.lists, env.influencers, env.assigned, env.templates, nil)
}

func (env *fakeEnv) addCampaignList(companyID uint, name string) *models.CampaignList {
	env.seq++
	campaign := &models.Campaign{
		ID:        env.seq,
		CompanyID: companyID,
		Name:      name + " campaign",
		Status:    models.CampaignStatusActive,
	}
	list := &models.CampaignList{
		CampaignID: campaign.ID,
		Name:       name,
		Campaign:   campaign,
	}
	_ = env.lists.Save(context.Background(), list)
	return list
}

func (env *fakeEnv) addAgent(name string, companyID *uint, exclusive, available bool) *models.OutreachAgent {
	agent := &models.OutreachAgent{
		FullName:                 name,
		Email:                    name + "@example.com",
		CompanyID:                companyID,
		IsCompanyExclusive:       utils.ToPtr(exclusive),
		IsAvailableForAssignment: utils.ToPtr(available),
	}
	_ = env.agents.Save(context.Background(), agent)
	return agent
}

func (env *fakeEnv) addInfluencers(listID uint, n int) []*models.CampaignInfluencer {
	out := make([]*models.CampaignInfluencer, 0, n)
	for i := 0; i < n; i++ {
		influencer := &models.CampaignInfluencer{
			CampaignListID:    listID,
			Handle:            fmt.Sprintf("handle_%d_%d", listID, i),
			Platform:          "instagram",
			IsAssignedToAgent: utils.ToPtr(false),
			Status:            models.InfluencerStatusDiscovered,
		}
		_ = env.influencers.Save(context.Background(), influencer)
		out = append(out, influencer)
	}
	return out
}

func (env *fakeEnv) addAssignment(agentID, listID uint) *models.AgentAssignment {
	assignment := &models.AgentAssignment{
		AgentID:        agentID,
		CampaignListID: listID,
		IsDeleted:      utils.ToPtr(false),
	}
	_ = env.assignments.Save(context.Background(), assignment)
	return assignment
}

func (env *fakeEnv) addAssigned(assignmentID, influencerID uint, typ models.AssignmentType, status models.AssignedInfluencerStatus, attempts int) *models.AssignedInfluencer {
	assigned := &models.AssignedInfluencer{
		AgentAssignmentID:    assignmentID,
		CampaignInfluencerID: influencerID,
		Type:                 typ,
		Status:               status,
		AttemptsMade:         attempts,
	}
	_ = env.assigned.Save(context.Background(), assigned)
	if typ == models.AssignmentTypeActive {
		_ = env.influencers.MarkAssigned(context.Background(), influencerID, true)
	}
	return assigned
}

func (env *fakeEnv) addFollowupTemplate(campaignID uint, sequence int, delayHours *int) *models.MessageTemplate {
	template := &models.MessageTemplate{
		CampaignID:         campaignID,
		TemplateType:       models.TemplateTypeFollowup,
		FollowupSequence:   utils.ToPtr(sequence),
		FollowupDelayHours: delayHours,
		Body:               fmt.Sprintf("follow-up %d", sequence),
	}
	_ = env.templates.Save(context.Background(), template)
	return template
}

func (env *fakeEnv) addInitialTemplate(campaignID uint) *models.MessageTemplate {
	template := &models.MessageTemplate{
		CampaignID:   campaignID,
		TemplateType: models.TemplateTypeInitial,
		Body:         "hello",
	}
	_ = env.templates.Save(context.Background(), template)
	return template
}
