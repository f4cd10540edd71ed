package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/repository"
	"github.com/xuri/excelize/v2"
)

// AssignmentReportFlow exports a campaign list's assignments as a workbook
type AssignmentReportFlow interface {
	DownloadAssignmentReport(ctx context.Context, req *dto.AssignmentReportRequest) (*dto.AssignmentReportResponse, error)
}

// AssignmentReportFlowImpl implements AssignmentReportFlow
type AssignmentReportFlowImpl struct {
	campaignListRepo       repository.CampaignListRepository
	agentRepo              repository.OutreachAgentRepository
	agentAssignmentRepo    repository.AgentAssignmentRepository
	assignedInfluencerRepo repository.AssignedInfluencerRepository
}

// NewAssignmentReportFlow creates a new assignment report flow
func NewAssignmentReportFlow(
	campaignListRepo repository.CampaignListRepository,
	agentRepo repository.OutreachAgentRepository,
	agentAssignmentRepo repository.AgentAssignmentRepository,
	assignedInfluencerRepo repository.AssignedInfluencerRepository,
) AssignmentReportFlow {
	return &AssignmentReportFlowImpl{
		campaignListRepo:       campaignListRepo,
		agentRepo:              agentRepo,
		agentAssignmentRepo:    agentAssignmentRepo,
		assignedInfluencerRepo: assignedInfluencerRepo,
	}
}

// DownloadAssignmentReport builds an xlsx workbook with one sheet per agent
// holding that agent's work items on the list
func (f *AssignmentReportFlowImpl) DownloadAssignmentReport(ctx context.Context, req *dto.AssignmentReportRequest) (*dto.AssignmentReportResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	list, err := f.campaignListRepo.ByID(ctx, req.CampaignListID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, NewBusinessErrorf("CAMPAIGN_LIST_NOT_FOUND", "campaign list %d not found", ErrCampaignListNotFound, req.CampaignListID)
	}

	assignments, err := f.agentAssignmentRepo.NonDeletedByList(ctx, list.ID)
	if err != nil {
		return nil, NewBusinessError("FETCH_ASSIGNMENTS_FAILED", "Failed to fetch assignments for campaign list", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	usedNames := map[string]bool{}
	for i, assignment := range assignments {
		agent, err := f.agentRepo.ByID(ctx, assignment.AgentID)
		if err != nil {
			return nil, err
		}

		baseName := fmt.Sprintf("agent_%d", assignment.AgentID)
		if agent != nil && strings.TrimSpace(agent.FullName) != "" {
			baseName = agent.FullName
		}
		name := sanitizeSheetName(baseName)
		idx := 1
		for usedNames[name] {
			idx++
			name = truncateSheetName(fmt.Sprintf("%s_%d", name, idx))
		}
		usedNames[name] = true
		if i == 0 {
			xl.SetSheetName(xl.GetSheetName(0), name)
		} else {
			_, _ = xl.NewSheet(name)
		}

		header := []string{"assigned_influencer_id", "influencer_handle", "platform", "type", "status", "attempts_made", "last_contacted_at", "next_contact_at", "responded_at", "archived_at", "created_at"}
		_ = xl.SetSheetRow(name, "A1", &header)

		items, err := f.assignedInfluencerRepo.ListByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, NewBusinessErrorf("FETCH_ASSIGNED_INFLUENCERS_FAILED", "Failed to fetch work items for assignment %d", err, assignment.ID)
		}

		for ri, item := range items {
			handle := ""
			platform := ""
			if item.CampaignInfluencer != nil {
				handle = item.CampaignInfluencer.Handle
				platform = item.CampaignInfluencer.Platform
			}
			record := []string{
				strconv.FormatUint(uint64(item.ID), 10),
				handle,
				platform,
				string(item.Type),
				string(item.Status),
				strconv.Itoa(item.AttemptsMade),
				formatReportTime(item.LastContactedAt),
				formatReportTime(item.NextContactAt),
				formatReportTime(item.RespondedAt),
				formatReportTime(item.ArchivedAt),
				item.CreatedAt.UTC().Format(time.RFC3339),
			}
			cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
			_ = xl.SetSheetRow(name, cellRef, &record)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	return &dto.AssignmentReportResponse{
		FileName: fmt.Sprintf("assignment_report_list_%d.xlsx", list.ID),
		Content:  buf.Bytes(),
	}, nil
}

func formatReportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \\ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

func truncateSheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	if name == "" {
		return "Sheet"
	}
	return name
}
