package dto

// AssignmentReportRequest represents the request to export a campaign list's assignments
type AssignmentReportRequest struct {
	CampaignListID uint `json:"-"`
}

// AssignmentReportResponse carries the generated workbook and its filename
type AssignmentReportResponse struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"-"`
}
