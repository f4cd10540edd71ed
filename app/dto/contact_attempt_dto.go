package dto

import "time"

// RecordContactAttemptRequest represents the request to record one outreach attempt
type RecordContactAttemptRequest struct {
	AssignedInfluencerID uint    `json:"-"`
	OverrideDelayHours   *int    `json:"override_delay_hours,omitempty" validate:"omitempty,min=1,max=720"`
	Notes                *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// TemplateInfoDTO explains how the next contact time was resolved
type TemplateInfoDTO struct {
	Reason           string `json:"reason"`
	TemplateID       *uint  `json:"template_id,omitempty"`
	FollowupSequence *int   `json:"followup_sequence,omitempty"`
	DelayHours       *int   `json:"delay_hours,omitempty"`
}

// ContactAttemptRecordDTO represents the work item after the attempt was recorded
type ContactAttemptRecordDTO struct {
	AssignedInfluencerID uint       `json:"assigned_influencer_id"`
	AttemptsMade         int        `json:"attempts_made"`
	Status               string     `json:"status"`
	LastContactedAt      time.Time  `json:"last_contacted_at"`
	NextContactAt        *time.Time `json:"next_contact_at,omitempty"`
}

// RecordContactAttemptResponse represents the contact attempt outcome
type RecordContactAttemptResponse struct {
	Message       string                  `json:"message"`
	UpdatedRecord ContactAttemptRecordDTO `json:"updated_record"`
	TemplateInfo  TemplateInfoDTO         `json:"template_info"`
	StatusUpdates []string                `json:"status_updates,omitempty"`
}
