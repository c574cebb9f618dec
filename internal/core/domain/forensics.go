package domain

import "time"

const SchemaVersionImageForensicsV1 = "nexodify_image_forensics_v1"

type Finding struct {
	FindingID              string `json:"finding_id"`
	TitleIT                string `json:"title_it"`
	TitleEN                string `json:"title_en"`
	Severity               string `json:"severity"`
	Confidence             string `json:"confidence"`
	WhatISeeIT             string `json:"what_i_see_it"`
	WhatISeeEN             string `json:"what_i_see_en"`
	WhyItMattersIT         string `json:"why_it_matters_it"`
	WhyItMattersEN         string `json:"why_it_matters_en"`
	RecommendedNextPhotoIT string `json:"recommended_next_photo_it,omitempty"`
	RecommendedNextPhotoEN string `json:"recommended_next_photo_en,omitempty"`
}

type ComplianceFlag struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	NoteIT   string `json:"note_it"`
	NoteEN   string `json:"note_en"`
}

type ForensicsResult struct {
	SchemaVersion     string           `json:"schema_version"`
	Run               RunInfo          `json:"run"`
	Findings          []Finding        `json:"findings"`
	MaterialsObserved []string         `json:"materials_observed"`
	DefectsObserved   []string         `json:"defects_observed"`
	ComplianceFlags   []ComplianceFlag `json:"compliance_flags"`
	SummaryIT         string           `json:"summary_it"`
	SummaryEN         string           `json:"summary_en"`
}

type ImageForensics struct {
	ForensicsID string          `json:"forensics_id"`
	UserID      string          `json:"user_id"`
	CaseID      string          `json:"case_id"`
	RunID       string          `json:"run_id"`
	ImageCount  int             `json:"image_count"`
	Result      ForensicsResult `json:"result"`
	CreatedAt   time.Time       `json:"created_at"`
}
