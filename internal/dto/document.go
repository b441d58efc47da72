package dto

type DocumentResponse struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	SourceFormat string `json:"source_format"`
	DocType      string `json:"doc_type"`
	Category     string `json:"category"`
	IsNormative  bool   `json:"is_normative"`
	Active       bool   `json:"active"`
	Description  string `json:"description"`
	QualityScore int    `json:"quality_score"`
	QualityBand  string `json:"quality_band"`
	CreatedAt    string `json:"created_at"`
}

type DocumentDetailResponse struct {
	DocumentResponse
	ExtractedText  string `json:"extracted_text,omitempty"`
	AnalysisReport string `json:"analysis_report,omitempty"`
}

type UpdateDocumentRequest struct {
	DocType     *string `json:"doc_type,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsNormative *bool   `json:"is_normative,omitempty"`
	Description *string `json:"description,omitempty"`
}

type EvidenceResponse struct {
	ID             string `json:"id"`
	SessionID      string `json:"session_id"`
	FileName       string `json:"file_name"`
	EvidenceType   string `json:"evidence_type"`
	Factor         string `json:"factor"`
	Characteristic string `json:"characteristic"`
	CreatedAt      string `json:"created_at"`
}
