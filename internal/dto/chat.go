package dto

type ChatRequest struct {
	Mensaje   string `json:"mensaje"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Respuesta      string `json:"respuesta"`
	SessionID      string `json:"session_id"`
	UsedRepository bool   `json:"used_repository"`
	UsedEvidence   bool   `json:"used_evidence"`
	UsedWeb        bool   `json:"used_web"`
}

type HistoryEntry struct {
	Query     string `json:"mensaje"`
	Response  string `json:"respuesta"`
	CreatedAt string `json:"timestamp"`
}

type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Historial []HistoryEntry `json:"historial"`
}
