package api

// answer provenance for the chat endpoint
const (
	SourceCache = "cache"
	SourceLLM   = "llm"
)

type ChatResponse struct {
	Answer string `json:"answer" example:"Paris"`
	Source string `json:"source" example:"llm" enums:"cache,llm"`
}

type UploadResponse struct {
	Message string `json:"message" example:"File processed and indexed successfully"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Bad Request"`
}

// requests---------------------

// SessionID is accepted for API compatibility but nothing is scoped to it.
type ChatRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionID string `json:"session_id,omitempty"`
}
