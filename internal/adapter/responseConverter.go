package adapter

import (
	"github.com/akolanti/DocIntel/internal/api"
)

func ToChatResponse(answer string, fromCache bool) api.ChatResponse {
	source := api.SourceLLM
	if fromCache {
		source = api.SourceCache
	}
	return api.ChatResponse{
		Answer: answer,
		Source: source,
	}
}

func ToUploadResponse() api.UploadResponse {
	return api.UploadResponse{
		Message: "File processed and indexed successfully",
	}
}

func BadRequest(code int, message string) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
	}
}
