package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/DocIntel/internal/adapter"
	"github.com/akolanti/DocIntel/internal/config"
	"github.com/akolanti/DocIntel/pkg/logger_i"
)

const maxUploadSize = config.MaxUploadSize

var logRH = logger_i.NewLogger("handlers")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(httpCode, message))
}

func (h *Handler) validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		h.logger.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		h.logger.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}
