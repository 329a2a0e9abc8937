package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocIntel/internal/adapter"
	"github.com/akolanti/DocIntel/internal/api"
	"github.com/akolanti/DocIntel/internal/rag"
	"github.com/akolanti/DocIntel/internal/rag/ingest"
	"github.com/akolanti/DocIntel/pkg/logger_i"
)

// Handler carries the injected RAG service - no singletons, so tests can
// construct one around a fake.
type Handler struct {
	rag    rag.Service
	logger *logger_i.Logger
}

func NewHandler(ragService rag.Service) *Handler {
	return &Handler{
		rag:    ragService,
		logger: logger_i.NewLogger("RequestHandler"),
	}
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Chat godoc
// @Summary      Answer a question over the indexed corpus
// @Description  Checks the versioned answer cache first; on a miss runs retrieve -> prompt -> complete and caches the result. The source field reports the provenance.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest   true  "Question and optional session id (session id accepted but unused)"
// @Success      200      {object}  api.ChatResponse  "Answer with provenance"
// @Failure      400      {object}  api.ErrorResponse "Invalid request body"
// @Failure      500      {object}  api.ErrorResponse "A collaborator failed"
// @Router       /chat [post]
func (h *Handler) Chat(w http.ResponseWriter, request *http.Request) {
	if !h.validateContext(request.Context()) {
		h.logger.Warn("Invalid Context by request ", "remote", request.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			h.logger.Error("Couldn't close the Chat handler reader", "error", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Question == "" {
		h.logger.Warn("Bad Chat Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}

	answer, fromCache, err := h.rag.Answer(request.Context(), requestData.Question)
	if err != nil {
		h.logger.Error("Answering failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(answer, fromCache))
}

// Upload godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, indexes it into the vector store, and bumps the corpus version so previously cached answers go stale.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The PDF or DOCX file to upload"
// @Success      200  {object}  api.UploadResponse "File processed and indexed"
// @Failure      400  {object}  api.ErrorResponse  "Missing file or unparseable document"
// @Failure      500  {object}  api.ErrorResponse  "Storage or collaborator error"
// @Router       /upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		h.logger.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		h.logger.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, errString)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileMetadata.Filename))
	tempFilePath := filepath.Join(targetDir, filename)

	if err := writeTempFile(tempFilePath, fileReader); err != nil {
		h.logger.Error("Couldn't persist upload", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	// the temp file goes away on every exit path, success or failure
	defer func() {
		if err := os.Remove(tempFilePath); err != nil {
			h.logger.Error("Error removing temp file", "path", tempFilePath, "error", err)
		}
	}()

	if err := h.rag.IngestDocument(r.Context(), fileMetadata.Filename, tempFilePath); err != nil {
		h.logger.Error("Ingestion failed", "document", fileMetadata.Filename, "error", err)
		if errors.Is(err, ingest.ErrMalformedDocument) {
			WriteErrorResponse(w, http.StatusBadRequest, "Could not parse document")
			return
		}
		WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse())
}

func writeTempFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
