package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/akolanti/DocIntel/internal/api"
	"github.com/akolanti/DocIntel/internal/rag/ingest"
)

type stubRagService struct {
	answer     string
	fromCache  bool
	answerErr  error
	ingestErr  error
	ingestName string
}

func (s *stubRagService) Answer(ctx context.Context, question string) (string, bool, error) {
	return s.answer, s.fromCache, s.answerErr
}

func (s *stubRagService) IngestDocument(ctx context.Context, docName string, docPath string) error {
	s.ingestName = docName
	return s.ingestErr
}

func decodeChat(t *testing.T, body *bytes.Buffer) api.ChatResponse {
	t.Helper()
	var resp api.ChatResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("Couldn't decode response: %v", err)
	}
	return resp
}

func TestChat(t *testing.T) {
	t.Run("fresh answer reports llm source", func(t *testing.T) {
		h := NewHandler(&stubRagService{answer: "Paris", fromCache: false})

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"capital of France?"}`))
		rec := httptest.NewRecorder()
		h.Chat(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		resp := decodeChat(t, rec.Body)
		if resp.Answer != "Paris" || resp.Source != api.SourceLLM {
			t.Errorf("Got %+v", resp)
		}
	})

	t.Run("cached answer reports cache source", func(t *testing.T) {
		h := NewHandler(&stubRagService{answer: "Paris", fromCache: true})

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"capital of France?"}`))
		rec := httptest.NewRecorder()
		h.Chat(rec, req)

		resp := decodeChat(t, rec.Body)
		if resp.Source != api.SourceCache {
			t.Errorf("Expected cache source, got %q", resp.Source)
		}
	})

	t.Run("session id is accepted", func(t *testing.T) {
		h := NewHandler(&stubRagService{answer: "ok"})

		body := `{"question":"q","session_id":"abc-123"}`
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Chat(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200 with a session id present, got %d", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewHandler(&stubRagService{})

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		h.Chat(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("empty question", func(t *testing.T) {
		h := NewHandler(&stubRagService{})

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":""}`))
		rec := httptest.NewRecorder()
		h.Chat(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		h := NewHandler(&stubRagService{answerErr: errors.New("llm down")})

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"q"}`))
		rec := httptest.NewRecorder()
		h.Chat(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", rec.Code)
		}
	})
}

func newUploadRequest(t *testing.T, fieldName, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// the upload handler stages files under temporary_data in the working
// directory and must leave nothing behind
func assertNoTempFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir("temporary_data")
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Temp directory still holds %d file(s)", len(entries))
	}
}

func TestUpload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubRagService{}
		h := NewHandler(stub)

		rec := httptest.NewRecorder()
		h.Upload(rec, newUploadRequest(t, "file", "handbook.pdf", "fake pdf bytes"))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.ingestName != "handbook.pdf" {
			t.Errorf("Service got document name %q", stub.ingestName)
		}
		var resp api.UploadResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Message == "" {
			t.Error("Expected a confirmation message")
		}
		assertNoTempFiles(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		h := NewHandler(&stubRagService{})

		rec := httptest.NewRecorder()
		h.Upload(rec, newUploadRequest(t, "wrongfield", "handbook.pdf", "bytes"))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("not multipart", func(t *testing.T) {
		h := NewHandler(&stubRagService{})

		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("plain body"))
		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("unparseable document", func(t *testing.T) {
		h := NewHandler(&stubRagService{ingestErr: ingest.ErrMalformedDocument})

		rec := httptest.NewRecorder()
		h.Upload(rec, newUploadRequest(t, "file", "scan.pdf", "not really a pdf"))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
		var resp api.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusBadRequest {
			t.Errorf("Error body carries code %d", resp.Code)
		}
	})

	t.Run("ingestion failure", func(t *testing.T) {
		h := NewHandler(&stubRagService{ingestErr: errors.New("qdrant unavailable")})

		rec := httptest.NewRecorder()
		h.Upload(rec, newUploadRequest(t, "file", "handbook.pdf", "bytes"))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", rec.Code)
		}
		assertNoTempFiles(t)
	})
}
