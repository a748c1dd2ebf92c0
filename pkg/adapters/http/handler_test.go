// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/docuchat/docuchat/pkg/core/api"
	"github.com/docuchat/docuchat/pkg/core/config"
	"github.com/docuchat/docuchat/pkg/core/engine"
	"github.com/docuchat/docuchat/pkg/core/schema"
	"github.com/docuchat/docuchat/pkg/core/services"
	docmemory "github.com/docuchat/docuchat/pkg/docstore/memory"
	filememory "github.com/docuchat/docuchat/pkg/filestore/memory"
	"github.com/docuchat/docuchat/pkg/observability/logging"
)

// fakeExtract parses nothing: content starting with "FAIL" simulates a
// parser error, anything else extracts as-is with one declared page.
func fakeExtract(content []byte, _ string) (string, int, error) {
	if bytes.HasPrefix(content, []byte("FAIL")) {
		return "", 0, fmt.Errorf("open PDF: malformed")
	}
	return string(content), 1, nil
}

type stubLLM struct{}

func (stubLLM) CreateChatCompletion(_ context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
	return &api.ChatCompletionResponse{
		ID:      "chatcmpl-test",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []api.Choice{
			{Message: api.Message{Role: "assistant", Content: "stub answer"}, FinishReason: "stop"},
		},
		Usage: api.Usage{PromptTokens: 8, CompletionTokens: 4, TotalTokens: 12},
	}, nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	docs := docmemory.New()
	files := filememory.New()
	logger := logging.Discard()

	svc := services.NewDocumentServiceWithExtractor(docs, files, logger, fakeExtract)

	engCfg := &config.EngineConfig{Model: "test-model", MaxTokens: 500, Temperature: 0.7}
	eng, err := engine.NewWithClient(engCfg, docs, stubLLM{})
	if err != nil {
		t.Fatalf("engine.NewWithClient: %v", err)
	}

	return New(svc, eng, docs, files, logger)
}

// uploadPDF posts a multipart upload and returns the decoded response.
func uploadPDF(t *testing.T, h *Handler, filename, mimeType string, content []byte) (*httptest.ResponseRecorder, schema.UploadPDFResponse) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part := textproto.MIMEHeader{}
	part.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename=%q`, filename))
	part.Set("Content-Type", mimeType)
	pw, err := mw.CreatePart(part)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := pw.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp schema.UploadPDFResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode upload response: %v", err)
		}
	}
	return rec, resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e schema.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error response %q: %v", rec.Body.String(), err)
	}
	return e.Error
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp schema.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "OK" {
		t.Errorf("status = %q, want OK", resp.Status)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", resp.Timestamp, err)
	}
}

func TestUpload_Success(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := uploadPDF(t, h, "doc.pdf", services.PDFMimeType, []byte("hello\nworld"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if !strings.HasPrefix(resp.ID, "pdf_") {
		t.Errorf("id = %q", resp.ID)
	}
	if resp.Pages < 1 {
		t.Errorf("pages = %d, want >= 1", resp.Pages)
	}
	if resp.Text != "hello\nworld" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Vectors == nil || len(resp.Vectors) != 0 {
		t.Errorf("vectors = %v, want []", resp.Vectors)
	}
	// The raw JSON must carry vectors as [], not null
	if !strings.Contains(rec.Body.String(), `"vectors":[]`) {
		t.Errorf("body should serialize vectors as []: %s", rec.Body.String())
	}
}

func TestUpload_ParserFailureTolerated(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := uploadPDF(t, h, "scan.pdf", services.PDFMimeType, []byte("FAIL not parseable"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite parser failure", rec.Code)
	}
	if resp.Pages != 1 {
		t.Errorf("pages = %d, want 1", resp.Pages)
	}
	if !strings.Contains(resp.Text, "extraction failed") {
		t.Errorf("text = %q, want sentinel", resp.Text)
	}
}

func TestUpload_RejectsNonPDFMime(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := uploadPDF(t, h, "notes.txt", "text/plain", []byte("hello"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Only PDF files are allowed" {
		t.Errorf("error = %q", msg)
	}

	// Rejected before storage: the list stays empty
	req := httptest.NewRequest(http.MethodGet, "/api/pdfs", nil)
	listRec := httptest.NewRecorder()
	h.ServeHTTP(listRec, req)
	var list schema.ListDocumentsResponse
	if err := json.Unmarshal(listRec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Data) != 0 {
		t.Errorf("expected no stored documents, got %d", len(list.Data))
	}
}

func TestUpload_MissingFile(t *testing.T) {
	h := newTestHandler(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("unrelated", "value")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "No PDF file uploaded" {
		t.Errorf("error = %q", msg)
	}
}

func TestGetFile(t *testing.T) {
	h := newTestHandler(t)
	content := []byte("%PDF-1.4 raw bytes")
	_, resp := uploadPDF(t, h, "doc.pdf", services.PDFMimeType, content)

	req := httptest.NewRequest(http.MethodGet, "/api/pdf/"+resp.ID+"/file", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != services.PDFMimeType {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "inline") {
		t.Errorf("Content-Disposition = %q, want inline", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Errorf("body mismatch: %q", rec.Body.Bytes())
	}
}

func TestGetText(t *testing.T) {
	h := newTestHandler(t)
	_, resp := uploadPDF(t, h, "doc.pdf", services.PDFMimeType, []byte("some text"))

	req := httptest.NewRequest(http.MethodGet, "/api/pdf/"+resp.ID+"/text", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var text string
	if err := json.Unmarshal(rec.Body.Bytes(), &text); err != nil {
		t.Fatal(err)
	}
	if text != "some text" {
		t.Errorf("text = %q", text)
	}
}

func TestSearch(t *testing.T) {
	h := newTestHandler(t)
	_, resp := uploadPDF(t, h, "doc.pdf", services.PDFMimeType, []byte("foo\nbar\nfoo bar"))

	body := strings.NewReader(`{"query":"foo"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/pdf/"+resp.ID+"/search", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var sr schema.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sr); err != nil {
		t.Fatal(err)
	}
	if len(sr.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(sr.Results))
	}
	if sr.Results[0].LineNumber != 1 || sr.Results[1].LineNumber != 3 {
		t.Errorf("line numbers = %d, %d, want 1, 3", sr.Results[0].LineNumber, sr.Results[1].LineNumber)
	}
	if sr.Results[0].Page != 1 || sr.Results[1].Page != 1 {
		t.Errorf("pages = %d, %d, want 1, 1", sr.Results[0].Page, sr.Results[1].Page)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	h := newTestHandler(t)
	_, resp := uploadPDF(t, h, "doc.pdf", services.PDFMimeType, []byte("foo"))

	req := httptest.NewRequest(http.MethodPost, "/api/pdf/"+resp.ID+"/search", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetPage_BeyondRangeIsEmptyString(t *testing.T) {
	h := newTestHandler(t)
	_, resp := uploadPDF(t, h, "doc.pdf", services.PDFMimeType, []byte("l1\nl2\nl3"))

	req := httptest.NewRequest(http.MethodGet, "/api/pdf/"+resp.ID+"/page/99", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for beyond-range page", rec.Code)
	}
	var text string
	if err := json.Unmarshal(rec.Body.Bytes(), &text); err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty string", text)
	}
}

func TestGetPage_InvalidNumber(t *testing.T) {
	h := newTestHandler(t)
	_, resp := uploadPDF(t, h, "doc.pdf", services.PDFMimeType, []byte("l1"))

	req := httptest.NewRequest(http.MethodGet, "/api/pdf/"+resp.ID+"/page/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownID_Returns404(t *testing.T) {
	h := newTestHandler(t)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/pdf/pdf_missing/file", nil),
		httptest.NewRequest(http.MethodGet, "/api/pdf/pdf_missing/text", nil),
		httptest.NewRequest(http.MethodPost, "/api/pdf/pdf_missing/search", strings.NewReader(`{"query":"x"}`)),
		httptest.NewRequest(http.MethodGet, "/api/pdf/pdf_missing/page/1", nil),
	}

	for _, req := range requests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", req.Method, req.URL.Path, rec.Code)
			continue
		}
		if msg := decodeError(t, rec); msg != errPDFNotFound {
			t.Errorf("%s %s: error = %q, want %q", req.Method, req.URL.Path, msg, errPDFNotFound)
		}
	}
}

func TestChat_WithDocument(t *testing.T) {
	h := newTestHandler(t)
	_, resp := uploadPDF(t, h, "doc.pdf", services.PDFMimeType, []byte("budget line here\nother"))

	body := fmt.Sprintf(`{"message":"budget","pdfId":%q}`, resp.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var cr schema.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cr); err != nil {
		t.Fatal(err)
	}
	if cr.Message != "stub answer" {
		t.Errorf("message = %q", cr.Message)
	}
	if len(cr.Citations) != 1 {
		t.Fatalf("citations = %d, want 1", len(cr.Citations))
	}
	if cr.Citations[0].Confidence != 0.8 || cr.Citations[0].Page != 1 {
		t.Errorf("citation = %+v", cr.Citations[0])
	}
	if cr.TokenUsage.TotalTokens != 12 {
		t.Errorf("total tokens = %d, want 12", cr.TokenUsage.TotalTokens)
	}
}

func TestChat_SentinelDocumentHasNoCitations(t *testing.T) {
	h := newTestHandler(t)
	_, resp := uploadPDF(t, h, "scan.pdf", services.PDFMimeType, []byte("FAIL bytes"))

	body := fmt.Sprintf(`{"message":"anything","pdfId":%q}`, resp.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cr schema.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cr); err != nil {
		t.Fatal(err)
	}
	if len(cr.Citations) != 0 {
		t.Errorf("citations = %d, want 0 for failed extraction", len(cr.Citations))
	}
}

func TestChat_UnknownDocument404(t *testing.T) {
	h := newTestHandler(t)

	body := `{"message":"hi","pdfId":"pdf_missing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := decodeError(t, rec); msg != errPDFNotFound {
		t.Errorf("error = %q", msg)
	}
}

func TestChat_MissingMessage(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListDocuments_Pagination(t *testing.T) {
	h := newTestHandler(t)
	for i := 0; i < 3; i++ {
		rec, _ := uploadPDF(t, h, fmt.Sprintf("doc%d.pdf", i), services.PDFMimeType, []byte(fmt.Sprintf("content %d", i)))
		if rec.Code != http.StatusOK {
			t.Fatalf("upload %d: status = %d", i, rec.Code)
		}
		time.Sleep(2 * time.Millisecond) // distinct upload timestamps for ordering
	}

	req := httptest.NewRequest(http.MethodGet, "/api/pdfs?limit=2&order=asc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list schema.ListDocumentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Object != "list" {
		t.Errorf("object = %q", list.Object)
	}
	if len(list.Data) != 2 {
		t.Fatalf("data = %d, want 2", len(list.Data))
	}
	if !list.HasMore {
		t.Error("expected hasMore")
	}
	if list.Data[0].Filename != "doc0.pdf" {
		t.Errorf("first = %q, want doc0.pdf", list.Data[0].Filename)
	}
	if list.FirstID != list.Data[0].ID || list.LastID != list.Data[1].ID {
		t.Errorf("cursor ids mismatch: %+v", list)
	}
}
