package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
)

// multipartUpload builds and performs a multipart POST /api/upload request.
func (e *testEnv) multipartUpload(t *testing.T, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func TestUpload_TextFileProcessed(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "Ann", "ann@x.com", "secret1")

	w := e.multipartUpload(t, token, "notes.txt", []byte("hello from a text file"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp UploadResponse
	decode(t, w, &resp)
	if resp.Message != "File uploaded and processed successfully" {
		t.Fatalf("message = %q", resp.Message)
	}
	f := resp.File
	if f.ID == "" || f.Mode != "text" || f.MimeType != "text/plain" || f.OriginalName != "notes.txt" {
		t.Fatalf("file = %+v", f)
	}
	if f.ProcessedContent != "hello from a text file" {
		t.Fatalf("processed = %q", f.ProcessedContent)
	}
	// The server-side storage path must stay private.
	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if _, leaked := raw["file"].(map[string]any)["path"]; leaked {
		t.Fatalf("storage path leaked: %s", w.Body.String())
	}
}

func TestUpload_SniffsRealType(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "Ann", "ann@x.com", "secret1")

	png := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)
	w := e.multipartUpload(t, token, "disguised.txt", png)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp UploadResponse
	decode(t, w, &resp)
	if resp.File.Mode != "visual" || resp.File.MimeType != "image/png" {
		t.Fatalf("sniff failed: %+v", resp.File)
	}
	if !strings.Contains(resp.File.ProcessedContent, "Visual file processed") {
		t.Fatalf("processed = %q", resp.File.ProcessedContent)
	}
}

func TestUpload_Rejections(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "Ann", "ann@x.com", "secret1")

	// Unsupported sniffed type.
	elf := append([]byte{0x7F, 'E', 'L', 'F'}, make([]byte, 32)...)
	w := e.multipartUpload(t, token, "payload.bin", elf)
	if w.Code != http.StatusBadRequest || errCode(t, w) != ErrCodeUnsupportedFileType {
		t.Fatalf("unsupported type: %d %s", w.Code, w.Body.String())
	}

	// Declared size above the configured cap.
	big := bytes.Repeat([]byte("x"), int(e.h.Uploads.MaxSizeBytes)+1)
	w = e.multipartUpload(t, token, "big.txt", big)
	if w.Code != http.StatusBadRequest || errCode(t, w) != ErrCodeFileTooLarge {
		t.Fatalf("oversize: %d %s", w.Code, w.Body.String())
	}

	// No file part at all.
	w = e.multipartUpload(t, token, "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing part: %d %s", w.Code, w.Body.String())
	}
}

func TestUpload_GetAndDeleteOwnerScoped(t *testing.T) {
	e := newTestEnv(t)
	annToken := e.signup(t, "Ann", "ann@x.com", "secret1")
	bobToken := e.signup(t, "Bob", "bob@x.com", "secret1")

	w := e.multipartUpload(t, annToken, "notes.txt", []byte("content"))
	if w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	var resp UploadResponse
	decode(t, w, &resp)
	id := resp.File.ID

	w = e.do(t, http.MethodGet, "/api/upload/"+id, annToken, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner get = %d", w.Code)
	}
	var f domain.FileUpload
	decode(t, w, &f)
	if f.ID != id {
		t.Fatalf("file = %+v", f)
	}

	if w := e.do(t, http.MethodGet, "/api/upload/"+id, bobToken, nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("cross-user get = %d", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/api/upload/"+id, bobToken, nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("cross-user delete = %d", w.Code)
	}

	w = e.do(t, http.MethodDelete, "/api/upload/"+id, annToken, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d, body %s", w.Code, w.Body.String())
	}
	var ack MessageResponse
	decode(t, w, &ack)
	if ack.Message != "File deleted successfully" {
		t.Fatalf("message = %q", ack.Message)
	}
	if w := e.do(t, http.MethodGet, "/api/upload/"+id, annToken, nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", w.Code)
	}
}
