package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docrelay/docrelay/internal/types"
)

func TestProcessPDF(t *testing.T) {
	var gotFilename string
	var gotContent []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/process_pdf_stream" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		gotFilename = hdr.Filename
		gotContent, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, `data: {"status":"complete","data":[]}`+"\n\n")
	}))
	defer srv.Close()

	body, err := New(srv.URL).ProcessPDF(context.Background(), "book.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("ProcessPDF: %v", err)
	}
	defer body.Close()

	raw, _ := io.ReadAll(body)
	if !strings.Contains(string(raw), `"status":"complete"`) {
		t.Errorf("unexpected stream body: %s", raw)
	}
	if gotFilename != "book.pdf" {
		t.Errorf("expected filename book.pdf, got %s", gotFilename)
	}
	if string(gotContent) != "%PDF-1.4" {
		t.Errorf("PDF bytes mangled: %q", gotContent)
	}
}

func TestProcessDriveFile_SendsAuthAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("unexpected auth header: %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(raw), `"fileId":"f1"`) {
			t.Errorf("unexpected body: %s", raw)
		}
		io.WriteString(w, `data: {"status":"complete","data":[]}`+"\n\n")
	}))
	defer srv.Close()

	body, err := New(srv.URL).ProcessDriveFile(context.Background(), "tok123", "f1", "a.pdf")
	if err != nil {
		t.Fatalf("ProcessDriveFile: %v", err)
	}
	body.Close()
}

func TestDoStream_ErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Missing or invalid authorization token."}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ProcessDriveFile(context.Background(), "", "f1", "a.pdf")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "Missing or invalid authorization token." {
		t.Errorf("unexpected detail: %q", apiErr.Detail)
	}
}

func TestDoStream_ErrorWithoutDetailBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain failure", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ProcessPDF(context.Background(), "a.pdf", strings.NewReader("x"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "plain failure" {
		t.Errorf("expected raw body as detail, got %q", apiErr.Detail)
	}
}

func TestListDriveFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"1","name":"a.pdf"},{"id":"2","name":"b.pdf"}]`)
	}))
	defer srv.Close()

	files, err := New(srv.URL).ListDriveFiles(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListDriveFiles: %v", err)
	}
	if len(files) != 2 || files[1].Name != "b.pdf" {
		t.Errorf("unexpected files: %+v", files)
	}
}

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(raw), `"prompt"`) {
			t.Errorf("unexpected body: %s", raw)
		}
		io.WriteString(w, "hallo welt")
	}))
	defer srv.Close()

	text, err := New(srv.URL).Translate(context.Background(), "translate this")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if text != "hallo welt" {
		t.Errorf("unexpected translation: %q", text)
	}
}

func TestCreateDoc(t *testing.T) {
	pages := []types.Page{{PageNumber: 1, Structure: []types.Element{
		{Kind: types.ElementParagraph, Content: "hi"},
	}}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header: %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(raw), `"originalFileName":"book.pdf"`) {
			t.Errorf("unexpected body: %s", raw)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"documentUrl":"https://docs.google.com/document/d/x/edit"}`)
	}))
	defer srv.Close()

	url, err := New(srv.URL).CreateDoc(context.Background(), "tok", pages, "book.pdf")
	if err != nil {
		t.Fatalf("CreateDoc: %v", err)
	}
	if url != "https://docs.google.com/document/d/x/edit" {
		t.Errorf("unexpected url: %q", url)
	}
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	var out struct {
		Status string `json:"status"`
	}
	if err := New(srv.URL).GetJSON(context.Background(), "/health", &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Status != "ok" {
		t.Errorf("unexpected status: %q", out.Status)
	}
}
