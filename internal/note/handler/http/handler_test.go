package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/wb-go/wbf/zlog"

	handler "github.com/owlview/reviewtree/internal/note/handler/http"
	"github.com/owlview/reviewtree/internal/note/model"
	"github.com/owlview/reviewtree/internal/note/service"
	inm "github.com/owlview/reviewtree/internal/note/storage/inmemory"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

type fakeClient struct {
	notes map[string][]model.Note
}

func (f *fakeClient) ListNotes(ctx context.Context, forum string) ([]model.Note, error) {
	return f.notes[forum], nil
}

func newServer(client service.NotesClient) *httptest.Server {
	repo := inm.New()
	svc := service.New(repo, nil, client)
	h := handler.New(svc)
	return httptest.NewServer(h.Routes())
}

func testThread() []model.Note {
	return []model.Note{
		{ID: "sub", Signatures: []string{"Author"}, CDate: 1000},
		{ID: "c1", ReplyTo: "sub", Signatures: []string{"Reviewer ABC"}, CDate: 1609459200000,
			Content: map[string]any{"comment": map[string]any{"value": "Great work!"}}},
	}
}

func TestSyncAndGetMarkdown(t *testing.T) {
	srv := newServer(&fakeClient{notes: map[string][]model.Note{"forum1": testThread()}})
	defer srv.Close()

	res, err := http.Post(srv.URL+"/threads/forum1/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("post sync: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on sync, got %d", res.StatusCode)
	}
	var syncRes map[string]int
	if err := json.NewDecoder(res.Body).Decode(&syncRes); err != nil {
		t.Fatalf("decode sync response: %v", err)
	}
	_ = res.Body.Close()
	if syncRes["synced"] != 2 {
		t.Fatalf("expected 2 synced, got %d", syncRes["synced"])
	}

	res, err = http.Get(srv.URL + "/threads/forum1/markdown?title=Test+Paper")
	if err != nil {
		t.Fatalf("get markdown: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on markdown, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("content type = %q", ct)
	}
	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		t.Fatalf("read markdown body: %v", err)
	}

	doc := string(body)
	if !strings.Contains(doc, "# Test Paper") {
		t.Fatalf("missing document title:\n%s", doc)
	}
	if !strings.Contains(doc, "# Main Submission") || !strings.Contains(doc, "Great work!") {
		t.Fatalf("unexpected document:\n%s", doc)
	}
}

func TestGetMarkdownNotFound(t *testing.T) {
	srv := newServer(&fakeClient{})
	defer srv.Close()

	res, err := http.Get(srv.URL + "/threads/unknown/markdown")
	if err != nil {
		t.Fatalf("get markdown: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestGetNoteFile(t *testing.T) {
	srv := newServer(&fakeClient{notes: map[string][]model.Note{"forum1": testThread()}})
	defer srv.Close()

	res, err := http.Post(srv.URL+"/threads/forum1/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("post sync: %v", err)
	}
	_ = res.Body.Close()

	res, err = http.Get(srv.URL + "/notes/c1/file")
	if err != nil {
		t.Fatalf("get note file: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	cd := res.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "Reviewer_ABC.md") {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestGetNoteFileNotFound(t *testing.T) {
	srv := newServer(&fakeClient{})
	defer srv.Close()

	res, err := http.Get(srv.URL + "/notes/missing/file")
	if err != nil {
		t.Fatalf("get note file: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestSyncWithoutClient(t *testing.T) {
	srv := newServer(nil)
	defer srv.Close()

	res, err := http.Post(srv.URL+"/threads/forum1/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("post sync: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a client, got %d", res.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := newServer(&fakeClient{})
	defer srv.Close()

	res, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}
