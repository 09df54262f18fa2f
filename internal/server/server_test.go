package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawbridge/pkg/pipeline"
)

const flowSource = "graph TD\nA[Start] --> B{Decide}\nB -->|yes| C(End)"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	return New(Config{Addr: ":0"}, runner, nil, log.New(io.Discard))
}

func doRequest(t *testing.T, s *Server, method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["code"]
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/healthz", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestConvert(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/convert?name=flow", "text/plain", []byte(flowSource))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("content type = %q", ct)
	}

	out := rec.Body.String()
	for _, want := range []string{"<mxfile", `name="flow"`, `value="Start"`, "rhombus"} {
		if !strings.Contains(out, want) {
			t.Errorf("response missing %q", want)
		}
	}
}

func TestConvertDOTFormat(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/convert?format=dot", "text/plain", []byte(flowSource))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "digraph G {") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestConvertRejectsEmptyBody(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/convert", "text/plain", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_SOURCE" {
		t.Errorf("code = %q, want INVALID_SOURCE", code)
	}
}

func TestConvertRejectsBadFormat(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/convert?format=png", "text/plain", []byte(flowSource))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_FORMAT" {
		t.Errorf("code = %q, want INVALID_FORMAT", code)
	}
}

func TestConvertCombinedJSON(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(combinedRequest{Sources: []pipeline.Source{
		{Name: "flow", Text: flowSource},
		{Name: "seq", Text: "sequenceDiagram\nAlice->Bob: hi"},
	}})

	rec := doRequest(t, s, http.MethodPost, "/convert/combined", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}

	out := rec.Body.String()
	if !strings.Contains(out, `id="diagram1" name="flow"`) {
		t.Error("first page missing")
	}
	if !strings.Contains(out, `id="diagram2" name="seq"`) {
		t.Error("second page missing")
	}
}

func TestConvertCombinedPlainText(t *testing.T) {
	s := newTestServer(t)
	body := "graph TD\nA --> B\n---\nsequenceDiagram\nAlice->Bob: hi\n"

	rec := doRequest(t, s, http.MethodPost, "/convert/combined", "text/plain", []byte(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}

	out := rec.Body.String()
	if !strings.Contains(out, `id="diagram1" name="diagram1"`) {
		t.Error("first page missing")
	}
	if !strings.Contains(out, `id="diagram2" name="diagram2"`) {
		t.Error("second page missing")
	}
}

func TestConvertCombinedRejectsEmpty(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(combinedRequest{})

	rec := doRequest(t, s, http.MethodPost, "/convert/combined", "application/json", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_INPUT" {
		t.Errorf("code = %q, want INVALID_INPUT", code)
	}
}

func TestDiagramLifecycle(t *testing.T) {
	s := newTestServer(t)

	// Store a diagram.
	body, _ := json.Marshal(saveRequest{Name: "flow", Source: flowSource})
	rec := doRequest(t, s, http.MethodPost, "/diagrams", "application/json", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body: %s", rec.Code, rec.Body)
	}

	var created diagramSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.Name != "flow" {
		t.Fatalf("created = %+v", created)
	}

	// Fetch it back with the converted XML attached.
	rec = doRequest(t, s, http.MethodGet, "/diagrams/"+created.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body: %s", rec.Code, rec.Body)
	}
	var doc Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.Source != flowSource {
		t.Error("stored source differs")
	}
	if !strings.Contains(doc.XML, "<mxfile") {
		t.Error("stored XML missing envelope")
	}

	// It appears in the listing.
	rec = doRequest(t, s, http.MethodGet, "/diagrams", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listing struct {
		Diagrams []diagramSummary `json:"diagrams"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Diagrams) != 1 || listing.Diagrams[0].ID != created.ID {
		t.Errorf("listing = %+v", listing)
	}
}

func TestGetDiagramNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/diagrams/missing", "", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if code := errorCode(t, rec); code != "DIAGRAM_NOT_FOUND" {
		t.Errorf("code = %q, want DIAGRAM_NOT_FOUND", code)
	}
}

func TestListDiagramsRejectsBadLimit(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/diagrams?limit=zero", "", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMemoryStoreListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 1; i <= 3; i++ {
		doc := &Document{
			ID:        fmt.Sprintf("doc%d", i),
			Name:      fmt.Sprintf("diagram %d", i),
			CreatedAt: time.Now().UTC(),
		}
		if err := store.Save(ctx, doc); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	docs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len = %d, want 2", len(docs))
	}
	if docs[0].ID != "doc3" || docs[1].ID != "doc2" {
		t.Errorf("order = %s, %s, want doc3, doc2", docs[0].ID, docs[1].ID)
	}
}

func TestSplitSources(t *testing.T) {
	sources := splitSources("graph TD\nA --> B\n---\n\n---\nsequenceDiagram\nA->B: hi")
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].Name != "diagram1" || sources[1].Name != "diagram2" {
		t.Errorf("names = %q, %q", sources[0].Name, sources[1].Name)
	}
	if !strings.HasPrefix(sources[1].Text, "sequenceDiagram") {
		t.Errorf("second source = %q", sources[1].Text)
	}
}
