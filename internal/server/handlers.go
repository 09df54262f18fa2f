package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/drawbridge/pkg/buildinfo"
	"github.com/matzehuels/drawbridge/pkg/errors"
	"github.com/matzehuels/drawbridge/pkg/pipeline"
)

// maxBodyBytes caps request bodies; diagram sources are small text.
const maxBodyBytes = 4 << 20 // 4 MiB

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleConvert converts a raw source body into a single artifact.
// Query parameters: name (page name), format (xml, dot or svg).
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidSource, "read body: %v", err))
		return
	}
	source := string(body)
	if err := errors.ValidateSource(source); err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Name:   r.URL.Query().Get("name"),
		Format: r.URL.Query().Get("format"),
	}
	res, err := s.runner.Convert(r.Context(), source, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(opts.Format))
	_, _ = w.Write(res.Data)
}

// combinedRequest is the JSON body for POST /convert/combined.
type combinedRequest struct {
	Sources []pipeline.Source `json:"sources"`
}

// sourceSeparator splits concatenated plain-text sources on "---" lines.
var sourceSeparator = regexp.MustCompile(`(?m)^---+\s*$`)

// handleConvertCombined builds one multi-page document from several
// sources. Accepts either a JSON body {"sources": [{"name", "text"}]}
// or a plain-text body with sources separated by "---" lines.
func (s *Server) handleConvertCombined(w http.ResponseWriter, r *http.Request) {
	var sources []pipeline.Source

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req combinedRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body: %v", err))
			return
		}
		sources = req.Sources
	} else {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidSource, "read body: %v", err))
			return
		}
		sources = splitSources(string(body))
	}

	res, err := s.runner.ConvertCombined(r.Context(), sources, pipeline.Options{})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(pipeline.FormatXML))
	_, _ = w.Write(res.Data)
}

// splitSources breaks a plain-text body into page sources. Pages are
// named diagram1..diagramN in order.
func splitSources(text string) []pipeline.Source {
	var sources []pipeline.Source
	for _, part := range sourceSeparator.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sources = append(sources, pipeline.Source{
			Name: fmt.Sprintf("diagram%d", len(sources)+1),
			Text: part,
		})
	}
	return sources
}

// saveRequest is the JSON body for POST /diagrams.
type saveRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// diagramSummary is the list representation of a stored diagram.
type diagramSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleSaveDiagram(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body: %v", err))
		return
	}
	if err := errors.ValidateSource(req.Source); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" {
		req.Name = pipeline.DefaultName
	}
	if err := errors.ValidateDiagramName(req.Name); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Convert(r.Context(), req.Source, pipeline.Options{Name: req.Name})
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc := &Document{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Source:    req.Source,
		XML:       string(res.Data),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("diagram stored", "id", doc.ID, "name", doc.Name)
	writeJSON(w, http.StatusCreated, diagramSummary{
		ID:        doc.ID,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
	})
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	docs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	summaries := make([]diagramSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, diagramSummary{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": summaries})
}

// contentType maps an output format to its response content type.
func contentType(format string) string {
	switch format {
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	default:
		return "application/xml; charset=utf-8"
	}
}

// writeError renders a structured error response and logs server faults.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}

// statusFor maps application error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSource, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeDiagramNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
