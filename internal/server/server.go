// Package server exposes the review agent as a single-endpoint web service
// with a static front-end page.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/choose-paper/review-agent/internal/paper"
	"github.com/choose-paper/review-agent/internal/review"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 32 << 20

// Server handles the review HTTP API.
type Server struct {
	agent     *review.Agent
	staticDir string
}

// New creates a Server serving static assets from staticDir.
func New(agent *review.Agent, staticDir string) *Server {
	return &Server{agent: agent, staticDir: staticDir}
}

// Handler builds the router: fully-open CORS so the page can be hosted
// anywhere, the index and static assets, and POST /review.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/review", s.handleReview)

	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir)))
	r.Get("/static/*", fileServer.ServeHTTP)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := os.ReadFile(filepath.Join(s.staticDir, "index.html"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "static/index.html not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// reviewResponse is the success body of POST /review.
type reviewResponse struct {
	ReviewText string     `json:"review_text"`
	Meta       reviewMeta `json:"meta"`
}

type reviewMeta struct {
	Domain      string `json:"domain"`
	Language    string `json:"language"`
	Model       string `json:"model"`
	BaseURL     string `json:"base_url"`
	PaperSource string `json:"paper_source"`
	TextChars   int    `json:"text_chars"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	apiKey := r.FormValue("api_key")
	if apiKey == "" {
		writeError(w, http.StatusBadRequest, "api_key is required")
		return
	}

	paperURL := r.FormValue("paper_url")
	file, header, fileErr := r.FormFile("file")
	if fileErr != nil && paperURL == "" {
		writeError(w, http.StatusBadRequest, "a file upload or paper_url is required")
		return
	}

	temperature := 0.2
	if v := r.FormValue("temperature"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "temperature must be a number")
			return
		}
		temperature = t
	}

	req := review.Request{
		Domain:      formValueDefault(r, "domain", "ML"),
		Language:    formValueDefault(r, "language", "zh"),
		Model:       formValueDefault(r, "model", "gpt-4o-mini"),
		Tone:        formValueDefault(r, "tone", review.DefaultTone),
		BaseURL:     r.FormValue("base_url"),
		APIKey:      apiKey,
		Temperature: temperature,
	}

	if fileErr == nil {
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		if len(data) == 0 {
			writeError(w, http.StatusBadRequest, "uploaded file is empty")
			return
		}
		text, err := paper.FromUpload(header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "uploaded file could not be parsed as a PDF")
			return
		}
		req.Text = text
		req.SourceLabel = header.Filename
		if req.SourceLabel == "" {
			req.SourceLabel = "uploaded-file"
		}
	} else {
		if paper.DetectKind(paperURL) != paper.KindURL {
			writeError(w, http.StatusBadRequest, "paper_url must be an http(s) URL")
			return
		}
		req.Source = paperURL
	}

	result, err := s.agent.Run(r.Context(), req)
	if err != nil {
		status, msg := classifyRunError(err)
		if status == http.StatusBadGateway {
			zap.L().Error("model call failed",
				zap.String("model", req.Model),
				zap.Error(err),
			)
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{
		ReviewText: result.Review,
		Meta: reviewMeta{
			Domain:      req.Domain,
			Language:    req.Language,
			Model:       req.Model,
			BaseURL:     req.BaseURL,
			PaperSource: result.Source,
			TextChars:   result.Chars,
		},
	})
}

// classifyRunError maps agent failures onto status codes: ingestion problems
// are the client's fault (400), everything past the prompt build is an
// upstream model failure (502).
func classifyRunError(err error) (int, string) {
	switch {
	case errors.Is(err, review.ErrEmptyPaper):
		return http.StatusBadRequest, "paper text is empty; check the file or URL"
	case errors.Is(err, paper.ErrFetch):
		return http.StatusBadRequest, "failed to fetch paper_url"
	case errors.Is(err, paper.ErrMalformedPDF):
		return http.StatusBadRequest, "paper could not be parsed as a PDF"
	default:
		return http.StatusBadGateway, "model call failed"
	}
}

func formValueDefault(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
