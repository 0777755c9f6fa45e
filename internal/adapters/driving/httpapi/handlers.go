package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

type searchRequest struct {
	Query string `json:"query"`
}

// chatRequest keeps message content raw so that non-string content can be
// dropped instead of failing the whole request.
type chatRequest struct {
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	answer, err := s.ports.Search.Search(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	turns := make([]domain.ChatTurn, 0, len(req.Messages))
	for _, m := range req.Messages {
		var content string
		if err := json.Unmarshal(m.Content, &content); err != nil {
			continue
		}
		turns = append(turns, domain.ChatTurn{Role: domain.Role(m.Role), Content: content})
	}

	flusher, _ := w.(http.Flusher)
	started := false
	onDelta := func(delta string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := w.Write([]byte(delta)); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	_, err := s.ports.Chat.Chat(r.Context(), turns, onDelta)
	switch {
	case err != nil && !started:
		writeError(w, err)
	case err != nil:
		logger.Warn("chat stream %s aborted: %v", RequestIDFrom(r.Context()), err)
	case !started:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleMentions(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.ports.Portfolio.MentionCandidates(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	if candidates == nil {
		candidates = []domain.MentionCandidate{}
	}
	writeJSON(w, http.StatusOK, candidates)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.ports.Portfolio.ListProjects(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	project, err := s.ports.Portfolio.GetProject(r.Context(), slug)
	if err == nil && !project.Status.IsPublished() {
		err = fmt.Errorf("project %q: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := s.ports.Portfolio.ListExperiences(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	redacted := make([]domain.Experience, len(experiences))
	for i := range experiences {
		redacted[i] = experiences[i].Redacted()
	}
	writeJSON(w, http.StatusOK, redacted)
}

func (s *Server) handleExperience(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	experience, err := s.ports.Portfolio.GetExperience(r.Context(), slug)
	if err == nil && !experience.Status.IsPublished() {
		err = fmt.Errorf("experience %q: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, experience.Redacted())
}

// decodeBody reads a size-capped JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("content type %q: %w", ct, domain.ErrInvalidInput)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes: %w", tooLarge.Limit, domain.ErrInvalidInput)
		}
		return fmt.Errorf("decode request: %w", domain.ErrInvalidInput)
	}
	return nil
}
