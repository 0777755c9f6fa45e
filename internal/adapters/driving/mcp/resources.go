package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/folio/internal/core/domain"
)

const (
	uriScheme = "folio://"

	projectsCollection    = "projects"
	experiencesCollection = "experiences"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + projectsCollection,
		Name:        "projects",
		Description: "Published portfolio projects",
		MIMEType:    "application/json",
	}, s.handleProjectsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + experiencesCollection,
		Name:        "experiences",
		Description: "Published professional experiences, confidential missions redacted",
		MIMEType:    "application/json",
	}, s.handleExperiencesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + projectsCollection + "/{slug}",
		Name:        "project",
		Description: "A single published project",
		MIMEType:    "application/json",
	}, s.handleProjectResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + experiencesCollection + "/{slug}",
		Name:        "experience",
		Description: "A single published experience, confidential missions redacted",
		MIMEType:    "application/json",
	}, s.handleExperienceResource)
}

func (s *Server) handleProjectsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	projects, err := s.ports.Portfolio.ListProjects(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return jsonResult(req.Params.URI, projects)
}

func (s *Server) handleExperiencesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	experiences, err := s.ports.Portfolio.ListExperiences(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing experiences: %w", err)
	}
	redacted := make([]domain.Experience, len(experiences))
	for i := range experiences {
		redacted[i] = experiences[i].Redacted()
	}
	return jsonResult(req.Params.URI, redacted)
}

func (s *Server) handleProjectResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	slug := extractSlug(req.Params.URI, projectsCollection)
	if slug == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	project, err := s.ports.Portfolio.GetProject(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !project.Status.IsPublished()) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return jsonResult(req.Params.URI, project)
}

func (s *Server) handleExperienceResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	slug := extractSlug(req.Params.URI, experiencesCollection)
	if slug == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	experience, err := s.ports.Portfolio.GetExperience(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !experience.Status.IsPublished()) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting experience: %w", err)
	}
	return jsonResult(req.Params.URI, experience.Redacted())
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSlug extracts the slug from a URI like folio://projects/{slug}.
func extractSlug(uri, collection string) string {
	prefix := uriScheme + collection + "/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	slug := strings.TrimPrefix(uri, prefix)
	if strings.Contains(slug, "/") {
		return ""
	}
	return slug
}
