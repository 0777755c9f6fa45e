package retrieval

import (
	"github.com/custodia-labs/folio/internal/core/domain"
)

func project(slug, title, company string) domain.Project {
	return domain.Project{
		Slug:      slug,
		Title:     title,
		Company:   company,
		UpdatedAt: "2024-01-01",
	}
}

func experience(slug, role, company string) domain.Experience {
	return domain.Experience{
		Slug:      slug,
		Role:      role,
		Company:   company,
		Type:      domain.ExperienceWork,
		UpdatedAt: "2024-01-01",
	}
}

// sampleCorpus is the two-project, one-experience corpus used by the
// collision scenarios.
func sampleCorpus() domain.Corpus {
	p1 := project("p1", "Pricing engine", "Acme")
	p1.Result = "Cut churn by 12%"
	p1.UpdatedAt = "2024-03-01"
	p2 := project("p2", "Logistics dashboard", "Globex")
	p2.Result = "Faster shipping"
	p2.UpdatedAt = "2024-02-01"
	e1 := experience("e1", "Data analyst", "Acme")
	e1.Description = "Owned weekly reporting"
	return domain.Corpus{
		Projects:    []domain.Project{p1, p2},
		Experiences: []domain.Experience{e1},
	}
}

func slugsOf[E domain.Entity](entities []E) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Ref().Slug
	}
	return out
}

func hitSlugs[E domain.Entity](hits []Hit[E]) []string {
	return slugsOf(Entities(hits))
}
