package domain

// Corpus is the ordered pair of entity collections handed to retrieval.
type Corpus struct {
	Projects    []Project
	Experiences []Experience
}

// Published returns the corpus without draft entities.
func (c Corpus) Published() Corpus {
	return Corpus{
		Projects:    PublishedProjects(c.Projects),
		Experiences: PublishedExperiences(c.Experiences),
	}
}

// Size returns the total number of entities.
func (c Corpus) Size() int {
	return len(c.Projects) + len(c.Experiences)
}

// FindProject returns the project with the given slug.
func (c Corpus) FindProject(slug string) (Project, bool) {
	for i := range c.Projects {
		if c.Projects[i].Slug == slug {
			return c.Projects[i], true
		}
	}
	return Project{}, false
}

// FindExperience returns the experience with the given slug.
func (c Corpus) FindExperience(slug string) (Experience, bool) {
	for i := range c.Experiences {
		if c.Experiences[i].Slug == slug {
			return c.Experiences[i], true
		}
	}
	return Experience{}, false
}
