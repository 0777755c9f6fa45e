package retrieval

import (
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

// Fingerprint identifies a corpus generation:
//
//	count(projects)#count(experiences)#slug:updatedAt:len(title)|...#slug:updatedAt:len(role)|...
//
// Any updatedAt change yields a new fingerprint, even for identical content.
func Fingerprint(projects []domain.Project, experiences []domain.Experience) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(projects)))
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(len(experiences)))
	b.WriteByte('#')
	for i := range projects {
		if i > 0 {
			b.WriteByte('|')
		}
		writePart(&b, projects[i].Slug, projects[i].UpdatedAt, projects[i].Title)
	}
	b.WriteByte('#')
	for i := range experiences {
		if i > 0 {
			b.WriteByte('|')
		}
		writePart(&b, experiences[i].Slug, experiences[i].UpdatedAt, experiences[i].Role)
	}
	return b.String()
}

func writePart(b *strings.Builder, slug, updatedAt, label string) {
	b.WriteString(slug)
	b.WriteByte(':')
	b.WriteString(updatedAt)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(utf8.RuneCountInString(label)))
}

// IndexCache memoizes one SemanticIndex keyed by corpus fingerprint.
// A caller observing a new fingerprint rebuilds synchronously; concurrent
// callers wait for that build rather than reading a stale index.
type IndexCache struct {
	mu          sync.Mutex
	fingerprint string
	index       *SemanticIndex
	builds      int
}

// NewIndexCache creates an empty cache.
func NewIndexCache() *IndexCache {
	return &IndexCache{}
}

// Get returns the index for the corpus, rebuilding it when the fingerprint changed.
func (c *IndexCache) Get(projects []domain.Project, experiences []domain.Experience) *SemanticIndex {
	fp := Fingerprint(projects, experiences)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index != nil && c.fingerprint == fp {
		return c.index
	}

	start := time.Now()
	c.index = Build(projects, experiences)
	c.fingerprint = fp
	c.builds++
	logger.Debug("Index rebuilt: %d projects, %d experiences (build #%d)",
		len(projects), len(experiences), c.builds)
	logger.Since("index build", start)

	return c.index
}

// Builds returns how many times the index has been built.
func (c *IndexCache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

// Invalidate drops the cached index so the next Get rebuilds.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = nil
	c.fingerprint = ""
}
