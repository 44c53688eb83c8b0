package identifier

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces human-readable IDs per entity kind. Ticket IDs are
// five-digit numeric and must be checked against the IDs already in use;
// comment and project IDs carry a timestamp plus a random suffix and are
// collision-resistant on their own.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator builds a generator seeded from the clock.
func NewGenerator() *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// TicketID returns a fresh TKT-NNNNN identifier not present in taken.
func (g *Generator) TicketID(taken map[string]struct{}) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		id := fmt.Sprintf("TKT-%05d", 10000+g.rng.Intn(90000))
		if _, exists := taken[id]; !exists {
			return id
		}
	}
}

// CommentID returns a CMT-<unixms>-<rand> identifier.
func (g *Generator) CommentID() string {
	return g.timestamped("CMT")
}

// ProjectID returns a PRJ-<unixms>-<rand> identifier.
func (g *Generator) ProjectID() string {
	return g.timestamped("PRJ")
}

func (g *Generator) timestamped(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, g.now().UnixMilli(), suffix)
}
