package idgen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Kind is the three-letter prefix tagged onto every generated identifier.
type Kind string

const (
	KindPatient       Kind = "PAT"
	KindDoctor        Kind = "DOC"
	KindAppointment   Kind = "APT"
	KindMedicalRecord Kind = "MED"
)

const suffixLen = 6

const alphanum = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generator mints identifiers of the form PREFIX-{millis}-{6 alnum}.
// The random source is non-cryptographic and process-local: identifiers are
// unique within a single process but carry no cross-process guarantee.
type Generator struct {
	mu  sync.Mutex
	now func() time.Time
	rnd *rand.Rand
}

// New returns a generator backed by the wall clock and a time-seeded source.
func New() *Generator {
	return NewWithSource(time.Now, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource allows tests to pin the clock and random source.
func NewWithSource(now func() time.Time, src rand.Source) *Generator {
	return &Generator{
		now: now,
		rnd: rand.New(src),
	}
}

// Generate returns a fresh identifier for the given kind.
func (g *Generator) Generate(kind Kind) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, suffixLen)
	for i := range buf {
		buf[i] = alphanum[g.rnd.Intn(len(alphanum))]
	}

	return fmt.Sprintf("%s-%d-%s", kind, g.now().UnixMilli(), buf)
}
