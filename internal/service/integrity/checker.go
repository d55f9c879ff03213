// Package integrity enforces that foreign identifiers on appointments and
// medical records resolve to stored entities before anything is written.
package integrity

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/medrec/records-api/internal/model"
	apperrors "github.com/medrec/records-api/pkg/errors"
)

// Exister is the single store probe the checker needs from a repository.
type Exister interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Checker verifies referenced patient and doctor identifiers. Positive
// results are cached briefly so repeated probes of the same entity skip the
// filesystem; negative results are never cached, since the entity may be
// registered between probes.
type Checker struct {
	patients Exister
	doctors  Exister
	cache    *gocache.Cache
}

const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = 5 * time.Minute
)

func NewChecker(patients, doctors Exister) *Checker {
	return &Checker{
		patients: patients,
		doctors:  doctors,
		cache:    gocache.New(cacheTTL, cacheCleanup),
	}
}

// EnsurePatient fails with a referential-integrity error when no patient
// with the given id is stored.
func (c *Checker) EnsurePatient(ctx context.Context, id string) error {
	return c.ensure(ctx, c.patients, model.CollectionPatients, id)
}

// EnsureDoctor fails with a referential-integrity error when no doctor with
// the given id is stored.
func (c *Checker) EnsureDoctor(ctx context.Context, id string) error {
	return c.ensure(ctx, c.doctors, model.CollectionDoctors, id)
}

// Forget drops the cached existence of an entity; called after deletes.
func (c *Checker) Forget(collection model.Collection, id string) {
	c.cache.Delete(cacheKey(collection, id))
}

func (c *Checker) ensure(ctx context.Context, repo Exister, collection model.Collection, id string) error {
	key := cacheKey(collection, id)
	if _, ok := c.cache.Get(key); ok {
		return nil
	}

	exists, err := repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewReferentialIntegrity(string(collection), id)
	}

	c.cache.SetDefault(key, struct{}{})
	return nil
}

func cacheKey(collection model.Collection, id string) string {
	return string(collection) + "/" + id
}
