// Package policy resolves a language profile into the desired subtitle
// entries and the entries that make up its cutoff.
package policy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/subarr/internal/library"
)

// Entry is one desired-language rule.
type Entry = library.ProfileItem

// Policy is a resolved profile.
type Policy struct {
	ProfileID int64
	Name      string
	Entries   []Entry // in profile order
	Cutoff    []Entry // empty when the profile has no cutoff
}

// ProfileStore loads profiles.
type ProfileStore interface {
	GetProfile(id int64) (*library.Profile, error)
}

// Resolver turns profile IDs into policies.
type Resolver struct {
	store  ProfileStore
	logger *slog.Logger
}

// NewResolver creates a resolver backed by store.
func NewResolver(store ProfileStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger.With("component", "policy")}
}

// Resolve loads the profile and computes its cutoff entries. A cutoff of
// library.CutoffAny selects every entry; a cutoff naming an item ID that
// does not exist selects nothing.
// Returns library.ErrNotFound if the profile does not exist.
func (r *Resolver) Resolve(ctx context.Context, profileID int64) (*Policy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := r.store.GetProfile(profileID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile %d: %w", profileID, err)
	}

	pol := &Policy{
		ProfileID: p.ID,
		Name:      p.Name,
		Entries:   p.Items,
		Cutoff:    cutoffEntries(p),
	}
	if p.Cutoff != nil && len(pol.Cutoff) == 0 {
		r.logger.Warn("profile cutoff references unknown item", "profile_id", p.ID, "cutoff", *p.Cutoff)
	}
	return pol, nil
}

func cutoffEntries(p *library.Profile) []Entry {
	if p.Cutoff == nil {
		return nil
	}
	if *p.Cutoff == library.CutoffAny {
		return append([]Entry(nil), p.Items...)
	}
	for _, item := range p.Items {
		if item.ID == *p.Cutoff {
			return []Entry{item}
		}
	}
	return nil
}
