package coinboard

import (
	"context"
	"os"
	"slices"
	"sync"

	m "coinboard/internal/model"

	"github.com/rs/zerolog"
)

// FavoriteSet mirrors the server-side favorite set of the current
// session. The server is the single source of truth: toggles hit the
// server first and the local set changes only on a confirmed success.
type FavoriteSet struct {
	api favoritesAPI
	lg  zerolog.Logger

	mu       sync.Mutex
	ids      []string
	inflight map[string]bool
}

func NewFavoriteSet(api favoritesAPI) *FavoriteSet {
	return &FavoriteSet{
		api:      api,
		inflight: make(map[string]bool),
		lg:       zerolog.New(os.Stdout).With().Str("Module", "Favorites").Timestamp().Logger(),
	}
}

// Load replaces the set with the server's. Unauthenticated sessions get
// an empty set without any network call.
func (f *FavoriteSet) Load(ctx context.Context, authenticated bool) error {
	if !authenticated {
		f.Clear()
		return nil
	}

	ids, err := f.api.Favorites(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.ids = ids
	f.mu.Unlock()
	return nil
}

func (f *FavoriteSet) Has(externalId string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.ids, externalId)
}

func (f *FavoriteSet) IDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.ids)
}

func (f *FavoriteSet) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}

// Toggle adds or removes one favorite, server first. Never optimistic:
// on failure the set is untouched and the error carries the server
// message. A second toggle on the same asset while one is pending is
// refused with ErrToggleInFlight.
func (f *FavoriteSet) Toggle(ctx context.Context, externalId string) (added bool, err error) {
	f.mu.Lock()
	if f.inflight[externalId] {
		f.mu.Unlock()
		return false, ErrToggleInFlight
	}
	f.inflight[externalId] = true
	present := slices.Contains(f.ids, externalId)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.inflight, externalId)
		f.mu.Unlock()
	}()

	if present {
		err = f.api.RemoveFavorite(ctx, externalId)
	} else {
		err = f.api.AddFavorite(ctx, externalId)
	}
	if err != nil {
		f.lg.Warn().Err(err).Str("externalId", externalId).Msg("Favorite toggle rejected")
		return false, err
	}

	f.mu.Lock()
	if present {
		f.ids = slices.DeleteFunc(f.ids, func(id string) bool { return id == externalId })
	} else {
		f.ids = append(f.ids, externalId)
	}
	f.mu.Unlock()

	return !present, nil
}

// Remove deletes one favorite, server first.
func (f *FavoriteSet) Remove(ctx context.Context, externalId string) error {
	if !f.Has(externalId) {
		return nil
	}
	if err := f.api.RemoveFavorite(ctx, externalId); err != nil {
		return err
	}

	f.mu.Lock()
	f.ids = slices.DeleteFunc(f.ids, func(id string) bool { return id == externalId })
	f.mu.Unlock()
	return nil
}

func (f *FavoriteSet) Clear() {
	f.mu.Lock()
	f.ids = nil
	f.mu.Unlock()
}

// Known maps the set onto the snapshot, keeping the set's order. Ids
// the snapshot no longer carries are filtered silently, not erased;
// they come back if the asset reappears.
func (f *FavoriteSet) Known(snap *m.Snapshot) []m.Asset {
	if snap == nil {
		return nil
	}

	byId := make(map[string]m.Asset, len(snap.Assets))
	for _, a := range snap.Assets {
		byId[a.ExternalId] = a
	}

	var known []m.Asset
	for _, id := range f.IDs() {
		if a, ok := byId[id]; ok {
			known = append(known, a)
		}
	}
	return known
}
