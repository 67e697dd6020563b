package coinboard

import (
	"cmp"
	"slices"
	"strings"

	m "coinboard/internal/model"
)

type SortKey string

const (
	SortByRank      SortKey = "marketCapRank"
	SortByName      SortKey = "name"
	SortBySymbol    SortKey = "symbol"
	SortByPrice     SortKey = "currentPrice"
	SortByMarketCap SortKey = "marketCap"
)

func ToSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortByRank, SortByName, SortBySymbol, SortByPrice, SortByMarketCap:
		return SortKey(s), true
	}
	return "", false
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// PageSize is fixed; the UI has no page size selector.
const PageSize = 25

// ViewState is the user-controlled part of the derived view. It is
// mutated only by explicit user action, except that recomputation may
// clamp Page back into range.
type ViewState struct {
	Key           SortKey
	Direction     SortDirection
	Page          int
	FavoritesOnly bool
}

func NewViewState() ViewState {
	return ViewState{
		Key:       SortByRank,
		Direction: Ascending,
		Page:      1,
	}
}

// CycleSort flips the direction when the same key is clicked again and
// resets to ascending on a new key.
func (v *ViewState) CycleSort(key SortKey) {
	if v.Key == key && v.Direction == Ascending {
		v.Direction = Descending
		return
	}
	v.Key = key
	v.Direction = Ascending
}

// SetFavoritesOnly toggles the favorites filter and returns to the
// first page.
func (v *ViewState) SetFavoritesOnly(on bool) {
	v.FavoritesOnly = on
	v.Page = 1
}

func (v *ViewState) GoToPage(page int) {
	if page < 1 {
		return
	}
	v.Page = page
}

// PageView is the visible projection of a snapshot: sorted, filtered,
// paginated.
type PageView struct {
	Assets     []m.Asset
	Page       int
	TotalPages int
	Filtered   int
}

// SortAssets returns a sorted copy. String keys compare
// case-insensitively, ties keep the snapshot order.
func SortAssets(assets []m.Asset, key SortKey, dir SortDirection) []m.Asset {
	sorted := slices.Clone(assets)

	slices.SortStableFunc(sorted, func(a, b m.Asset) int {
		var c int
		switch key {
		case SortByName:
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortBySymbol:
			c = cmp.Compare(strings.ToLower(a.Symbol), strings.ToLower(b.Symbol))
		case SortByPrice:
			c = cmp.Compare(a.CurrentPrice, b.CurrentPrice)
		case SortByMarketCap:
			c = cmp.Compare(a.MarketCap, b.MarketCap)
		default:
			c = cmp.Compare(a.MarketCapRank, b.MarketCapRank)
		}
		if dir == Descending {
			return -c
		}
		return c
	})

	return sorted
}

// ComputePage runs the pure sort -> filter -> paginate pipeline. It is
// idempotent and re-run on every snapshot or view change. The page is
// clamped into [1, TotalPages] as a side effect, never below 1.
func ComputePage(snap *m.Snapshot, view *ViewState, isFavorite func(string) bool) PageView {
	if snap == nil {
		view.Page = 1
		return PageView{Page: 1, TotalPages: 1}
	}

	assets := SortAssets(snap.Assets, view.Key, view.Direction)

	if view.FavoritesOnly && isFavorite != nil {
		filtered := assets[:0:0]
		for _, a := range assets {
			if isFavorite(a.ExternalId) {
				filtered = append(filtered, a)
			}
		}
		assets = filtered
	}

	totalPages := (len(assets) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if view.Page > totalPages {
		view.Page = totalPages
	}
	if view.Page < 1 {
		view.Page = 1
	}

	start := (view.Page - 1) * PageSize
	end := min(start+PageSize, len(assets))
	if start > len(assets) {
		start = len(assets)
	}

	return PageView{
		Assets:     assets[start:end],
		Page:       view.Page,
		TotalPages: totalPages,
		Filtered:   len(assets),
	}
}
