package coinboard

import (
	"context"
	"os"
	"sync"
	"time"

	m "coinboard/internal/model"

	"github.com/rs/zerolog"
)

// SnapshotPoller keeps the latest market snapshot fresh. It issues an
// immediate fetch on Start, then one per interval. Every issued fetch
// is stamped with a generation; a response whose generation is no
// longer the most recently issued one is discarded, so a slow early
// response can never overwrite a newer snapshot.
//
// Availability over freshness: after the first successful load, fetch
// failures are swallowed and the last good snapshot is kept. The next
// tick is the retry.
type SnapshotPoller struct {
	api marketAPI
	lg  zerolog.Logger

	mu      sync.Mutex
	snap    *m.Snapshot
	err     error
	loading bool
	issued  uint64
	cancel  context.CancelFunc
}

func NewSnapshotPoller(api marketAPI) *SnapshotPoller {
	return &SnapshotPoller{
		api:     api,
		loading: true,
		lg:      zerolog.New(os.Stdout).With().Str("Module", "SnapshotPoller").Timestamp().Logger(),
	}
}

// Start begins polling. A running poller is restarted.
func (p *SnapshotPoller) Start(interval time.Duration) {
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		p.poll(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

// Stop cancels the repeating fetch and prevents any in-flight response
// from committing.
func (p *SnapshotPoller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (p *SnapshotPoller) poll(ctx context.Context) {
	p.mu.Lock()
	p.issued++
	gen := p.issued
	p.mu.Unlock()

	assets, err := p.api.Cryptos(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if gen != p.issued {
		p.lg.Debug().Uint64("gen", gen).Uint64("issued", p.issued).Msg("Discarding superseded fetch")
		return
	}

	if err != nil {
		// until a snapshot exists, any failure that survives the
		// generation check settles the initial load and stays visible
		if p.snap == nil {
			p.loading = false
			p.err = err
			return
		}
		p.lg.Debug().Err(err).Msg("Swallowing background refresh failure")
		return
	}

	p.snap = &m.Snapshot{Assets: assets, FetchedAt: time.Now()}
	p.err = nil
	p.loading = false
}

// Snapshot returns the last committed snapshot, nil before the first
// successful fetch.
func (p *SnapshotPoller) Snapshot() *m.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Loading reports whether the initial load is still in progress.
func (p *SnapshotPoller) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the visible error of a failed load before any snapshot
// was committed. It clears on the next successful fetch.
func (p *SnapshotPoller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *SnapshotPoller) LastUpdate() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap == nil {
		return time.Time{}
	}
	return p.snap.FetchedAt
}
