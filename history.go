package coinboard

import (
	"context"
	"math"
	"os"
	"slices"
	"sync"
	"time"

	m "coinboard/internal/model"

	"github.com/rs/zerolog"
)

// Interval is one of the chart window choices. The backend always
// serves its full retention; windowing happens client side.
type Interval struct {
	Label  string
	Value  string
	Window time.Duration
}

var Intervals = []Interval{
	{Label: "1h", Value: "1h", Window: time.Hour},
	{Label: "24h", Value: "24h", Window: 24 * time.Hour},
	{Label: "7d", Value: "7d", Window: 7 * 24 * time.Hour},
}

// IntervalByValue falls back to the widest window on unknown values.
func IntervalByValue(value string) Interval {
	for _, iv := range Intervals {
		if iv.Value == value {
			return iv
		}
	}
	return Intervals[len(Intervals)-1]
}

// NormalizeSeries drops malformed points and orders the series
// ascending by timestamp.
func NormalizeSeries(raw []m.RawPoint) []m.HistoryPoint {
	series := make([]m.HistoryPoint, 0, len(raw))
	for _, p := range raw {
		if p.Ts == nil || p.Price == nil {
			continue
		}
		if math.IsNaN(*p.Price) || math.IsInf(*p.Price, 0) {
			continue
		}
		series = append(series, m.HistoryPoint{Ts: *p.Ts, Price: *p.Price})
	}

	slices.SortFunc(series, func(a, b m.HistoryPoint) int {
		switch {
		case a.Ts < b.Ts:
			return -1
		case a.Ts > b.Ts:
			return 1
		}
		return 0
	})
	return series
}

// WindowFilter keeps points newer than now-window. A sparse history
// that yields zero points falls back to the unfiltered series rather
// than an empty chart.
func WindowFilter(series []m.HistoryPoint, window time.Duration, now time.Time) []m.HistoryPoint {
	cut := now.Add(-window).UnixMilli()

	filtered := make([]m.HistoryPoint, 0, len(series))
	for _, p := range series {
		if p.Ts >= cut {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return series
	}
	return filtered
}

// YDomain is the vertical chart range. Auto means the chart picks its
// own bounds (empty series).
type YDomain struct {
	Auto bool
	Min  float64
	Max  float64
}

const yDomainEpsilon = 1e-6

// ComputeYDomain pads the observed price range so a series never
// renders as a flat line glued to the chart edges: a single distinct
// value gets max(1% of |value|, epsilon) on each side, a real range
// gets max(2% of the range, 0.1% of |min|).
func ComputeYDomain(series []m.HistoryPoint) YDomain {
	if len(series) == 0 {
		return YDomain{Auto: true}
	}

	min, max := series[0].Price, series[0].Price
	for _, p := range series[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}

	if min == max {
		pad := math.Max(math.Abs(min)*0.01, yDomainEpsilon)
		return YDomain{Min: min - pad, Max: max + pad}
	}

	pad := math.Max((max-min)*0.02, math.Abs(min)*0.001)
	return YDomain{Min: min - pad, Max: max + pad}
}

type ChartState string

const (
	ChartIdle    ChartState = "idle"
	ChartLoading ChartState = "loading"
	ChartReady   ChartState = "ready"
	ChartError   ChartState = "error"
)

type CompareState string

const (
	CompareOff       CompareState = "off"
	CompareSelecting CompareState = "selecting"
	CompareLoading   CompareState = "loading"
	CompareReady     CompareState = "ready"
	CompareError     CompareState = "error"
)

// ChartView drives the details chart: one primary series and an
// optional comparison series under a shared interval selector. The two
// state machines are independent; changing the primary asset tears
// everything down, changing the compare asset resets only the compare
// side. Fetches are generation-stamped so a superseded fetch can never
// commit into a view that moved on.
type ChartView struct {
	api historyAPI
	lg  zerolog.Logger
	now func() time.Time

	mu       sync.Mutex
	id       string
	state    ChartState
	series   []m.HistoryPoint
	err      error
	interval Interval

	compareId     string
	compareState  CompareState
	compareSeries []m.HistoryPoint
	compareErr    error

	gen        uint64
	compareGen uint64
}

func NewChartView(api historyAPI) *ChartView {
	return &ChartView{
		api:          api,
		now:          time.Now,
		state:        ChartIdle,
		compareState: CompareOff,
		interval:     IntervalByValue("7d"),
		lg:           zerolog.New(os.Stdout).With().Str("Module", "Chart").Timestamp().Logger(),
	}
}

// SetAsset switches the primary asset, restarting the view from Idle.
// The compare sub-machine is torn down with it.
func (v *ChartView) SetAsset(ctx context.Context, externalId string) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.compareGen++

	v.id = externalId
	v.state = ChartLoading
	v.series = nil
	v.err = nil

	v.compareId = ""
	v.compareState = CompareOff
	v.compareSeries = nil
	v.compareErr = nil
	v.mu.Unlock()

	raw, err := v.api.History(ctx, externalId)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.lg.Debug().Str("externalId", externalId).Msg("Discarding superseded history fetch")
		return nil
	}

	if err != nil {
		v.state = ChartError
		v.err = err
		return err
	}

	v.state = ChartReady
	v.series = NormalizeSeries(raw)
	return nil
}

func (v *ChartView) SetInterval(value string) {
	v.mu.Lock()
	v.interval = IntervalByValue(value)
	v.mu.Unlock()
}

func (v *ChartView) Interval() Interval {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.interval
}

// EnableCompare opens the comparison selector without fetching.
func (v *ChartView) EnableCompare() {
	v.mu.Lock()
	if v.compareState == CompareOff {
		v.compareState = CompareSelecting
	}
	v.mu.Unlock()
}

func (v *ChartView) DisableCompare() {
	v.mu.Lock()
	v.compareGen++
	v.compareId = ""
	v.compareState = CompareOff
	v.compareSeries = nil
	v.compareErr = nil
	v.mu.Unlock()
}

// SetCompare loads the comparison series. Only the compare sub-machine
// moves; the primary state is untouched. An empty id returns to the
// selector.
func (v *ChartView) SetCompare(ctx context.Context, externalId string) error {
	v.mu.Lock()
	if v.compareState == CompareOff {
		v.mu.Unlock()
		return validationErr("comparison mode is off")
	}
	v.compareGen++
	gen := v.compareGen

	if externalId == "" {
		v.compareId = ""
		v.compareState = CompareSelecting
		v.compareSeries = nil
		v.compareErr = nil
		v.mu.Unlock()
		return nil
	}

	v.compareId = externalId
	v.compareState = CompareLoading
	v.compareSeries = nil
	v.compareErr = nil
	v.mu.Unlock()

	raw, err := v.api.History(ctx, externalId)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.compareGen {
		v.lg.Debug().Str("externalId", externalId).Msg("Discarding superseded compare fetch")
		return nil
	}

	if err != nil {
		v.compareState = CompareError
		v.compareErr = err
		return err
	}

	v.compareState = CompareReady
	v.compareSeries = NormalizeSeries(raw)
	return nil
}

func (v *ChartView) AssetId() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.id
}

func (v *ChartView) State() ChartState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *ChartView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Series returns the primary series windowed to the current interval.
func (v *ChartView) Series() []m.HistoryPoint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return WindowFilter(v.series, v.interval.Window, v.now())
}

func (v *ChartView) Domain() YDomain {
	return ComputeYDomain(v.Series())
}

func (v *ChartView) CompareId() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.compareId
}

func (v *ChartView) CompareState() CompareState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.compareState
}

func (v *ChartView) CompareErr() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.compareErr
}

func (v *ChartView) CompareSeries() []m.HistoryPoint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return WindowFilter(v.compareSeries, v.interval.Window, v.now())
}

func (v *ChartView) CompareDomain() YDomain {
	return ComputeYDomain(v.CompareSeries())
}
