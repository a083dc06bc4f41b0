package index

import (
	"errors"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Config drives one engine instance.
type Config struct {
	Params     Params
	DateFormat string // layout of raw textual dates, default "2006-01-02"
	Workers    int    // trade dates computed concurrently, default NumCPU
}

// Failure reports one trade date the batch could not compute.
type Failure struct {
	TradeDate time.Time `json:"trade_date"`
	Reason    string    `json:"reason"`
}

// Result is one batch run: the computed index series plus the dates that
// failed, each attributed with its failure kind.
type Result struct {
	RunID       string       `json:"run_id"`
	HorizonDays int          `json:"horizon_days"`
	Points      []IndexPoint `json:"points"`
	Failures    []Failure    `json:"failures,omitempty"`
}

// Engine runs the per-date pipeline over quote snapshots.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.Params = cfg.Params.withDefaults()
	return &Engine{cfg: cfg}
}

// ComputeDate runs the full pipeline for the chains of a single trade date:
// forward, reference strike, filtering, spacing and variance per
// expiration, then cohort selection and horizon interpolation. The first
// failing step fails the date.
func (e *Engine) ComputeDate(chains []Chain) (IndexPoint, error) {
	p := e.cfg.Params

	variances := make([]ExpirationVariance, 0, len(chains))
	for _, c := range chains {
		fwd, err := EstimateForward(c, p.RiskFreeRate)
		if err != nil {
			return IndexPoint{}, &DateError{TradeDate: c.TradeDate, Err: err}
		}
		k0, err := ReferenceStrike(c, fwd.Forward)
		if err != nil {
			return IndexPoint{}, &DateError{TradeDate: c.TradeDate, Err: err}
		}
		filtered := FilterChain(c, k0, p.ZeroBidThreshold)
		v := ComputeVariance(ComputeSpacing(filtered), fwd, k0, p.RiskFreeRate)
		log.Debugf("index: %s exp %s fwd=%.4f k0=%.2f kept=%d/%d sigma2=%.6f",
			c.TradeDate.Format("2006-01-02"), c.Expiration.Format("2006-01-02"),
			fwd.Forward, k0, len(filtered.Quotes), len(c.Quotes), v.Sigma2)
		variances = append(variances, v)
	}

	var tradeDate time.Time
	if len(chains) > 0 {
		tradeDate = chains[0].TradeDate
	}

	near, next, err := SelectCohorts(variances, p.HorizonDays)
	if err != nil {
		return IndexPoint{}, &DateError{TradeDate: tradeDate, Err: err}
	}
	point, err := Interpolate(near, next, p)
	if err != nil {
		return IndexPoint{}, &DateError{TradeDate: tradeDate, Err: err}
	}
	if math.IsNaN(point.Value) {
		log.Warnf("index: %s produced NaN (negative variance radicand)", tradeDate.Format("2006-01-02"))
	}
	return point, nil
}

// Run normalizes the raw quotes and fans the independent trade dates out to
// a bounded worker pool. A failing date is reported in Result.Failures and
// never aborts the rest of the batch. Points come back sorted by date.
func (e *Engine) Run(raws []RawQuote) *Result {
	res := &Result{RunID: uuid.NewString(), HorizonDays: e.cfg.Params.HorizonDays}

	byDate := map[string][]RawQuote{}
	var dates []string
	for _, raw := range raws {
		if _, ok := byDate[raw.TradeDate]; !ok {
			dates = append(dates, raw.TradeDate)
		}
		byDate[raw.TradeDate] = append(byDate[raw.TradeDate], raw)
	}

	normalizer := Normalizer{DateFormat: e.cfg.DateFormat}
	sem := make(chan struct{}, e.cfg.Workers)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, date := range dates {
		group := byDate[date]
		wg.Add(1)
		sem <- struct{}{}
		go func(date string, group []RawQuote) {
			defer wg.Done()
			defer func() { <-sem }()

			point, err := e.computeRawDate(normalizer, date, group)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warnf("index: %v", err)
				res.Failures = append(res.Failures, Failure{
					TradeDate: failureDate(err, normalizer, date),
					Reason:    err.Error(),
				})
				return
			}
			res.Points = append(res.Points, point)
		}(date, group)
	}
	wg.Wait()

	sort.Slice(res.Points, func(i, j int) bool { return res.Points[i].TradeDate.Before(res.Points[j].TradeDate) })
	sort.Slice(res.Failures, func(i, j int) bool { return res.Failures[i].TradeDate.Before(res.Failures[j].TradeDate) })
	log.Infof("index: run %s computed %d dates, %d failed", res.RunID, len(res.Points), len(res.Failures))
	return res
}

func (e *Engine) computeRawDate(n Normalizer, date string, group []RawQuote) (IndexPoint, error) {
	chains, err := n.Normalize(group)
	if err != nil {
		return IndexPoint{}, err
	}
	return e.ComputeDate(chains)
}

// failureDate recovers the trade date for failure attribution; a DateError
// already carries it, otherwise the raw date string is parsed best-effort.
func failureDate(err error, n Normalizer, raw string) time.Time {
	var de *DateError
	if errors.As(err, &de) {
		return de.TradeDate
	}
	t, parseErr := time.Parse(n.layout(), raw)
	if parseErr != nil {
		return time.Time{}
	}
	return t
}
