package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/contactkeval/vol-index/internal/index"
)

// quoteDTO maps one CSV row of a quote snapshot file.
type quoteDTO struct {
	TradeDate  string  `csv:"date"`
	Expiration string  `csv:"expiration"`
	Strike     float64 `csv:"strike"`
	Type       string  `csv:"type"`
	Bid        float64 `csv:"bid"`
	Ask        float64 `csv:"ask"`
}

func (d quoteDTO) ToRaw() index.RawQuote {
	return index.RawQuote{
		TradeDate:  d.TradeDate,
		Expiration: d.Expiration,
		Strike:     d.Strike,
		Type:       d.Type,
		Bid:        d.Bid,
		Ask:        d.Ask,
	}
}

// csvProvider loads quote snapshots from every .csv file in a directory.
type csvProvider struct {
	dir        string
	dateFormat string
	filter     *RowFilter
	secondary  Provider
}

// NewCSVProvider constructs a directory-backed provider. dateFormat is the
// layout of the date columns (default "2006-01-02"). secondary, when
// non-nil, is consulted if the directory yields no quotes for the range.
func NewCSVProvider(dir, dateFormat string, filter *RowFilter, secondary Provider) Provider {
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}
	return &csvProvider{dir: dir, dateFormat: dateFormat, filter: filter, secondary: secondary}
}

func (p *csvProvider) Secondary() Provider { return p.secondary }

func (p *csvProvider) LoadQuotes(from, to time.Time) ([]index.RawQuote, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if p.secondary != nil {
			log.Warnf("data: read quotes dir %s: %v - falling back", p.dir, err)
			return p.secondary.LoadQuotes(from, to)
		}
		return nil, fmt.Errorf("read quotes dir %s: %w", p.dir, err)
	}

	var raws []index.RawQuote
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		batch, err := p.loadFile(filepath.Join(p.dir, entry.Name()), from, to)
		if err != nil {
			return nil, err
		}
		raws = append(raws, batch...)
	}

	if len(raws) == 0 && p.secondary != nil {
		log.Infof("data: no quotes in %s for %s..%s - falling back",
			p.dir, from.Format(p.dateFormat), to.Format(p.dateFormat))
		return p.secondary.LoadQuotes(from, to)
	}

	return applyFilter(p.filter, raws)
}

func (p *csvProvider) loadFile(path string, from, to time.Time) ([]index.RawQuote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var dtos []quoteDTO
	if err := gocsv.UnmarshalFile(f, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	out := make([]index.RawQuote, 0, len(dtos))
	for _, dto := range dtos {
		trade, err := time.Parse(p.dateFormat, strings.TrimSpace(dto.TradeDate))
		if err != nil {
			// leave malformed dates for the engine to report as
			// invalid quotes rather than dropping them silently
			out = append(out, dto.ToRaw())
			continue
		}
		if trade.Before(from) || trade.After(to) {
			continue
		}
		out = append(out, dto.ToRaw())
	}
	log.Debugf("data: %s yielded %d quotes", path, len(out))
	return out, nil
}
