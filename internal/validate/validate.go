// Package validate compares a computed index series against an externally
// published series and reports agreement metrics.
package validate

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/vol-index/internal/index"
)

// seriesDTO maps one row of a published index series CSV.
type seriesDTO struct {
	Date  string  `csv:"date"`
	Value float64 `csv:"value"`
}

// LoadSeries reads a {date,value} CSV into a date-keyed map.
func LoadSeries(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series %s: %w", path, err)
	}
	defer f.Close()

	var dtos []seriesDTO
	if err := gocsv.UnmarshalFile(f, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal series %s: %w", path, err)
	}

	out := make(map[string]float64, len(dtos))
	for _, dto := range dtos {
		out[dto.Date] = dto.Value
	}
	return out, nil
}

// Report summarizes the agreement between two aligned series.
type Report struct {
	Matched     int
	Correlation float64
	MAE         float64
	MaxAbsErr   float64
}

// Compare aligns computed points with published values by date and computes
// Pearson correlation, mean absolute error and the largest absolute error.
// NaN points are skipped. At least two matched dates are required.
func Compare(points []index.IndexPoint, published map[string]float64) (Report, error) {
	var computed, actual, absErrs []float64
	maxErr := 0.0
	for _, pt := range points {
		if math.IsNaN(pt.Value) {
			continue
		}
		ref, ok := published[pt.TradeDate.Format("2006-01-02")]
		if !ok {
			continue
		}
		computed = append(computed, pt.Value)
		actual = append(actual, ref)
		e := math.Abs(pt.Value - ref)
		absErrs = append(absErrs, e)
		if e > maxErr {
			maxErr = e
		}
	}

	if len(computed) < 2 {
		return Report{}, fmt.Errorf("need at least 2 matched dates, got %d", len(computed))
	}

	corr, err := stats.Pearson(computed, actual)
	if err != nil {
		return Report{}, fmt.Errorf("correlation: %w", err)
	}
	mae, err := stats.Mean(absErrs)
	if err != nil {
		return Report{}, fmt.Errorf("mean absolute error: %w", err)
	}

	return Report{
		Matched:     len(computed),
		Correlation: corr,
		MAE:         mae,
		MaxAbsErr:   maxErr,
	}, nil
}

// Print renders the report to w.
func (r Report) Print(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"matched dates", "correlation", "mae", "max abs err"})
	table.Append([]string{
		fmt.Sprintf("%d", r.Matched),
		fmt.Sprintf("%.4f", r.Correlation),
		fmt.Sprintf("%.3f", r.MAE),
		fmt.Sprintf("%.3f", r.MaxAbsErr),
	})
	table.Render()
}
