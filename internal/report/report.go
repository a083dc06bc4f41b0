// Package report writes batch results for downstream consumers (plotting,
// validation) and renders a console summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/vol-index/internal/index"
)

// pointDTO maps one index point to a CSV row.
type pointDTO struct {
	Date        string  `csv:"date"`
	HorizonDays int     `csv:"horizon_days"`
	Value       float64 `csv:"value"`
}

// WriteJSON writes the full result, failures included, to result.json.
func WriteJSON(res *index.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "result.json"), b, 0644)
}

// WriteCSV writes the index series to index.csv, one row per trade date.
func WriteCSV(res *index.Result, outdir string) error {
	dtos := make([]pointDTO, 0, len(res.Points))
	for _, pt := range res.Points {
		dtos = append(dtos, pointDTO{
			Date:        pt.TradeDate.Format("2006-01-02"),
			HorizonDays: pt.HorizonDays,
			Value:       pt.Value,
		})
	}

	f, err := os.Create(filepath.Join(outdir, "index.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&dtos, f)
}

// PrintSummary renders a descriptive summary of the run to w.
func PrintSummary(w io.Writer, res *index.Result) error {
	values := make([]float64, 0, len(res.Points))
	for _, pt := range res.Points {
		values = append(values, pt.Value)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"run", "horizon", "dates", "failed", "mean", "min", "max", "stddev"})

	mean, min, max, sd := "-", "-", "-", "-"
	if len(values) > 0 {
		m, err := stats.Mean(values)
		if err != nil {
			return err
		}
		lo, err := stats.Min(values)
		if err != nil {
			return err
		}
		hi, err := stats.Max(values)
		if err != nil {
			return err
		}
		dev, err := stats.StandardDeviation(values)
		if err != nil {
			return err
		}
		mean = fmt.Sprintf("%.2f", m)
		min = fmt.Sprintf("%.2f", lo)
		max = fmt.Sprintf("%.2f", hi)
		sd = fmt.Sprintf("%.2f", dev)
	}

	table.Append([]string{
		res.RunID,
		fmt.Sprintf("%dd", res.HorizonDays),
		fmt.Sprintf("%d", len(res.Points)),
		fmt.Sprintf("%d", len(res.Failures)),
		mean, min, max, sd,
	})
	table.Render()
	return nil
}
