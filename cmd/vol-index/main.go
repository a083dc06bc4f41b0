package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/contactkeval/vol-index/internal/config"
	"github.com/contactkeval/vol-index/internal/data"
	"github.com/contactkeval/vol-index/internal/index"
	"github.com/contactkeval/vol-index/internal/logger"
	"github.com/contactkeval/vol-index/internal/report"
	"github.com/contactkeval/vol-index/internal/store"
	"github.com/contactkeval/vol-index/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "vol-index",
	Short: "Compute a model-free implied volatility index from option quote snapshots",
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Run the index calculation over a date range and write the series",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}
		rest, err := cmd.Flags().GetBool("rest")
		if err != nil {
			log.Fatalf("error getting rest: %v", err)
		}
		port, err := cmd.Flags().GetString("port")
		if err != nil {
			log.Fatalf("error getting port: %v", err)
		}

		cfg, err := config.LoadAndValidate(configPath)
		if err != nil {
			log.Fatalf("invalid config: %v", err)
		}
		logger.Init(cfg.Verbosity)

		engine, prov, err := buildPipeline(cfg)
		if err != nil {
			log.Fatalf("building pipeline: %v", err)
		}

		if rest {
			serveREST(cfg, engine, prov, port)
			return
		}

		start := time.Now()
		res, err := runOnce(cfg, engine, prov)
		if err != nil {
			log.Fatalf("compute failed: %v", err)
		}
		log.Infof("finished in %v, wrote %d index points to %s", time.Since(start), len(res.Points), cfg.Report.Dir)
		if err := report.PrintSummary(os.Stdout, res); err != nil {
			log.Fatalf("summary: %v", err)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compare a computed index series against a published one",
	Run: func(cmd *cobra.Command, args []string) {
		computedPath, err := cmd.Flags().GetString("computed")
		if err != nil {
			log.Fatalf("error getting computed: %v", err)
		}
		publishedPath, err := cmd.Flags().GetString("published")
		if err != nil {
			log.Fatalf("error getting published: %v", err)
		}

		computed, err := validate.LoadSeries(computedPath)
		if err != nil {
			log.Fatalf("loading computed series: %v", err)
		}
		published, err := validate.LoadSeries(publishedPath)
		if err != nil {
			log.Fatalf("loading published series: %v", err)
		}

		points := make([]index.IndexPoint, 0, len(computed))
		for date, value := range computed {
			t, err := time.Parse("2006-01-02", date)
			if err != nil {
				log.Fatalf("bad date %q in computed series: %v", date, err)
			}
			points = append(points, index.IndexPoint{TradeDate: t, Value: value})
		}

		rep, err := validate.Compare(points, published)
		if err != nil {
			log.Fatalf("comparison failed: %v", err)
		}
		rep.Print(os.Stdout)
	},
}

func buildPipeline(cfg *config.Config) (*index.Engine, data.Provider, error) {
	filter, err := data.NewRowFilter(cfg.Data.Filter)
	if err != nil {
		return nil, nil, err
	}

	synthetic := data.NewSyntheticProvider(cfg.Data.SyntheticSeed, cfg.Data.DateFormat, filter)
	var prov data.Provider
	if cfg.Data.Synthetic {
		prov = synthetic
		log.Infof("synthetic provider enabled (seed %d)", cfg.Data.SyntheticSeed)
	} else {
		// CSV with synthetic fallback when the directory has nothing
		prov = data.NewCSVProvider(cfg.Data.QuotesDir, cfg.Data.DateFormat, filter, synthetic)
		log.Infof("csv provider enabled (%s)", cfg.Data.QuotesDir)
	}

	engine := index.NewEngine(index.Config{
		Params: index.Params{
			RiskFreeRate:     cfg.Index.RiskFreeRate,
			HorizonDays:      cfg.Index.HorizonDays,
			ZeroBidThreshold: cfg.Index.ZeroBidThreshold,
			MinutesPerYear:   cfg.Index.MinutesPerYear,
		},
		DateFormat: cfg.Data.DateFormat,
		Workers:    cfg.Index.Workers,
	})
	return engine, prov, nil
}

func runOnce(cfg *config.Config, engine *index.Engine, prov data.Provider) (*index.Result, error) {
	from, err := time.Parse(cfg.Data.DateFormat, cfg.Data.From)
	if err != nil {
		return nil, fmt.Errorf("parse data.from: %w", err)
	}
	to, err := time.Parse(cfg.Data.DateFormat, cfg.Data.To)
	if err != nil {
		return nil, fmt.Errorf("parse data.to: %w", err)
	}

	raws, err := prov.LoadQuotes(from, to)
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}
	res := engine.Run(raws)

	if err := os.MkdirAll(cfg.Report.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", cfg.Report.Dir, err)
	}
	if err := report.WriteJSON(res, cfg.Report.Dir); err != nil {
		return nil, fmt.Errorf("write json: %w", err)
	}
	if err := report.WriteCSV(res, cfg.Report.Dir); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	if cfg.Database.Enabled {
		if err := persist(cfg, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func persist(cfg *config.Config, res *index.Result) error {
	ctx := context.Background()
	st, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer st.Close()
	if err := st.Init(ctx); err != nil {
		return err
	}
	if err := st.SaveResult(ctx, res); err != nil {
		return err
	}
	log.Infof("persisted %d index points (run %s)", len(res.Points), res.RunID)
	return nil
}

func serveREST(cfg *config.Config, engine *index.Engine, prov data.Provider, port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		log.Infof("received /run request")
		res, err := runOnce(cfg, engine, prov)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	log.Infof("starting REST server on %s", port)
	log.Fatal(http.ListenAndServe(port, mux))
}

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded .env")
	}

	computeCmd.Flags().String("config", "config.yaml", "path to YAML config")
	computeCmd.Flags().Bool("rest", false, "run as REST server (accept compute jobs)")
	computeCmd.Flags().String("port", ":8080", "REST server listen address")

	validateCmd.Flags().String("computed", "./out/index.csv", "computed index series CSV")
	validateCmd.Flags().String("published", "", "published index series CSV")
	_ = validateCmd.MarkFlagRequired("published")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(validateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
