package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/team-izakaya/menugraph-backend/internal/data/graph"
	"github.com/team-izakaya/menugraph-backend/internal/platform/envutil"
	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
	"github.com/team-izakaya/menugraph-backend/internal/platform/neo4jdb"
)

// Each file carries the situational weights for one context category. The
// CSV columns are source (menu name), target (context value), weight.
var categoryFiles = map[string]string{
	"alchol.csv":   "alcohol",
	"category.csv": "category",
	"people.csv":   "people",
	"price.csv":    "price",
	"rain.csv":     "rain",
	"season.csv":   "season",
	"time.csv":     "time",
}

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dataDir := flag.String("data", envutil.GetEnv("CONTEXT_DATA_DIR", "./data/var", log), "directory holding the per-category weight CSVs")
	goodMatchMin := flag.Float64("good-match-min", 0.7, "minimum weight for a row to also get a GOOD_MATCH edge")
	flag.Parse()

	ctx := context.Background()

	client, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Error("Neo4j init failed", "error", err)
		os.Exit(1)
	}
	defer client.Close(ctx)
	store, err := graph.NewStore(client, log)
	if err != nil {
		log.Error("Graph store init failed", "error", err)
		os.Exit(1)
	}
	store.EnsureSchema(ctx)

	total := 0
	for filename, category := range categoryFiles {
		path := filepath.Join(*dataDir, filename)
		rows, err := readFitRows(path, category)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warn("Weight file missing, skipping", "file", filename)
				continue
			}
			log.Error("Could not read weight file", "file", filename, "error", err)
			os.Exit(1)
		}

		n, err := store.ImportContextFits(ctx, rows, *goodMatchMin)
		if err != nil {
			log.Error("Import failed", "file", filename, "error", err)
			os.Exit(1)
		}
		log.Info("Imported context weights", "file", filename, "category", category, "rows", n)
		total += n
	}
	log.Info("Context weight import complete", "total_rows", total)
}

// readFitRows parses one category CSV. The header row is required and rows
// with an unparseable weight are skipped with a zero value rather than
// aborting the whole import.
func readFitRows(path string, category string) ([]graph.ContextFitRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	srcIdx, ok := cols["source"]
	if !ok {
		return nil, fmt.Errorf("parse %s: missing source column", filepath.Base(path))
	}
	tgtIdx, ok := cols["target"]
	if !ok {
		return nil, fmt.Errorf("parse %s: missing target column", filepath.Base(path))
	}
	weightIdx, hasWeight := cols["weight"]

	rows := make([]graph.ContextFitRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if srcIdx >= len(rec) || tgtIdx >= len(rec) {
			continue
		}
		row := graph.ContextFitRow{
			Menu:     strings.TrimSpace(rec[srcIdx]),
			Category: category,
			Value:    strings.TrimSpace(rec[tgtIdx]),
		}
		if hasWeight && weightIdx < len(rec) {
			if w, err := strconv.ParseFloat(strings.TrimSpace(rec[weightIdx]), 64); err == nil {
				row.Weight = w
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
