// Command genmock reads a CSV of meteoroid scenarios and writes two fixtures:
// a JSONL stream of request envelopes for the Kafka request topic, and the
// reports the engine produces for them. It runs the real engine so the
// expected reports match production behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/scenarios.csv \
//	  -requests-out data/mock/requests.jsonl \
//	  -reports-out data/mock/reports.json
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/TEC-Andres/HackSAERO/internal/deflection"
	"github.com/TEC-Andres/HackSAERO/internal/domain"
	"github.com/TEC-Andres/HackSAERO/internal/engine"
	"github.com/TEC-Andres/HackSAERO/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "scenario CSV file")
	requestsOut := flag.String("requests-out", "", "output path for the request envelope JSONL fixture")
	reportsOut := flag.String("reports-out", "", "output path for the expected report JSON fixture")
	flag.Parse()

	if *csvPath == "" || *requestsOut == "" || *reportsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -requests-out, -reports-out")
	}

	// Fixed clock for reproducible computed_at stamps.
	engine.SetClock(clockwork.NewFakeClockAt(
		time.Date(2029, time.April, 13, 21, 46, 0, 0, time.UTC),
	))
	defer engine.SetClock(nil)

	envelopes, err := loadScenarios(*csvPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *csvPath, err)
	}
	log.Printf("loaded %d scenarios", len(envelopes))

	svc := engine.New(slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	reports := make([]engine.ReportEnvelope, 0, len(envelopes))
	for _, env := range envelopes {
		report, err := svc.Handle(context.Background(), env)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", env.ID, err)
		}
		reports = append(reports, report)
	}

	if err := writeJSONL(*requestsOut, envelopes); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote request fixture: %s", *requestsOut)

	if err := writeJSON(*reportsOut, reports); err != nil {
		return fmt.Errorf("writing report fixture: %w", err)
	}
	log.Printf("wrote report fixture: %s", *reportsOut)

	printStats(reports)
	return nil
}

// loadScenarios parses the scenario CSV into request envelopes. Columns are
// looked up by header name; Strategy and LeadTimeYears are only read for
// deflection rows.
func loadScenarios(path string) ([]engine.RequestEnvelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}

	envelopes := make([]engine.RequestEnvelope, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		env, err := parseScenario(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, nil
}

func parseScenario(row []string, idx map[string]int) (engine.RequestEnvelope, error) {
	var (
		p   domain.MeteoroidParameters
		err error
	)
	if p.RadiusM, err = getFloat(row, idx, "RadiusM"); err != nil {
		return engine.RequestEnvelope{}, err
	}
	if p.VelocityMS, err = getFloat(row, idx, "VelocityMS"); err != nil {
		return engine.RequestEnvelope{}, err
	}
	if p.EntryAngleDeg, err = getFloat(row, idx, "EntryAngleDeg"); err != nil {
		return engine.RequestEnvelope{}, err
	}
	if err := p.Material.UnmarshalText([]byte(get(row, idx, "Material"))); err != nil {
		return engine.RequestEnvelope{}, err
	}

	env := engine.RequestEnvelope{
		ID:   get(row, idx, "Name"),
		Kind: engine.RequestKind(get(row, idx, "Kind")),
	}
	switch env.Kind {
	case engine.KindImpact:
		env.Impact = &engine.ImpactRequest{MeteoroidParameters: p}
	case engine.KindDeflection:
		lead, err := getFloat(row, idx, "LeadTimeYears")
		if err != nil {
			return engine.RequestEnvelope{}, err
		}
		env.Deflection = &engine.DeflectionRequest{
			Meteoroid:     p,
			Strategy:      deflection.Strategy(get(row, idx, "Strategy")),
			LeadTimeYears: lead,
		}
	default:
		return engine.RequestEnvelope{}, fmt.Errorf("unknown kind %q", env.Kind)
	}
	return env, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func getFloat(row []string, idx map[string]int, col string) (float64, error) {
	v, err := strconv.ParseFloat(get(row, idx, col), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}

func writeJSONL(path string, envelopes []engine.RequestEnvelope) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var b strings.Builder
	for _, env := range envelopes {
		line, err := json.Marshal(env)
		if err != nil {
			return err
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats logs outcome counts across the generated reports.
func printStats(reports []engine.ReportEnvelope) {
	outcomes := map[string]int{}
	for _, r := range reports {
		switch {
		case r.Error != nil:
			outcomes["error:"+string(r.Error.Kind)]++
		case r.Impact != nil && r.Impact.AtmosphericImpact.CraterDiameterM != nil:
			outcomes["impact:crater"]++
		case r.Impact != nil && r.Impact.AtmosphericImpact.Broke:
			outcomes["impact:airburst"]++
		case r.Impact != nil:
			outcomes["impact:no-crater"]++
		case r.Deflection != nil:
			for _, res := range r.Deflection.Results {
				outcomes["deflection:"+string(res.SafetyLevel)]++
			}
		}
	}

	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		log.Printf("  %-24s %d", k, outcomes[k])
	}
}
