// scan-bench drives synthetic cell workloads through the visibility
// matcher and reports decision throughput and the decision distribution.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/CairnDB/cairn/pkg/common/cell"
	"github.com/CairnDB/cairn/pkg/common/log"
	"github.com/CairnDB/cairn/pkg/scan"
	"github.com/CairnDB/cairn/pkg/stats"
)

var (
	numRows     = flag.Int("rows", 10000, "Number of rows to generate")
	colsPerRow  = flag.Int("cols", 10, "Number of columns per row")
	versions    = flag.Int("versions", 3, "Number of versions per column")
	deletePct   = flag.Int("delete-pct", 10, "Percentage of columns carrying a delete marker")
	maxVersions = flag.Int("max-versions", 1, "Per-column version limit of the scan")
	scanType    = flag.String("scan-type", "user", "Scan type to benchmark (user, compact-retain, compact-drop)")
	sampleMod   = flag.Uint64("sample", 0, "If > 0, install a 1-in-N row sampling filter")
	iterations  = flag.Int("iterations", 5, "Number of passes over the generated cells")
	cpuProfile  = flag.String("cpu-profile", "", "Write CPU profile to file")
	resultsFile = flag.String("results", "", "File to write results to (in addition to stdout)")
	seed        = flag.Int64("seed", 1, "Seed for the workload generator")
)

func main() {
	flag.Parse()
	logger := log.GetDefaultLogger().WithField("component", "scan-bench")

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Fatal("Could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal("Could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	now := time.Now().UnixMilli()
	cells := generateWorkload(*seed, now)
	logger.Info("Generated %d cells over %d rows", len(cells), *numRows)

	info := &scan.ScanInfo{
		Family:      []byte("f"),
		MaxVersions: 10,
	}

	st, err := parseScanType(*scanType)
	if err != nil {
		logger.Fatal("%v", err)
	}

	collector := stats.NewCollector()
	var results []string
	results = append(results, fmt.Sprintf("Scan Bench Report (%s)", time.Now().Format(time.RFC3339)))
	results = append(results, fmt.Sprintf("rows=%d cols=%d versions=%d delete-pct=%d scan-type=%s",
		*numRows, *colsPerRow, *versions, *deletePct, *scanType))

	start := time.Now()
	var decisions int
	for i := 0; i < *iterations; i++ {
		n, err := runPass(cells, info, st, now, collector)
		if err != nil {
			logger.Fatal("Benchmark pass failed: %v", err)
		}
		decisions += n
	}
	elapsed := time.Since(start)

	throughput := float64(decisions) / elapsed.Seconds()
	results = append(results, fmt.Sprintf("decisions=%d elapsed=%s throughput=%.0f cells/s",
		decisions, elapsed.Round(time.Millisecond), throughput))

	for _, line := range decisionBreakdown(collector) {
		results = append(results, line)
	}

	report := strings.Join(results, "\n")
	fmt.Println(report)
	if *resultsFile != "" {
		if err := os.WriteFile(*resultsFile, []byte(report+"\n"), 0644); err != nil {
			logger.Error("Failed to write results file: %v", err)
		}
	}
}

// runPass feeds every cell through a freshly built matcher, the way the
// merge iterator would during one scan.
func runPass(cells []*cell.Cell, info *scan.ScanInfo, st scan.ScanType, now int64, collector stats.Collector) (int, error) {
	s := scan.NewScan(nil, nil).SetMaxVersions(*maxVersions)
	if *sampleMod > 0 {
		s.SetFilter(scan.NewRowSampleFilter(*sampleMod))
	}

	matcher, err := scan.NewMatcher(s, info, st, ^uint64(0), 0, 0, now)
	if err != nil {
		return 0, err
	}
	im := scan.NewInstrumentedMatcher(matcher, collector, nil)

	var currentRow []byte
	decisions := 0
	for _, c := range cells {
		if currentRow == nil || string(currentRow) != string(c.Row) {
			currentRow = c.Row
			im.SetToNewRow(c)
		}
		code, err := im.Match(c)
		if err != nil {
			return decisions, err
		}
		decisions++
		if code == scan.MatchDoneScan {
			break
		}
	}
	return decisions, nil
}

// generateWorkload builds cells in key order: rows ascending, columns
// ascending, versions newest first, with delete markers sorted ahead of
// the puts they shadow.
func generateWorkload(seed, now int64) []*cell.Cell {
	rng := rand.New(rand.NewSource(seed))
	var cells []*cell.Cell
	var seq uint64

	for r := 0; r < *numRows; r++ {
		row := []byte(fmt.Sprintf("row-%08d", r))
		for col := 0; col < *colsPerRow; col++ {
			qual := []byte(fmt.Sprintf("col-%04d", col))
			if rng.Intn(100) < *deletePct {
				seq++
				cells = append(cells, &cell.Cell{
					Row:       row,
					Family:    []byte("f"),
					Qualifier: qual,
					Timestamp: now - int64(rng.Intn(1000)),
					Type:      cell.TypeDeleteColumn,
					SeqID:     seq,
				})
			}
			for v := 0; v < *versions; v++ {
				seq++
				cells = append(cells, &cell.Cell{
					Row:       row,
					Family:    []byte("f"),
					Qualifier: qual,
					Timestamp: now - int64(v*1000),
					Type:      cell.TypePut,
					SeqID:     seq,
					Value:     []byte("v"),
				})
			}
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		return cell.Compare(cells[i], cells[j]) < 0
	})
	return cells
}

func decisionBreakdown(collector stats.Collector) []string {
	decisionStats := collector.GetStatsFiltered("decision_")
	keys := make([]string, 0, len(decisionStats))
	for k := range decisionStats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %v", strings.TrimPrefix(k, "decision_"), decisionStats[k]))
	}
	return lines
}

func parseScanType(name string) (scan.ScanType, error) {
	switch name {
	case "user":
		return scan.ScanTypeUser, nil
	case "compact-retain":
		return scan.ScanTypeCompactRetainDeletes, nil
	case "compact-drop":
		return scan.ScanTypeCompactDropDeletes, nil
	default:
		return 0, fmt.Errorf("unknown scan type %q", name)
	}
}
