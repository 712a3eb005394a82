// Package report renders simulation results: one CSV series per flow and a
// plain-text summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/flowsim/flowsim/sim"
)

// csvHeader is the column layout of a per-flow metrics file.
var csvHeader = []string{"Second", "Throughput", "Average Latency", "Jitter", "Packet Drop Rate"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteFlowCSV writes one row per second of a flow's series.
func WriteFlowCSV(w io.Writer, series []sim.SecondMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range series {
		record := []string{
			strconv.Itoa(row.Second),
			strconv.Itoa(row.Throughput),
			formatFloat(row.AverageLatency),
			formatFloat(row.Jitter),
			formatFloat(row.DropRate),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FlowCSVPath returns the file name used for a flow's metrics under dir.
func FlowCSVPath(dir string, flow sim.FlowID) string {
	return filepath.Join(dir, fmt.Sprintf("%s_metrics.csv", flow))
}

// WriteFlowCSVFiles writes <dir>/<flow>_metrics.csv for every flow in res
// and returns the paths written, in flow order.
func WriteFlowCSVFiles(dir string, res *sim.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	var paths []string
	for _, id := range res.FlowIDs() {
		path := FlowCSVPath(dir, id)
		if err := writeFile(path, res.Flows[id].Series()); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, series []sim.SecondMetrics) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := WriteFlowCSV(f, series); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
