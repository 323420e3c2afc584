// Package analytics implements the ad-hoc CSV analysis behind the
// analytics dashboard: load a file, describe every column, guess which
// columns carry the interesting fields and classify the dataset.
package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Dataset is a parsed CSV: a header and row-major records.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// ColumnStats describes one column.
type ColumnStats struct {
	Name     string
	Count    int // non-empty values
	Distinct int
	Numeric  bool
	Mean     float64 // numeric columns only
	Min      float64
	Max      float64
}

// Kind is the guessed dataset category.
type Kind string

const (
	KindFlights    Kind = "flights"
	KindPassengers Kind = "passengers"
	KindAircraft   Kind = "aircraft"
	KindUnknown    Kind = "unknown"
)

// columnHints maps semantic fields to the header substrings that usually
// carry them, in both the Spanish and English spellings the source data
// uses.
var columnHints = map[string][]string{
	"date":        {"fecha", "date", "flight_date", "departure_date"},
	"airline":     {"aerolinea", "airline", "operator"},
	"origin":      {"origen", "origin", "from"},
	"destination": {"destino", "destination", "to"},
	"flight":      {"vuelo", "flight"},
	"passengers":  {"pasajeros", "passengers", "pax"},
	"delay":       {"retraso", "delay", "delay_minutes"},
}

// Load reads a CSV file with a header row.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV data with a header row.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, record)
	}
	return &Dataset{Columns: header, Rows: rows}, nil
}

// column returns the values of column i, padding ragged rows with "".
func (d *Dataset) column(i int) []string {
	values := make([]string, len(d.Rows))
	for r, row := range d.Rows {
		if i < len(row) {
			values[r] = row[i]
		}
	}
	return values
}

// Describe computes per-column descriptive statistics, one entry per
// column in header order.
func (d *Dataset) Describe() []ColumnStats {
	stats := make([]ColumnStats, 0, len(d.Columns))
	for i, name := range d.Columns {
		stats = append(stats, describeColumn(name, d.column(i)))
	}
	return stats
}

func describeColumn(name string, values []string) ColumnStats {
	cs := ColumnStats{Name: name, Min: math.Inf(1), Max: math.Inf(-1)}

	distinct := make(map[string]struct{})
	var sum float64
	numericCount := 0

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		cs.Count++
		distinct[v] = struct{}{}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			numericCount++
			sum += f
			cs.Min = math.Min(cs.Min, f)
			cs.Max = math.Max(cs.Max, f)
		}
	}
	cs.Distinct = len(distinct)

	// A column is numeric when every non-empty value parses.
	cs.Numeric = cs.Count > 0 && numericCount == cs.Count
	if cs.Numeric {
		cs.Mean = sum / float64(numericCount)
	} else {
		cs.Mean, cs.Min, cs.Max = 0, 0, 0
	}
	return cs
}

// FindColumn returns the header name matching any of the hint substrings,
// case-insensitively, or "" when none matches. First hint wins, matching
// the priority order of the hint list.
func (d *Dataset) FindColumn(hints []string) string {
	for _, hint := range hints {
		for _, col := range d.Columns {
			if strings.Contains(strings.ToLower(col), strings.ToLower(hint)) {
				return col
			}
		}
	}
	return ""
}

// DetectColumns runs every known hint set against the header, returning
// field name to matched column (absent fields are omitted).
func (d *Dataset) DetectColumns() map[string]string {
	found := make(map[string]string)
	for field, hints := range columnHints {
		if col := d.FindColumn(hints); col != "" {
			found[field] = col
		}
	}
	return found
}

// DetectKind classifies the dataset from its header names.
func (d *Dataset) DetectKind() Kind {
	lower := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		lower[i] = strings.ToLower(c)
	}
	has := func(names ...string) bool {
		for _, n := range names {
			for _, c := range lower {
				if c == n {
					return true
				}
			}
		}
		return false
	}

	switch {
	case has("vuelo", "origen", "destino", "flight", "origin", "destination"):
		return KindFlights
	case has("pasajero", "pasajeros", "edad", "passenger", "passengers", "age"):
		return KindPassengers
	case has("avion", "modelo", "aircraft", "model"):
		return KindAircraft
	default:
		return KindUnknown
	}
}

// Summary renders a plain-text report of the dataset: shape, detected
// kind, detected columns and per-column stats. Display-only.
func (d *Dataset) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rows: %d, Columns: %d\n", len(d.Rows), len(d.Columns))
	fmt.Fprintf(&sb, "Detected kind: %s\n", d.DetectKind())

	detected := d.DetectColumns()
	if len(detected) > 0 {
		fields := make([]string, 0, len(detected))
		for f := range detected {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		sb.WriteString("Detected columns:\n")
		for _, f := range fields {
			fmt.Fprintf(&sb, "  %s -> %s\n", f, detected[f])
		}
	}

	sb.WriteString("Column stats:\n")
	for _, cs := range d.Describe() {
		if cs.Numeric {
			fmt.Fprintf(&sb, "  %s: count=%d distinct=%d mean=%.2f min=%.2f max=%.2f\n",
				cs.Name, cs.Count, cs.Distinct, cs.Mean, cs.Min, cs.Max)
		} else {
			fmt.Fprintf(&sb, "  %s: count=%d distinct=%d\n", cs.Name, cs.Count, cs.Distinct)
		}
	}
	return sb.String()
}
