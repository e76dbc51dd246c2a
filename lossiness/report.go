package lossiness

// Summary is the aggregate view over a Report's items.
type Summary struct {
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"by_severity"`
	ByKind     map[Kind]int     `json:"by_kind"`
}

// Report is the terminal, read-only output of a consumed Tracker.
type Report struct {
	Items       []Item   `json:"items"`
	MaxSeverity Severity `json:"max_severity"`
	Summary     Summary  `json:"summary"`
}

func buildReport(items []Item) *Report {
	summary := Summary{
		Total:      len(items),
		BySeverity: make(map[Severity]int),
		ByKind:     make(map[Kind]int),
	}

	maxSeverity := SeverityInfo
	for _, it := range items {
		summary.BySeverity[it.Severity]++
		summary.ByKind[it.Kind]++

		if it.Severity > maxSeverity {
			maxSeverity = it.Severity
		}
	}

	return &Report{
		Items:       items,
		MaxSeverity: maxSeverity,
		Summary:     summary,
	}
}

// HasErrors reports whether any item reached at least Error severity.
func (r *Report) HasErrors() bool { return r.MaxSeverity >= SeverityError }

// HasWarnings reports whether any item reached at least Warning severity.
func (r *Report) HasWarnings() bool { return r.MaxSeverity >= SeverityWarning }

// Top returns the n most severe items, most severe first, stable on ties by
// original recording order. It does not mutate Report.Items.
func (r *Report) Top(n int) []Item {
	ordered := make([]Item, len(r.Items))
	copy(ordered, r.Items)

	// Stable insertion sort: item counts are small (a handful to a few
	// dozen per translation), so this avoids pulling in sort for a
	// rarely-hot path while preserving recording order on ties.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Severity > ordered[j-1].Severity; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	if n < len(ordered) {
		ordered = ordered[:n]
	}

	return ordered
}

// Merge unions the items of several already-consumed Reports into one,
// preserving each item's original severity rather than recomputing it,
// since the reports may have been produced under different strict modes.
// Used when two translation Builders are combined (see translate.Merge).
func Merge(reports ...*Report) *Report {
	var items []Item

	for _, r := range reports {
		if r == nil {
			continue
		}

		items = append(items, r.Items...)
	}

	return buildReport(items)
}

// Gate enforces the strict-mode gate: in Strict mode, any item with
// severity ≥ Error must fail the whole translation. It returns nil when the
// report passes the gate for mode.
func (r *Report) Gate(mode StrictMode) error {
	if mode != StrictModeStrict {
		return nil
	}

	if r.MaxSeverity < SeverityError {
		return nil
	}

	return &GateError{Report: r}
}

// GateError is returned by Gate when a Strict-mode translation must fail; it
// carries the report's top items so the caller can render a useful message
// without re-deriving them.
type GateError struct {
	Report *Report
}

func (e *GateError) Error() string {
	top := e.Report.Top(5)
	if len(top) == 0 {
		return "lossiness: strict mode violated"
	}

	return "lossiness: strict mode violated: " + top[0].Message
}
