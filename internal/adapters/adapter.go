package adapters

import (
	stderrors "errors"
	"fmt"
	"sort"

	"revq/internal/errors"
	"revq/internal/issues"
)

// errRecordMissingPath marks a native record without a file path.
var errRecordMissingPath = stderrors.New("record has no file path")

// Adapter translates one analyzer family's native diagnostic output into
// canonical issues. Adapters are pure: they read only their input and
// their own static mapping table, so any number of them may run
// concurrently without coordination.
type Adapter interface {
	// ID returns the analyzer identifier this adapter handles
	ID() string

	// Normalize converts the analyzer's raw output for one run into
	// canonical issues. A payload that cannot be parsed at all yields a
	// single synthetic other/info issue describing the failure alongside
	// a MALFORMED_RECORD error, so callers can tell an unusable payload
	// apart from a run with findings. A bad record inside an otherwise
	// parseable payload is recovered locally (synthetic issue, no error)
	// and never suppresses the rest of the findings.
	Normalize(raw []byte) ([]issues.Issue, error)
}

// payloadError marks a whole payload as unusable. The synthetic issue
// still carries the failure into the report; the error lets the engine
// record degraded coverage without guessing from issue contents.
func payloadError(analyzerID string, cause error) error {
	return errors.New(errors.MalformedRecord, analyzerID+" payload could not be parsed", cause)
}

// mapping is one row of an adapter's static code table.
type mapping struct {
	category   issues.Category
	severity   issues.Severity
	suggestion string
}

// fallback is the deterministic bucket for unrecognized native codes.
// Diagnostics must not vanish, so unknown codes classify rather than drop.
var fallback = mapping{category: issues.CategoryOther, severity: issues.SeverityMinor}

// parseFailure builds the synthetic issue emitted when an analyzer's
// payload cannot be parsed even partially. The analyzer id stands in for
// the file path so the finding stays addressable in reports.
func parseFailure(analyzerID string, err error) issues.Issue {
	return issues.Issue{
		File:     analyzerID,
		Line:     0,
		Code:     "parse-error",
		Category: issues.CategoryOther,
		Severity: issues.SeverityInfo,
		Message:  fmt.Sprintf("%s output could not be parsed: %v", analyzerID, err),
		Sources:  []string{analyzerID},
	}
}

// Registry holds the known adapters keyed by analyzer identifier.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry returns a registry with every built-in adapter registered.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(NewPylintAdapter())
	r.Register(NewFlake8Adapter())
	r.Register(NewBanditAdapter())
	r.Register(NewRadonAdapter())
	return r
}

// Register adds an adapter, replacing any previous one for the same id.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.ID()] = a
}

// Lookup returns the adapter for an analyzer id.
func (r *Registry) Lookup(analyzerID string) (Adapter, bool) {
	a, ok := r.adapters[analyzerID]
	return a, ok
}

// Known returns the registered analyzer ids in sorted order.
func (r *Registry) Known() []string {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// safeLine clamps negative native line numbers to the file-level marker.
func safeLine(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
