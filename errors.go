package esguard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Issue codes.
const (
	CodeMissingDiscriminator = "missing_discriminator"
	CodeConflictingKinds     = "conflicting_kinds"
	CodeMissingRequiredField = "missing_required_field"
	CodeUnknownField         = "unknown_field"
	CodeTypeMismatch         = "type_mismatch"
	CodeOutOfBounds          = "out_of_bounds"
	CodeFanOutExceeded       = "fan_out_exceeded"
	CodeDepthExceeded        = "depth_exceeded"
	CodeMutuallyExclusive    = "mutually_exclusive_fields"
	CodeMissingOneOf         = "missing_one_of"

	CodeInvalidEnum          = "invalid_enum"
	CodeInvalidFormat        = "invalid_format"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	// Raised by the decoding layer, before any grammar is consulted.
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

var (
	// ErrKindNotFound is returned by Registry.Lookup for names outside the family.
	ErrKindNotFound = errors.New("esguard: kind not found")
	// ErrUndefinedUnion reports a union point referenced before Define was called.
	ErrUndefinedUnion = errors.New("esguard: union point not defined")
	// ErrInvalidCaps reports a CapPolicy with non-positive limits.
	ErrInvalidCaps = errors.New("esguard: invalid cap policy")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    Path // Location inside the input document.
	Code    string
	Message string
	// Params carries structured parameters (e.g. {"max":1000, "value":1001})
	// for i18n and observability.
	Params map[string]any
}

// MarshalJSON renders the path both as segments and as a JSON Pointer.
func (it Issue) MarshalJSON() ([]byte, error) {
	segs := it.Path
	if segs == nil {
		segs = Path{}
	}
	return json.Marshal(struct {
		Path    Path           `json:"path"`
		Pointer string         `json:"pointer"`
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Params  map[string]any `json:"params,omitempty"`
	}{segs, it.Path.Pointer(), it.Code, it.Message, it.Params})
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. unknown_field at /query/match/bogus
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Codes lists the issue codes in order of appearance.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

// Has reports whether any issue carries code.
func (iss Issues) Has(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// At returns the issues located exactly at the given JSON Pointer.
func (iss Issues) At(pointer string) Issues {
	var out Issues
	for _, it := range iss {
		if it.Path.Pointer() == pointer {
			out = append(out, it)
		}
	}
	return out
}

// Sorted returns a copy ordered by pointer, then code.
func (iss Issues) Sorted() Issues {
	out := append(Issues(nil), iss...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Path.Pointer(), out[j].Path.Pointer()
		if pi != pj {
			return pi < pj
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
