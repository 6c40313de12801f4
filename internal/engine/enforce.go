package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// Issue codes produced by enforcement; they match the public codes.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// SimpleIssue is a minimal issue representation; Path is a JSON Pointer.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a fatal enforcement finding.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.Message + " at " + e.Path }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal findings (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth and maximum consumed bytes while tokens stream by.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if opt.OnDuplicate == DupIgnore && opt.MaxDepth <= 0 && opt.MaxBytes <= 0 {
		return inner
	}
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type frame struct {
	object  bool
	path    string
	keys    map[string]struct{}
	key     string // pending key of an object frame
	nextIdx int    // next index of an array frame
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		p := e.valuePath()
		e.stack = append(e.stack, frame{object: tok.Kind == KindBeginObject, path: p, keys: map[string]struct{}{}})
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, IssueError{SimpleIssue{Code: CodeParseError, Path: pointer(p), Message: "max nesting depth exceeded"}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 && e.stack[n-1].object {
			top := &e.stack[n-1]
			top.key = tok.String
			if e.opt.OnDuplicate != DupIgnore {
				if _, dup := top.keys[tok.String]; dup {
					si := SimpleIssue{Code: CodeDuplicateKey, Path: pointer(join(top.path, tok.String)), Message: "key '" + tok.String + "' duplicated"}
					if e.opt.OnDuplicate == DupError {
						return Token{}, IssueError{si}
					}
					if e.opt.IssueSink != nil {
						e.opt.IssueSink(si)
					}
				}
				top.keys[tok.String] = struct{}{}
			}
		}
	default:
		e.valuePath()
	}
	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off > e.opt.MaxBytes {
			return Token{}, IssueError{SimpleIssue{Code: CodeTruncated, Path: "/", Message: "max bytes exceeded"}}
		}
	}
	return tok, nil
}

// valuePath returns the path of the value token being consumed and advances
// the array index of the enclosing frame.
func (e *enforcingTokenSource) valuePath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.object {
		return join(top.path, top.key)
	}
	p := top.path + "/" + strconv.Itoa(top.nextIdx)
	top.nextIdx++
	return p
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func join(base, key string) string { return base + "/" + pointerEscaper.Replace(key) }

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
