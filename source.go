package esguard

import (
	"bytes"
	"errors"
	"io"

	eng "github.com/reoring/esguard/internal/engine"
)

// TokenKind enumerates JSON token kinds.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token struct {
	Kind   TokenKind
	String string // key/string tokens
	Number string // number text, kept verbatim
	Bool   bool
	Offset int64
}

// Source abstracts over input formats. JSON and YAML sources are provided;
// callers may plug in their own.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONReader wraps an io.Reader as a JSON Source backed by goccy/go-json.
func JSONReader(r io.Reader) Source { return &engineSource{inner: eng.NewJSONReader(r)} }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return &engineSource{inner: eng.NewJSONBytes(b)} }

// YAMLReader parses the first YAML document of r into a Source. Alias
// expansion is bounded relative to the input size.
func YAMLReader(r io.Reader) (Source, error) { return yamlSource(r, 0) }

func yamlSource(r io.Reader, maxBytes int64) (Source, error) {
	inner, err := eng.NewYAMLReaderLimit(r, maxBytes)
	if err != nil {
		return nil, toIssues(err)
	}
	return &engineSource{inner: inner}, nil
}

// YAMLBytes parses the first YAML document of b into a Source.
func YAMLBytes(b []byte) (Source, error) { return YAMLReader(bytes.NewReader(b)) }

// Decode consumes src into a JSON-like value (map[string]any, []any,
// json.Number, string, bool, nil) while enforcing opt. Failures are Issues.
func Decode(src Source, opt DecodeOpt) (any, error) {
	var sink func(eng.SimpleIssue)
	if opt.Warnings != nil {
		sink = func(si eng.SimpleIssue) {
			opt.Warnings(Issue{Path: ParsePointer(si.Path), Code: si.Code, Message: si.Message})
		}
	}
	enforced := eng.WrapWithEnforcement(toEngine(src), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
	})
	v, err := eng.DecodeAnyFromSource(enforced)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

// DecodeJSON decodes a JSON document. MaxBytes is checked up front.
func DecodeJSON(b []byte, opt DecodeOpt) (any, error) {
	if opt.MaxBytes > 0 && int64(len(b)) > opt.MaxBytes {
		return nil, singleIssue(CodeTruncated, "max bytes exceeded")
	}
	return Decode(JSONBytes(b), opt)
}

// DecodeJSONReader reads at most MaxBytes+1 bytes from r and decodes them.
func DecodeJSONReader(r io.Reader, opt DecodeOpt) (any, error) {
	if opt.MaxBytes <= 0 {
		return Decode(JSONReader(r), opt)
	}
	data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
	if err != nil {
		return nil, singleIssue(CodeParseError, err.Error())
	}
	return DecodeJSON(data, opt)
}

// DecodeYAML decodes the first document of a YAML stream. MaxBytes bounds both
// the raw input and the document after alias expansion.
func DecodeYAML(b []byte, opt DecodeOpt) (any, error) {
	if opt.MaxBytes > 0 && int64(len(b)) > opt.MaxBytes {
		return nil, singleIssue(CodeTruncated, "max bytes exceeded")
	}
	src, err := yamlSource(bytes.NewReader(b), opt.MaxBytes)
	if err != nil {
		return nil, err
	}
	return Decode(src, opt)
}

func toIssues(err error) Issues {
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Path: ParsePointer(ie.Path), Code: ie.Code, Message: ie.Message})
	}
	return singleIssue(CodeParseError, err.Error())
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

// ---- Source <-> engine.TokenSource adapters ----

type engineSource struct{ inner eng.TokenSource }

func (s *engineSource) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}

func (s *engineSource) Location() int64 { return s.inner.Location() }

type tokenSourceAdapter struct{ inner Source }

func (a *tokenSourceAdapter) NextToken() (eng.Token, error) {
	t, err := a.inner.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: eng.Kind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}

func (a *tokenSourceAdapter) Location() int64 { return a.inner.Location() }

func toEngine(s Source) eng.TokenSource {
	if es, ok := s.(*engineSource); ok {
		return es.inner
	}
	return &tokenSourceAdapter{inner: s}
}
