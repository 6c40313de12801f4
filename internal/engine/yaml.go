package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrYAMLKey reports a mapping key that is not a scalar.
var ErrYAMLKey = errors.New("yaml: mapping keys must be scalars")

// Without an explicit limit, alias expansion may grow a document to
// yamlExpansionRatio times its input size, and never below yamlMinExpansion.
const (
	yamlExpansionRatio = 10
	yamlMinExpansion   = 1 << 20
)

// yamlSource replays the first document of a YAML stream as JSON-like tokens
// so YAML input goes through the same enforcement and decoding as JSON.
// Duplicate keys are left to the enforcement layer, which reports them with a
// JSON Pointer; Offset carries the line of the token.
//
// Aliases are expanded in place. The expanded size (scalar text plus one byte
// per token) is bounded so that a small document cannot blow up in memory.
type yamlSource struct {
	toks  []Token
	pos   int
	size  int64
	limit int64
}

// NewYAMLReader parses the first YAML document of r into a TokenSource.
func NewYAMLReader(r io.Reader) (TokenSource, error) { return NewYAMLReaderLimit(r, 0) }

// NewYAMLReaderLimit is NewYAMLReader with the expanded document capped at
// maxBytes. A non-positive maxBytes applies the default expansion ratio.
func NewYAMLReaderLimit(r io.Reader, maxBytes int64) (TokenSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	limit := maxBytes
	if limit <= 0 {
		limit = max(int64(len(data))*yamlExpansionRatio, yamlMinExpansion)
	}
	s := &yamlSource{limit: limit}
	if err := s.emit(&root); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *yamlSource) NextToken() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

// Location is unknown: the document is parsed before the first token.
func (s *yamlSource) Location() int64 { return -1 }

func (s *yamlSource) push(k Kind, n *yaml.Node) *Token {
	s.size += int64(len(n.Value)) + 1
	s.toks = append(s.toks, Token{Kind: k, Offset: int64(n.Line)})
	return &s.toks[len(s.toks)-1]
}

func (s *yamlSource) emit(n *yaml.Node) error {
	if s.size > s.limit {
		return IssueError{SimpleIssue{Code: CodeTruncated, Path: "/", Message: "yaml alias expansion exceeds max bytes"}}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			s.push(KindNull, n)
			return nil
		}
		return s.emit(n.Content[0])
	case yaml.AliasNode:
		return s.emit(n.Alias)
	case yaml.MappingNode:
		s.push(KindBeginObject, n)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w (line %d)", ErrYAMLKey, k.Line)
			}
			s.push(KindKey, k).String = k.Value
			if err := s.emit(n.Content[i+1]); err != nil {
				return err
			}
		}
		s.push(KindEndObject, n)
	case yaml.SequenceNode:
		s.push(KindBeginArray, n)
		for _, c := range n.Content {
			if err := s.emit(c); err != nil {
				return err
			}
		}
		s.push(KindEndArray, n)
	case yaml.ScalarNode:
		s.scalar(n)
	}
	return nil
}

func (s *yamlSource) scalar(n *yaml.Node) {
	switch n.ShortTag() {
	case "!!null":
		s.push(KindNull, n)
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			s.push(KindString, n).String = n.Value
			return
		}
		s.push(KindBool, n).Bool = b
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			s.push(KindNumber, n).Number = strconv.FormatInt(i, 10)
			return
		}
		s.push(KindString, n).String = n.Value
	case "!!float":
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			s.push(KindNumber, n).Number = strconv.FormatFloat(f, 'g', -1, 64)
			return
		}
		s.push(KindString, n).String = n.Value
	default:
		s.push(KindString, n).String = n.Value
	}
}
