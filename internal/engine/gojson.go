package engine

import (
	"bytes"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// gojsonSource is a TokenSource over a goccy/go-json Decoder. The decoder
// reports keys and string values alike, so the source tracks whether the
// enclosing object expects a key next.
type gojsonSource struct {
	dec   *json.Decoder
	stack []gojsonFrame
}

type gojsonFrame struct {
	object       bool
	expectingKey bool
}

// NewJSONReader wraps an io.Reader into a TokenSource.
func NewJSONReader(r io.Reader) TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &gojsonSource{dec: dec}
}

// NewJSONBytes wraps a byte slice into a TokenSource.
func NewJSONBytes(b []byte) TokenSource { return NewJSONReader(bytes.NewReader(b)) }

func (s *gojsonSource) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return Token{}, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, gojsonFrame{object: true, expectingKey: true})
			return Token{Kind: KindBeginObject, Offset: -1}, nil
		case '[':
			s.stack = append(s.stack, gojsonFrame{})
			return Token{Kind: KindBeginArray, Offset: -1}, nil
		case '}':
			s.pop()
			return Token{Kind: KindEndObject, Offset: -1}, nil
		default:
			s.pop()
			return Token{Kind: KindEndArray, Offset: -1}, nil
		}
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1].object && s.stack[n-1].expectingKey {
			s.stack[n-1].expectingKey = false
			return Token{Kind: KindKey, String: v, Offset: -1}, nil
		}
		s.valueDone()
		return Token{Kind: KindString, String: v, Offset: -1}, nil
	case bool:
		s.valueDone()
		return Token{Kind: KindBool, Bool: v, Offset: -1}, nil
	case json.Number:
		s.valueDone()
		return Token{Kind: KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.valueDone()
		return Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.valueDone()
	return Token{Kind: KindNull, Offset: -1}, nil
}

func (s *gojsonSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

// valueDone marks a completed value: the enclosing object expects a key again.
func (s *gojsonSource) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1].object {
		s.stack[n-1].expectingKey = true
	}
}

func (s *gojsonSource) Location() int64 { return -1 }
