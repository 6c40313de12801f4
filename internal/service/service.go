// Package service validates, canonicalizes and forwards documents for the
// built-in schemas over HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/grammar"
	"github.com/reoring/esguard/internal/config"
	"github.com/reoring/esguard/internal/logging"
	"github.com/reoring/esguard/internal/metrics"
)

// Format is the encoding of an incoming document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks a format from a content type or file name.
func FormatFor(hint string) Format {
	h := strings.ToLower(hint)
	if strings.Contains(h, "yaml") || strings.HasSuffix(h, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses body in format f under opt.
func Decode(body []byte, f Format, opt g.DecodeOpt) (any, error) {
	if f == FormatYAML {
		return g.DecodeYAML(body, opt)
	}
	return g.DecodeJSON(body, opt)
}

// Result is the outcome of a successful validation.
type Result struct {
	RequestID string
	Schema    string
	Tree      *g.Node
	// Warnings holds decode findings that did not reject the document.
	Warnings g.Issues
}

// state is swapped as a whole on reload.
type state struct {
	catalog *grammar.Catalog
	decode  g.DecodeOpt
}

// Service is safe for concurrent use.
type Service struct {
	state     atomic.Pointer[state]
	base      *grammar.Catalog
	log       *logrus.Logger
	metrics   *metrics.Metrics
	forwarder Forwarder
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger; the default discards output.
func WithLogger(l *logrus.Logger) Option { return func(s *Service) { s.log = l } }

// WithMetrics enables metric collection.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithForwarder enables the gateway.
func WithForwarder(f Forwarder) Option { return func(s *Service) { s.forwarder = f } }

// New builds a service over base with the caps and decode settings of cfg.
func New(base *grammar.Catalog, cfg *config.Config, opts ...Option) (*Service, error) {
	s := &Service{base: base}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}
	if err := s.Reload(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the catalog from cfg and swaps it in. Requests in flight
// finish against the catalog they started with. On error nothing changes.
func (s *Service) Reload(cfg *config.Config) error {
	cat, err := ApplyCaps(s.base, cfg.Caps)
	if err != nil {
		return err
	}
	s.state.Store(&state{catalog: cat, decode: cfg.Decode.Options()})
	return nil
}

// ApplyCaps returns base with every per-schema override merged in.
func ApplyCaps(base *grammar.Catalog, caps map[string]g.CapPolicy) (*grammar.Catalog, error) {
	ids := make([]string, 0, len(caps))
	for id := range caps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	cat := base
	for _, id := range ids {
		next, err := cat.WithCaps(id, caps[id])
		if err != nil {
			return nil, fmt.Errorf("caps.%s: %w", id, err)
		}
		cat = next
	}
	return cat, nil
}

// Catalog returns the catalog currently in effect.
func (s *Service) Catalog() *grammar.Catalog { return s.state.Load().catalog }

// ReadBody reads r up to one byte past the decode size limit, leaving the
// limit itself to the decoder.
func (s *Service) ReadBody(r io.Reader) ([]byte, error) {
	if limit := s.state.Load().decode.MaxBytes; limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	return io.ReadAll(r)
}

// Validate decodes body and validates it against schema. Rejections are
// returned as g.Issues together with a Result carrying the request id.
func (s *Service) Validate(ctx context.Context, schema string, body []byte, f Format) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st := s.state.Load()
	res := &Result{RequestID: RequestIDFrom(ctx), Schema: schema}
	if res.RequestID == "" {
		res.RequestID = uuid.NewString()
	}
	entry := logging.Document(s.log, schema, res.RequestID)

	v, err := st.catalog.Lookup(schema)
	if err != nil {
		entry.WithError(err).Warn("unknown schema")
		return res, err
	}

	start := time.Now()
	opt := st.decode
	opt.Warnings = func(it g.Issue) { res.Warnings = append(res.Warnings, it) }
	doc, err := Decode(body, f, opt)
	if err == nil {
		res.Tree, err = v.Validate(doc)
	}
	elapsed := time.Since(start)

	iss, invalid := g.AsIssues(err)
	switch {
	case invalid:
		s.metrics.ObserveValidation(schema, metrics.OutcomeInvalid, elapsed, iss)
		logging.WithIssues(entry, iss).Info("document rejected")
		return res, iss
	case err != nil:
		s.metrics.ObserveValidation(schema, metrics.OutcomeError, elapsed, nil)
		entry.WithError(err).Error("validation failed")
		return res, err
	}
	s.metrics.ObserveValidation(schema, metrics.OutcomeValid, elapsed, nil)
	if len(res.Warnings) > 0 {
		logging.WithIssues(entry, res.Warnings).Warn("document accepted with warnings")
	} else {
		entry.Debug("document accepted")
	}
	return res, nil
}

// Canonicalize validates body and re-encodes the tree.
func (s *Service) Canonicalize(ctx context.Context, schema string, body []byte, f Format, opt g.SerializeOpt) ([]byte, *Result, error) {
	res, err := s.Validate(ctx, schema, body, f)
	if err != nil {
		return nil, res, err
	}
	out, err := g.Marshal(res.Tree, opt)
	if err != nil {
		return nil, res, fmt.Errorf("encode canonical document: %w", err)
	}
	return out, res, nil
}

// Forward sends the wire form of a validated tree to the backend and returns
// the backend's response body. Backend failures are ErrBackend; a bad target
// is ErrInvalidTarget and never reaches the forwarder.
func (s *Service) Forward(ctx context.Context, res *Result, target string) ([]byte, error) {
	if s.forwarder == nil {
		return nil, ErrGatewayDisabled
	}
	if _, err := CleanTarget(target); err != nil {
		return nil, err
	}
	doc, err := g.Marshal(res.Tree, g.SerializeOpt{UseWireAliases: true})
	if err != nil {
		return nil, fmt.Errorf("encode canonical document: %w", err)
	}
	entry := logging.Document(s.log, res.Schema, res.RequestID).WithField("target", target)
	out, err := s.forwarder.Forward(ctx, target, doc)
	if err != nil {
		if !errors.Is(err, ErrBackend) && !errors.Is(err, ErrInvalidTarget) {
			err = fmt.Errorf("%w: %v", ErrBackend, err)
		}
		s.metrics.ObserveForward(res.Schema, metrics.OutcomeError)
		entry.WithError(err).Warn("forward failed")
		return nil, err
	}
	s.metrics.ObserveForward(res.Schema, metrics.OutcomeValid)
	entry.Debug("forwarded")
	return out, nil
}
