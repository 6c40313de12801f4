// Package logging builds the logrus logger used by the service and CLI.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/internal/config"
)

// Field keys shared by every log line about a document.
const (
	FieldSchema    = "schema"
	FieldRequestID = "request_id"
	FieldIssues    = "issues"
	FieldCodes     = "codes"
)

// New returns a logger writing to out (stderr when nil).
func New(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(out)
	if err := Apply(l, cfg); err != nil {
		return nil, err
	}
	return l, nil
}

// Apply sets level and formatter on an existing logger, so that a config
// reload can change them in place.
func Apply(l *logrus.Logger, cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch cfg.Format {
	case "json", "":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	default:
		return fmt.Errorf("log format %q: want json or text", cfg.Format)
	}
	l.SetLevel(level)
	return nil
}

// Document returns an entry tagged with the schema id and request id.
func Document(l logrus.FieldLogger, schema, requestID string) *logrus.Entry {
	return l.WithFields(logrus.Fields{FieldSchema: schema, FieldRequestID: requestID})
}

// WithIssues adds the issue count and distinct codes to e.
func WithIssues(e *logrus.Entry, iss g.Issues) *logrus.Entry {
	seen := map[string]bool{}
	var codes []string
	for _, c := range iss.Codes() {
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	return e.WithFields(logrus.Fields{FieldIssues: len(iss), FieldCodes: codes})
}
