package ingest

import (
	g "github.com/reoring/esguard"
)

// Pipeline is an ingest pipeline definition as accepted by the put-pipeline
// endpoint.
var Pipeline = g.Kind("pipeline_definition").
	Field("description", g.String()).
	Field("processors", processors).Required().
	Field("on_failure", processors).
	Field("version", g.Integer().NonNegative()).
	Field("_meta", g.AnyObject()).
	Field("deprecated", g.Bool()).
	Field("field_access_pattern", g.Enum("classic", "flexible")).
	MustBuild()

func init() {
	Processor.Define(Processors)
}

// DefaultCaps allows five levels of processor nesting (on_failure and
// foreach both count).
func DefaultCaps() g.CapPolicy {
	caps := g.DefaultCaps()
	caps.MaxDepth = 5
	return caps
}

// Schema returns the pipeline schema.
func Schema() g.Schema {
	return g.Schema{
		ID:    "pipeline",
		Title: "ingest pipeline",
		Root:  g.ObjectOf(Pipeline),
		Caps:  DefaultCaps(),
	}
}
