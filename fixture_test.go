package esguard_test

import (
	"errors"

	g "github.com/reoring/esguard"
)

// A small drawing grammar: shapes keyed by kind with an optional label
// beside the kind key, and pets resolved by their "type" value.
var (
	shape = g.NewUnion("shape")
	pet   = g.NewUnion("pet")
)

var (
	circle = g.Kind("circle").
		Field("radius", g.Number().Positive()).Required().
		Field("fill", g.Enum("none", "solid")).Default("none").
		MustBuild()
	rect = g.Kind("rect").
		Field("width", g.Number().NonNegative()).Required().
		Field("height", g.Number().NonNegative()).Required().
		Field("corner_radius", g.Number()).Wire("rx").
		MustBuild()
	group = g.Kind("group").
		Field("items", g.ListOf(g.Ref(shape)).CapItems()).
		Field("layers", g.FanOut(g.Ref(shape))).
		AtMostOne("items", "layers").
		MustBuild()
	text = g.Kind("text").
		Body(g.String()).
		MustBuild()
	attr = g.Kind("attr").
		Keyed(g.Either(g.String(), g.Number())).
		MustBuild()
	shapeCompanions = g.Kind("shape_companions").
		Field("label", g.String()).
		MustBuild()

	cat = g.Kind("cat").
		Field("indoor", g.Bool()).
		MustBuild()
	dog = g.Kind("dog").
		Field("breed", g.String()).Required().
		MustBuild()
	otherPet = g.Kind("other").
		Allow().
		MustBuild()

	drawing = g.Kind("drawing").
		Field("title", g.String()).Required().
		Field("root", g.Ref(shape)).
		Field("pets", g.ListOf(g.Ref(pet))).
		Field("tags", g.ListOf(g.String()).MaxItems(3)).
		Field("meta", g.AnyObject()).
		Field("color", g.String().Format("hex")).
		Field("count", g.Integer().Min(0).CapMax()).
		Field("ratio", g.Number().Positive().Max(1)).
		MustBuild()
)

var shapes = g.MustRegistry("shape", circle, rect, group, text, attr)

func init() {
	shape.Define(shapes, g.WithCompanions(shapeCompanions))
	pet.Define(g.MustRegistry("pet", cat, dog, otherPet), g.ByDiscriminator("type"), g.DefaultKind("cat"), g.FallbackKind("other"))
}

func hexColor(s string) error {
	if len(s) != 7 || s[0] != '#' {
		return errBadColor
	}
	return nil
}

var errBadColor = errors.New("not a #rrggbb color")

func drawingSchema() g.Schema {
	return g.Schema{
		ID:      "drawing",
		Title:   "drawing",
		Root:    g.ObjectOf(drawing),
		Caps:    g.DefaultCaps(),
		Options: []g.ValidatorOption{g.WithFormat("hex", hexColor)},
	}
}
