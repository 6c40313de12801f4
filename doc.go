// Package esguard validates the nested query, aggregation, ingest pipeline,
// watch and index-mapping documents of a search engine before they reach it.
//
// It provides:
//
// - A generic grammar model: NodeKind, FieldSpec, Type, UnionPoint and Registry
// - Exactly-one-of discriminated unions resolved by key or by discriminator value
// - Cap enforcement (fan-out, per-union depth, collection size) during the walk
// - A stable error model via Issues (JSON Pointer path, code, message, params)
// - A canonicalizer that round-trips validated trees back to wire documents
//
// Design policy:
// - Keep only public APIs in the root package; put token handling under internal/.
// - Place concrete grammars under grammar/, the CLI under cmd/esguard.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	doc, err := esguard.DecodeJSON(data, esguard.DecodeOpt{})
//	tree, err := validator.Validate(doc)
//	wire := esguard.Serialize(tree, esguard.SerializeOpt{UseWireAliases: true})
package esguard
