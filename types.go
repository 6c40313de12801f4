package esguard

// ExtraPolicy controls how keys that are not declared fields are handled.
type ExtraPolicy int

const (
	ExtraForbid     ExtraPolicy = iota // Reject undeclared keys with unknown_field.
	ExtraAllow                         // Keep undeclared keys verbatim.
	ExtraAllowTyped                    // Keep undeclared keys, validating each value against ExtraType.
)

func (p ExtraPolicy) String() string {
	switch p {
	case ExtraAllow:
		return "allow"
	case ExtraAllowTyped:
		return "allow_typed"
	default:
		return "forbid"
	}
}

// ValueKind enumerates the shapes a Type can describe.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindInteger
	KindBool
	KindEnum
	KindObject    // fixed NodeKind, or free-form when the Type has no NodeKind
	KindList      // List<T>
	KindMapping   // Mapping<string,T>
	KindUnion     // nested node union; also the recursion point
	KindAny       // any JSON value
	KindEither    // first alternative that validates cleanly
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBool:
		return "boolean"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	case KindUnion:
		return "union"
	case KindEither:
		return "either"
	default:
		return "any"
	}
}

// Severity expresses the severity level for decode-time findings.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bundles raw-input enforcement applied before schema validation.
type DecodeOpt struct {
	OnDuplicateKey Severity // Warn or Error (duplicate object keys).
	MaxDepth       int      // Raw container nesting; 0 disables.
	MaxBytes       int64    // Consumed input bytes; 0 disables.
	// Warnings receives non-fatal findings (duplicate keys under Warn).
	Warnings func(Issue)
}
