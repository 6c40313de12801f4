package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report yaml names so messages match the file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and the per-schema cap overrides.
func Validate(cfg *Config) error {
	var msgs []string
	if err := structValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q (value: %v)", fieldPath(e.Namespace()), e.Tag(), e.Value()))
		}
	}
	ids := make([]string, 0, len(cfg.Caps))
	for id := range cfg.Caps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := cfg.Caps[id]
		if c.MaxFanout < 0 || c.MaxDepth < 0 || c.MaxCollectionSize < 0 {
			msgs = append(msgs, fmt.Sprintf("caps.%s: limits must not be negative", id))
		}
		for union, d := range c.Depth {
			if d <= 0 {
				msgs = append(msgs, fmt.Sprintf("caps.%s.depth.%s: must be positive", id, union))
			}
		}
	}
	if len(msgs) > 0 {
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}

// fieldPath drops the root struct name: "Config.server.listen_address"
// becomes "server.listen_address".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
