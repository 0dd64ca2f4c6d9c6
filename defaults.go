package argos

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadYAMLDefaults parses a YAML document mapping owner names to default
// values and applies each one as that option's DEFAULT-source fallback,
// strictly below ENVIRONMENT and USER in precedence. An option
// that already has an explicit Default() or Required() is left untouched;
// an unknown key is ignored, since a defaults file is expected to be
// shared across tools that register different subsets of options.
//
// Scalar YAML values (string, int, float64, bool) become a Single option's
// default as-is. A YAML sequence becomes a List/Set option's default,
// de-duplicated in the Set case. Must be called before Freeze.
func LoadYAMLDefaults(p *Parser, data []byte) error {
	if p.frozen {
		panic(fmt.Errorf("argos: LoadYAMLDefaults called after Freeze"))
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("argos: parsing YAML defaults: %w", err)
	}

	byOwner := make(map[string]*OptionSpec, len(p.options))
	for _, o := range p.options {
		byOwner[o.ownerName] = o
	}

	for name, v := range raw {
		opt, ok := byOwner[name]
		if !ok || opt.hasDefault || opt.required {
			continue
		}
		value, err := decodeYAMLDefault(opt, v)
		if err != nil {
			return fmt.Errorf("argos: default for %q: %w", name, err)
		}
		opt.hasDefault = true
		opt.defaultVal = value
	}
	return nil
}

func decodeYAMLDefault(opt *OptionSpec, v interface{}) (interface{}, error) {
	if opt.arity == Count {
		return nil, fmt.Errorf("Count options do not support defaults")
	}
	if seq, ok := v.([]interface{}); ok {
		if opt.arity != List && opt.arity != Set {
			return nil, fmt.Errorf("a list default requires a List or Set option")
		}
		out := make([]interface{}, 0, len(seq))
		seen := make(map[interface{}]bool, len(seq))
		for _, raw := range seq {
			cv, err := convertYAMLScalar(opt, raw)
			if err != nil {
				return nil, err
			}
			if opt.arity == Set {
				if seen[cv] {
					continue
				}
				seen[cv] = true
			}
			out = append(out, cv)
		}
		return out, nil
	}
	return convertYAMLScalar(opt, v)
}

// convertYAMLScalar routes a decoded YAML scalar through the option's own
// Converter when it came in as a string, so a defaults file can use a
// custom Enum/Map converter's literal spelling; otherwise the YAML-native
// type (bool, int, float64) is accepted as-is.
func convertYAMLScalar(opt *OptionSpec, v interface{}) (interface{}, error) {
	s, isString := v.(string)
	if !isString {
		return v, nil
	}
	if opt.converter == nil {
		return s, nil
	}
	cv, err := opt.converter(s)
	if err != nil {
		return nil, err
	}
	return cv, nil
}
