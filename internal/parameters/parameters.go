// Package parameters handles generic configuration Params, a map[string]string that the
// user can set with strings like "greedy:harvesters=3,wall" or "food=10,tunnels=2".
package parameters

import (
	"github.com/janpfeifer/antsGo/internal/generics"
	"github.com/pkg/errors"
	"slices"
	"strconv"
	"strings"
)

// Params represent generic configuration parameters.
type Params map[string]string

// Value types supported by GetParamOr and PopParamOr.
type Value interface {
	bool | int | float64 | string
}

// NewFromConfigString create params from user's configuration string, a comma-separated
// list of "key=value" or "key" (for booleans) entries. Spaces around keys are ignored.
// See GetParamOr and PopParamOr to parse values from this map.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		key, value, _ := strings.Cut(part, "=") // Only the first '=' splits, values may have others.
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		params[key] = strings.TrimSpace(value)
	}
	return params
}

// SplitModule splits a config like "greedy:harvesters=3,wall" into its module name
// ("greedy") and its params. If there is no ":" the whole config is the module name.
func SplitModule(config string) (module string, params Params) {
	module, rest, _ := strings.Cut(config, ":")
	return strings.TrimSpace(module), NewFromConfigString(rest)
}

// Keys returns the sorted keys of params.
func (params Params) Keys() []string {
	return slices.Collect(generics.SortedKeys(params))
}

// Unused returns an error listing the params left, or nil if there are none.
// Use it after popping all the known params with PopParamOr.
func (params Params) Unused() error {
	if len(params) == 0 {
		return nil
	}
	return errors.Errorf("unknown parameter(s) %q", params.Keys())
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	toT := func(v any) T { return v.(T) }
	switch any(defaultValue).(type) {
	case string:
		return toT(value), nil
	case int:
		if value == "" {
			break
		}
		parsedValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to int", key, value)
		}
		return toT(parsedValue), nil
	case float64:
		if value == "" {
			break
		}
		parsedValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to float", key, value)
		}
		return toT(parsedValue), nil
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1": // Empty value is considered "true"
			return toT(true), nil
		case "false", "0":
			return toT(false), nil
		}
		return defaultValue, errors.Errorf("failed to parse configuration %s=%q to bool", key, value)
	}
	return defaultValue, nil
}
