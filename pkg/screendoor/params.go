package screendoor

import (
	"fmt"
	"sort"
	"strconv"
)

// Param is a single query parameter.
type Param struct {
	Name  string
	Value interface{}
}

// Params is an ordered list of query parameters. Order is preserved when the
// URL is rendered.
type Params []Param

// Add appends a parameter and returns the extended list.
func (p Params) Add(name string, value interface{}) Params {
	return append(p, Param{Name: name, Value: value})
}

// Get returns the value of the first parameter with the given name.
func (p Params) Get(name string) (interface{}, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}

	return nil, false
}

// Without returns a copy of p with every parameter named name removed.
func (p Params) Without(name string) Params {
	out := make(Params, 0, len(p))

	for _, param := range p {
		if param.Name != name {
			out = append(out, param)
		}
	}

	return out
}

// FormatValue stringifies a scalar value the way it is sent on the wire.
func FormatValue(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint:
		return strconv.FormatUint(uint64(typed), 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
