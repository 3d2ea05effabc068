package fronius

import (
	"sort"
	"strconv"
)

// payload is a decoded JSON object with typed optional lookups.
type payload map[string]any

func asPayload(v any) (payload, bool) {
	m, ok := v.(map[string]any)
	return payload(m), ok
}

func (p payload) object(key string) (payload, bool) {
	return asPayload(p[key])
}

func (p payload) list(key string) ([]any, bool) {
	l, ok := p[key].([]any)
	return l, ok
}

func (p payload) str(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

func (p payload) number(key string) (float64, bool) {
	f, ok := p[key].(float64)
	return f, ok
}

// keys returns the object keys in device order: numeric keys ascending, others after them
// in lexical order.
func (p payload) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}
