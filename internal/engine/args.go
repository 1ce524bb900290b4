package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Argument extraction tolerant of JSON-decoded values: the dispatcher hands
// every arg in as float64, string or map.

func argString(args map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := args[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s, true
			}
		case float64:
			if t == float64(int64(t)) {
				return strconv.FormatInt(int64(t), 10), true
			}
			return strconv.FormatFloat(t, 'f', -1, 64), true
		case int:
			return strconv.Itoa(t), true
		case int64:
			return strconv.FormatInt(t, 10), true
		case uint:
			return strconv.FormatUint(uint64(t), 10), true
		}
	}
	return "", false
}

func argFloat(args map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := args[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case int:
			return float64(t), true
		case int64:
			return float64(t), true
		case string:
			s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "$"))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func argInt(args map[string]any, keys ...string) (int, bool) {
	if f, ok := argFloat(args, keys...); ok {
		return int(f), true
	}
	return 0, false
}

func argMap(args map[string]any, key string) (map[string]any, bool) {
	v, ok := args[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return m, true
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
