package logfields

import "go.uber.org/zap"

// Secret returns a field that only shows if val is set, never its value.
func Secret(key, val string) zap.Field {
	return zap.String(key, hide(val))
}

func hide(in string) string {
	if in == "" {
		return in
	}

	return "**hidden**"
}
