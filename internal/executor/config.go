package executor

import "time"

// Config map accessors shared by the built-in action factories. Build
// files decode into map[string]any, so YAML's loose typing is absorbed
// here once instead of in every action.

func configString(config map[string]any, key, defaultVal string) string {
	if val, ok := config[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return defaultVal
}

func configBool(config map[string]any, key string, defaultVal bool) bool {
	if val, ok := config[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return defaultVal
}

func configDuration(config map[string]any, key string, defaultVal time.Duration) time.Duration {
	if val, ok := config[key]; ok {
		switch v := val.(type) {
		case time.Duration:
			return v
		case string:
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		case int:
			return time.Duration(v) * time.Millisecond
		case int64:
			return time.Duration(v) * time.Millisecond
		case float64:
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultVal
}

func configStringMap(config map[string]any, key string) map[string]string {
	out := make(map[string]string)
	if m, ok := config[key].(map[string]any); ok {
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}
