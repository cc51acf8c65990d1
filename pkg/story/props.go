package story

// Properties is a schema-less bag of type-specific entity fields, such as
// emotion_level on events or pov_character on chapters. Accessors fail soft:
// a missing key or mismatched value type yields the caller's default rather
// than an error.
type Properties map[string]any

// String returns the string value for key, or def when absent or not a string.
func (p Properties) String(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// Int returns the integer value for key, or def when absent or not numeric.
// JSON decoding produces float64 for all numbers, so both forms are accepted.
func (p Properties) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Float returns the float value for key, or def when absent or not numeric.
func (p Properties) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// Bool returns the boolean value for key, or def when absent or not a bool.
func (p Properties) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Clone returns a shallow copy. A nil bag stays nil so "absent" survives a
// resolve round-trip.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
