package probe

// Lookup walks decoded JSON along keys. It returns def as soon as a key is
// absent or an intermediate value is not an object.
func Lookup(doc any, def any, keys ...string) any {
	cur := doc
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		v, ok := m[k]
		if !ok {
			return def
		}
		cur = v
	}
	return cur
}

func LookupBool(doc any, def bool, keys ...string) bool {
	b, ok := Lookup(doc, def, keys...).(bool)
	if !ok {
		return def
	}
	return b
}
