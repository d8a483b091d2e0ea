package model

// DataContext is the flat, node-namespaced data carried through one flow
// execution. A DataContext handed to a publisher is never written again;
// merges always produce a new map.
type DataContext map[string]any

// ActionResult is what one node's actions produced before it is flattened
// into the DataContext.
type ActionResult map[string]any

func (d DataContext) Clone() DataContext {
	out := make(DataContext, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns the value at key when it is a string.
func (d DataContext) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MergeContext returns the shallow union of base and update. Keys present in
// both take the value from update.
func MergeContext(base, update DataContext) DataContext {
	out := make(DataContext, len(base)+len(update))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range update {
		out[k] = v
	}
	return out
}
