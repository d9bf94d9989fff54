package reports

// Merge deep-merges src into dst and returns dst.
//
// Precedence: where both sides hold a submap the merge recurses; in
// every other case the src value replaces the dst value at that key.
// Keys of dst not named by src are left untouched, so merging a
// metadata path map into a reduced document never disturbs sibling
// records. Merging the same src twice yields the same document.
func Merge(dst, src Document) Document {
	if dst == nil {
		dst = Document{}
	}
	for k, sv := range src {
		sm, sIsMap := sv.(map[string]any)
		dm, dIsMap := dst[k].(map[string]any)
		if sIsMap && dIsMap {
			Merge(dm, sm)
			continue
		}
		dst[k] = sv
	}
	return dst
}
