package dashboard

// applyOrderOverride returns ids with the ones listed in order moved to the
// front. Unknown ids in order are ignored.
func applyOrderOverride(ids []string, order []string) []string {
	if len(order) == 0 {
		return ids
	}
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	result := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		result = append(result, id)
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			result = append(result, id)
		}
	}
	return result
}
