package api

import (
	"net/url"
	"sort"
)

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
