package cache

import (
	"net/url"
	"sort"
)

// defaultKeySuffix names the cache entry for a request with no query
// parameters at all.
const defaultKeySuffix = "default"

// Key composes a namespaced cache key from a listing prefix and the
// request's query parameters. The encoding is order-stable: two
// requests carrying the same parameter set produce the same key no
// matter how the transport ordered them. No parameters maps to the
// sentinel default key, never to an empty string.
func Key(prefix string, params url.Values) string {
	if len(params) == 0 {
		return prefix + ":" + defaultKeySuffix
	}

	// url.Values.Encode sorts by key; repeated values still need
	// sorting ourselves for a canonical form.
	canonical := make(url.Values, len(params))
	for k, vs := range params {
		sorted := make([]string, len(vs))
		copy(sorted, vs)
		sort.Strings(sorted)
		canonical[k] = sorted
	}

	return prefix + ":" + canonical.Encode()
}
