// Package query composes filtered, ordered, paginated views over entity
// collections from untrusted request parameters. Every listing endpoint
// declares which fields it exposes; anything outside that declaration
// degrades gracefully instead of erroring.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Pagination bounds. Callers may override the page size per request up
// to the hard cap.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Record exposes named field values for searching, filtering and
// ordering. Implementations return ok=false for fields they do not have.
type Record interface {
	QueryField(name string) (value string, ok bool)
}

// Fields declares, per endpoint, which record fields may be searched,
// filtered on, and ordered by. Values are fixed at the call site and
// never derived from the request.
type Fields struct {
	Searchable []string
	Filterable []string
	Orderable  []string
}

// Params holds the parsed, still-untrusted query parameters of one
// listing request.
type Params struct {
	Search   string
	Filters  map[string]string
	Ordering string
	Page     int
	PageSize int
}

// ParseParams extracts the composer's parameters from raw URL values.
// Only declared filterable fields are read; unknown parameters are
// ignored. Malformed page numbers fall back to defaults.
func ParseParams(values url.Values, fields Fields) Params {
	p := Params{
		Search:   values.Get("search"),
		Ordering: values.Get("ordering"),
		Filters:  make(map[string]string),
	}

	for _, field := range fields.Filterable {
		if v := values.Get(field); v != "" {
			p.Filters[field] = v
		}
	}

	p.Page = parseIntDefault(values.Get("page"), 1)
	p.PageSize = parseIntDefault(values.Get("page_size"), DefaultPageSize)
	return p
}

// Apply runs search, filter and ordering over the collection, in that
// order, honoring only the declared fields. It never mutates its input
// and never fails: anything malformed leaves the collection untouched.
func Apply[T Record](items []T, p Params, fields Fields) []T {
	out := items
	out = applySearch(out, p.Search, fields.Searchable)
	out = applyFilters(out, p.Filters, fields.Filterable)
	out = applyOrdering(out, p.Ordering, fields.Orderable)
	return out
}

// Page is one page of results plus the indicators the pagination
// envelope needs.
type Page[T any] struct {
	Count       int
	Number      int
	Size        int
	HasNext     bool
	HasPrevious bool
	Results     []T
}

// Paginate slices the collection into a 1-indexed fixed-size page.
// A non-positive size falls back to the default; sizes above the cap
// are clamped; a non-positive page number becomes page 1. Pages past
// the end are empty rather than an error.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	count := len(items)
	start := (page - 1) * size
	end := start + size
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}

	return Page[T]{
		Count:       count,
		Number:      page,
		Size:        size,
		HasNext:     end < count,
		HasPrevious: page > 1,
		Results:     items[start:end],
	}
}

// applySearch keeps records where the term is a case-insensitive
// substring of any searchable field. No term or no declared fields is
// a no-op.
func applySearch[T Record](items []T, term string, searchable []string) []T {
	if term == "" || len(searchable) == 0 {
		return items
	}

	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range searchable {
			value, ok := item.QueryField(field)
			if ok && strings.Contains(strings.ToLower(value), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// applyFilters restricts to exact equality on each supplied filter.
// The literals "true"/"false" are coerced to canonical boolean form
// before comparison, so ?is_completed=True matches a true flag.
func applyFilters[T Record](items []T, filters map[string]string, filterable []string) []T {
	if len(filters) == 0 {
		return items
	}

	out := items
	for _, field := range filterable {
		want, present := filters[field]
		if !present || want == "" {
			continue
		}
		if lower := strings.ToLower(want); lower == "true" || lower == "false" {
			want = lower
		}

		filtered := make([]T, 0, len(out))
		for _, item := range out {
			if value, ok := item.QueryField(field); ok && value == want {
				filtered = append(filtered, item)
			}
		}
		out = filtered
	}
	return out
}

// applyOrdering sorts by the requested field when it is declared
// orderable, descending when prefixed with '-'. Undeclared or empty
// ordering leaves the collection in its default order. Records with
// no value for the field sort as greatest, so they come last
// ascending and first descending, matching SQL NULL ordering.
func applyOrdering[T Record](items []T, ordering string, orderable []string) []T {
	if ordering == "" {
		return items
	}

	desc := false
	field := ordering
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}

	if !contains(orderable, field) {
		return items
	}

	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := out[i].QueryField(field)
		b, bok := out[j].QueryField(field)
		aEmpty := !aok || a == ""
		bEmpty := !bok || b == ""
		if aEmpty != bEmpty {
			if desc {
				return aEmpty
			}
			return bEmpty
		}
		if desc {
			return a > b
		}
		return a < b
	})
	return out
}

func contains(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
