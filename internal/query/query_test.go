package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rec is a minimal Record for exercising the composer.
type rec map[string]string

func (r rec) QueryField(name string) (string, bool) {
	v, ok := r[name]
	return v, ok
}

var taskFields = Fields{
	Searchable: []string{"title", "description"},
	Filterable: []string{"is_completed", "project_id"},
	Orderable:  []string{"title", "due_date"},
}

func titles(items []rec) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r["title"]
	}
	return out
}

func TestParseParams(t *testing.T) {
	values, err := url.ParseQuery(
		"search=urgent&ordering=-due_date&page=3&page_size=25&is_completed=true&color=red",
	)
	require.NoError(t, err)

	p := ParseParams(values, taskFields)

	assert.Equal(t, "urgent", p.Search)
	assert.Equal(t, "-due_date", p.Ordering)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.PageSize)
	assert.Equal(t, map[string]string{"is_completed": "true"}, p.Filters,
		"undeclared parameters must be ignored")
}

func TestParseParamsMalformed(t *testing.T) {
	values := url.Values{"page": {"minus-two"}, "page_size": {"-5"}}
	p := ParseParams(values, taskFields)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}

func TestApplySearch(t *testing.T) {
	items := []rec{
		{"title": "Urgent fix", "description": "roof leak"},
		{"title": "Routine check", "description": "monthly walkthrough"},
	}

	got := Apply(items, Params{Search: "urgent"}, taskFields)
	assert.Equal(t, []string{"Urgent fix"}, titles(got))

	// term matching any declared field keeps the record
	got = Apply(items, Params{Search: "WALKTHROUGH"}, taskFields)
	assert.Equal(t, []string{"Routine check"}, titles(got))

	// no searchable fields declared: no-op
	got = Apply(items, Params{Search: "urgent"}, Fields{})
	assert.Len(t, got, 2)
}

func TestApplyFilters(t *testing.T) {
	items := []rec{
		{"title": "a", "is_completed": "true"},
		{"title": "b", "is_completed": "false"},
		{"title": "c", "is_completed": "true"},
		{"title": "d", "is_completed": "false"},
		{"title": "e", "is_completed": "false"},
	}

	got := Apply(items, Params{Filters: map[string]string{"is_completed": "true"}}, taskFields)
	assert.Equal(t, []string{"a", "c"}, titles(got))

	// boolean literals are coerced case-insensitively
	got = Apply(items, Params{Filters: map[string]string{"is_completed": "False"}}, taskFields)
	assert.Equal(t, []string{"b", "d", "e"}, titles(got))
}

func TestApplyOrdering(t *testing.T) {
	items := []rec{
		{"title": "banana", "due_date": "2026-02-01"},
		{"title": "apple", "due_date": "2026-03-01"},
		{"title": "cherry", "due_date": "2026-01-01"},
	}

	got := Apply(items, Params{Ordering: "title"}, taskFields)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, titles(got))

	got = Apply(items, Params{Ordering: "-due_date"}, taskFields)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, titles(got))

	// undeclared field degrades to input order, not an error
	got = Apply(items, Params{Ordering: "secret"}, taskFields)
	assert.Equal(t, []string{"banana", "apple", "cherry"}, titles(got))

	// input slice must not be reordered in place
	assert.Equal(t, "banana", items[0]["title"])
}

func TestApplyOrderingEmptyValuesSortLast(t *testing.T) {
	items := []rec{
		{"title": "undated"},
		{"title": "later", "due_date": "2026-03-01"},
		{"title": "soon", "due_date": "2026-01-01"},
	}

	got := Apply(items, Params{Ordering: "due_date"}, taskFields)
	assert.Equal(t, []string{"soon", "later", "undated"}, titles(got),
		"ascending puts records without the field after dated ones")

	got = Apply(items, Params{Ordering: "-due_date"}, taskFields)
	assert.Equal(t, []string{"undated", "later", "soon"}, titles(got))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 0, 23)
	for i := 0; i < 23; i++ {
		items = append(items, i)
	}

	t.Run("first page", func(t *testing.T) {
		page := Paginate(items, 1, 10)
		assert.Equal(t, 23, page.Count)
		assert.Len(t, page.Results, 10)
		assert.True(t, page.HasNext)
		assert.False(t, page.HasPrevious)
	})

	t.Run("last partial page", func(t *testing.T) {
		page := Paginate(items, 3, 10)
		assert.Len(t, page.Results, 3)
		assert.False(t, page.HasNext)
		assert.True(t, page.HasPrevious)
	})

	t.Run("size capped", func(t *testing.T) {
		page := Paginate(items, 1, 500)
		assert.Equal(t, MaxPageSize, page.Size)
		assert.Len(t, page.Results, 23)
	})

	t.Run("zero size uses default", func(t *testing.T) {
		page := Paginate(items, 1, 0)
		assert.Equal(t, DefaultPageSize, page.Size)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page := Paginate(items, 9, 10)
		assert.Empty(t, page.Results)
		assert.Equal(t, 23, page.Count)
		assert.False(t, page.HasNext)
	})
}
