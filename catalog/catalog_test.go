package catalog_test

import (
	"testing"

	"github.com/goliatone/go-campus/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourses() []catalog.Course {
	return []catalog.Course{
		{ID: 1, Title: "Physics Foundations", Tag: "Science", Price: 1200},
		{ID: 2, Title: "Higher Math Crash Course", Tag: "Math", Price: 1500},
		{ID: 3, Title: "English Grammar", Tag: "Language", Price: 800},
		{ID: 4, Title: "Advanced Physics", Tag: "science", Price: 2200},
		{ID: 5, Title: "IELTS Preparation", Tag: "Language", Price: 3000},
	}
}

func TestFilterCoursesByTagIsCaseInsensitive(t *testing.T) {
	out := catalog.FilterCourses(sampleCourses(), catalog.Filter{Tag: "SCIENCE"})

	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, 4, out[1].ID)
}

func TestFilterCoursesByQueryMatchesSubstring(t *testing.T) {
	out := catalog.FilterCourses(sampleCourses(), catalog.Filter{Query: "physics"})

	require.Len(t, out, 2)

	out = catalog.FilterCourses(sampleCourses(), catalog.Filter{Query: "grammar"})
	require.Len(t, out, 1)
	assert.Equal(t, "English Grammar", out[0].Title)
}

func TestFilterCoursesByPriceRange(t *testing.T) {
	out := catalog.FilterCourses(sampleCourses(), catalog.Filter{MinPrice: 1000, MaxPrice: 2000})

	require.Len(t, out, 2)
	for _, course := range out {
		assert.GreaterOrEqual(t, course.Price, 1000.0)
		assert.LessOrEqual(t, course.Price, 2000.0)
	}
}

func TestFilterCoursesCombinesConstraints(t *testing.T) {
	out := catalog.FilterCourses(sampleCourses(), catalog.Filter{Tag: "Language", Query: "ielts"})

	require.Len(t, out, 1)
	assert.Equal(t, 5, out[0].ID)
}

func TestFilterCoursesZeroFilterReturnsAll(t *testing.T) {
	out := catalog.FilterCourses(sampleCourses(), catalog.Filter{})
	assert.Len(t, out, len(sampleCourses()))
}

func TestFilterCoursesDoesNotMutateInput(t *testing.T) {
	in := sampleCourses()
	_ = catalog.FilterCourses(in, catalog.Filter{Tag: "Math"})
	assert.Equal(t, sampleCourses(), in)
}

func TestPaginateFirstPage(t *testing.T) {
	page, info := catalog.Paginate(sampleCourses(), 1, 2)

	require.Len(t, page, 2)
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, 5, info.TotalItems)
	assert.Equal(t, 3, info.TotalPages)
	assert.False(t, info.HasPrev())
	assert.True(t, info.HasNext())
}

func TestPaginateLastPageIsShort(t *testing.T) {
	page, info := catalog.Paginate(sampleCourses(), 3, 2)

	require.Len(t, page, 1)
	assert.True(t, info.HasPrev())
	assert.False(t, info.HasNext())
}

func TestPaginatePastTheEndIsEmpty(t *testing.T) {
	page, info := catalog.Paginate(sampleCourses(), 9, 2)

	assert.Empty(t, page)
	assert.Equal(t, 5, info.TotalItems)
	assert.Equal(t, 3, info.TotalPages)
}

func TestPaginateClampsBadInput(t *testing.T) {
	page, info := catalog.Paginate(sampleCourses(), 0, 0)

	require.Len(t, page, 1, "perPage clamps to 1")
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, 5, info.TotalPages)
}

func TestPaginateEmptyList(t *testing.T) {
	page, info := catalog.Paginate([]catalog.Course{}, 1, 10)

	assert.Empty(t, page)
	assert.Equal(t, 1, info.TotalPages)
	assert.False(t, info.HasNext())
	assert.False(t, info.HasPrev())
}
