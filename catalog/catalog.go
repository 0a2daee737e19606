// Package catalog holds the read-only view models fetched from the backend
// course API plus the client-side filtering and pagination helpers the
// catalog pages render from. Nothing here is persisted locally; identity
// does not outlive the backend-assigned id.
package catalog

import "strings"

// Course is a catalog entry shaped for display.
type Course struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	OldPrice      float64 `json:"old_price,omitempty"`
	Discount      string  `json:"discount,omitempty"`
	Tag           string  `json:"tag,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	StudentsCount int     `json:"students_count,omitempty"`
	InstructorIDs []int   `json:"instructor_ids,omitempty"`
}

// Instructor is a teaching-staff entry shaped for display.
type Instructor struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	Title       string `json:"title,omitempty"`
	Education   string `json:"education,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone_number,omitempty"`
}

// Filter narrows a course list. Zero values mean "no constraint".
type Filter struct {
	// Tag matches the course tag/category exactly, case-insensitive.
	Tag string
	// Query matches a case-insensitive substring of the title.
	Query string
	// MinPrice and MaxPrice bound the price range; MaxPrice 0 means open.
	MinPrice float64
	MaxPrice float64
}

// FilterCourses returns the courses matching every set constraint. The
// input slice is never mutated.
func FilterCourses(courses []Course, f Filter) []Course {
	out := make([]Course, 0, len(courses))
	for _, course := range courses {
		if f.Tag != "" && !strings.EqualFold(course.Tag, f.Tag) {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(course.Title), strings.ToLower(f.Query)) {
			continue
		}
		if course.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && course.Price > f.MaxPrice {
			continue
		}
		out = append(out, course)
	}
	return out
}

// PageInfo describes the slice Paginate returned.
type PageInfo struct {
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
}

// HasPrev reports whether an earlier page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// Paginate slices items for the requested page. Page and perPage are
// clamped to sane values; a page past the end yields an empty slice with
// the info still describing the full list.
func Paginate[T any](items []T, page, perPage int) ([]T, PageInfo) {
	if perPage < 1 {
		perPage = 1
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	info := PageInfo{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	start := (page - 1) * perPage
	if start >= total {
		return []T{}, info
	}

	end := start + perPage
	if end > total {
		end = total
	}

	return items[start:end:end], info
}
