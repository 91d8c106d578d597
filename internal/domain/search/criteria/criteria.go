// Package criteria defines the validated company search criteria.
package criteria

import (
	"fmt"
	"strings"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/locality"
)

// Search parameter limits.
const (
	DefaultPageSize   = 20
	MaxPageSize       = 100
	MaxFreeTextLength = 512
)

// Limits bounds the paging parameters. Deployments tune them through
// configuration; zero fields fall back to the package defaults.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

func (l Limits) withDefaults() Limits {
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = DefaultPageSize
	}
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = MaxPageSize
	}
	return l
}

// Criteria is a validated search request. Location is always held in
// canonical form. Out-of-bounds paging is rejected at construction,
// never clamped — clamping hides caller bugs.
type Criteria struct {
	location string
	freeText string
	page     int
	pageSize int
}

// New validates and normalizes search parameters.
// page and pageSize of 0 take the defaults (1 and limits.DefaultPageSize);
// explicit values outside bounds fail with ErrInvalidCriteria.
func New(location, freeText string, page, pageSize int, limits Limits) (Criteria, error) {
	limits = limits.withDefaults()
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = limits.DefaultPageSize
	}
	if page < 1 {
		return Criteria{}, domain.NewCriteriaError("page", "must be >= 1")
	}
	if pageSize < 1 || pageSize > limits.MaxPageSize {
		return Criteria{}, domain.NewCriteriaError("pageSize",
			fmt.Sprintf("must be between 1 and %d", limits.MaxPageSize))
	}

	freeText = strings.TrimSpace(freeText)
	if len(freeText) > MaxFreeTextLength {
		return Criteria{}, domain.NewCriteriaError("freeText",
			fmt.Sprintf("too long (max %d chars)", MaxFreeTextLength))
	}

	if location = strings.TrimSpace(location); location != "" {
		normalized, err := locality.Normalize(location)
		if err != nil {
			return Criteria{}, domain.NewCriteriaError("location",
				fmt.Sprintf("unknown locality %q", location))
		}
		location = normalized
	}

	return Criteria{
		location: location,
		freeText: freeText,
		page:     page,
		pageSize: pageSize,
	}, nil
}

// Location returns the canonical locality token ("" when absent).
func (c *Criteria) Location() string { return c.location }

// FreeText returns the free-text term ("" when absent).
func (c *Criteria) FreeText() string { return c.freeText }

// Page returns the 1-based page number.
func (c *Criteria) Page() int { return c.page }

// PageSize returns the page size.
func (c *Criteria) PageSize() int { return c.pageSize }

// Offset returns the row offset for the page fetch.
func (c *Criteria) Offset() int { return (c.page - 1) * c.pageSize }

// CacheKey returns a canonical string identifying the criteria for
// result caching. Identical criteria always produce identical keys.
func (c *Criteria) CacheKey() string {
	return fmt.Sprintf("loc=%s|q=%s|p=%d|n=%d", c.location, c.freeText, c.page, c.pageSize)
}
