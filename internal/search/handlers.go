package search

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

const dateOnly = "2006-01-02"

// RegisterRoutes mounts /search and /summaries on r. Register before any
// "/:id" route of the same group.
func RegisterRoutes(r fiber.Router, s Searcher) {
	r.Get("/search", func(c *fiber.Ctx) error {
		req, err := parseRequest(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		res, err := s.Search(c.UserContext(), req)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(res)
	})

	r.Get("/summaries", func(c *fiber.Ctx) error {
		res, err := s.Summaries(c.UserContext())
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(res)
	})
}

func parseRequest(c *fiber.Ctx) (Request, error) {
	req := Request{
		Text:     c.Query("q"),
		SortBy:   ParseSortField(c.Query("sort")),
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if v := c.Query("min_rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Request{}, errors.New("min_rating must be an integer")
		}
		req.MinRating = &n
	}
	if v := c.Query("date_from"); v != "" {
		t, err := ParseDate(v, false)
		if err != nil {
			return Request{}, fmt.Errorf("date_from: %w", err)
		}
		req.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := ParseDate(v, true)
		if err != nil {
			return Request{}, fmt.Errorf("date_to: %w", err)
		}
		req.DateTo = &t
	}
	if v := c.Query("desc"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Request{}, errors.New("desc must be a boolean")
		}
		req.Desc = b
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Request{}, errors.New("page must be an integer")
		}
		req.Page = n
	}
	if v := c.Query("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Request{}, errors.New("page_size must be an integer")
		}
		req.PageSize = n
	}
	return req, nil
}

// ParseDate accepts RFC 3339 or a bare date. A bare upper bound covers the
// whole day.
func ParseDate(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", v)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Microsecond)
	}
	return t, nil
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, ErrCancelled):
		return fiber.NewError(fiber.StatusRequestTimeout, err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
