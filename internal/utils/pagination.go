package utils

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Page is the page-number pagination envelope for list endpoints.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPage builds the envelope, deriving next/previous links from the
// request URL with only the page parameter swapped.
func NewPage(c *fiber.Ctx, count int64, page, pageSize int, results interface{}) Page {
	p := Page{Count: count, Results: results}

	if int64(page*pageSize) < count {
		next := pageURL(c, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1)
		p.Previous = &prev
	}
	return p
}

func pageURL(c *fiber.Ctx, page int) string {
	// Walk the raw query args so repeated keys (multiple 'tags' values)
	// survive into the link; c.Queries() collapses them.
	values := url.Values{}
	for key, value := range c.Context().QueryArgs().All() {
		if string(key) == "page" {
			continue
		}
		values.Add(string(key), string(value))
	}
	values.Set("page", strconv.Itoa(page))
	return c.BaseURL() + c.Path() + "?" + values.Encode()
}
