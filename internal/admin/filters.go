package admin

import (
	"net/url"
	"strconv"
	"strings"
)

// ListFilter holds the raw values of the list filter form.
type ListFilter struct {
	MinBalance    string
	MaxBalance    string
	HasEmail      bool
	SurnamePrefix string
}

// Query builds the collection query string with only the non-empty criteria.
func (f ListFilter) Query() url.Values {
	query := url.Values{}
	if v := strings.TrimSpace(f.MinBalance); v != "" {
		query.Set("min_balance", v)
	}
	if v := strings.TrimSpace(f.MaxBalance); v != "" {
		query.Set("max_balance", v)
	}
	if f.HasEmail {
		query.Set("has_email", "true")
	}
	if v := strings.TrimSpace(f.SurnamePrefix); v != "" {
		query.Set("surname_prefix", v)
	}
	return query
}

// IsEmpty reports whether the filter would produce an empty query.
func (f ListFilter) IsEmpty() bool {
	return len(f.Query()) == 0
}

// ListFilterFromValues reads a filter back from form or query values.
func ListFilterFromValues(values url.Values) ListFilter {
	hasEmail := false
	if raw := strings.TrimSpace(values.Get("has_email")); raw != "" {
		if strings.EqualFold(raw, "on") {
			hasEmail = true
		} else if parsed, err := strconv.ParseBool(raw); err == nil {
			hasEmail = parsed
		}
	}
	return ListFilter{
		MinBalance:    values.Get("min_balance"),
		MaxBalance:    values.Get("max_balance"),
		HasEmail:      hasEmail,
		SurnamePrefix: values.Get("surname_prefix"),
	}
}
