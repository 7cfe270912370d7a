package util

import (
	"net/url"
	"strconv"
	"strings"
)

// ListURL builds the listing page URL for one job type, e.g.
// https://123job.vn/tuyen-dung?job_type=1&page=2.
func ListURL(base, jobType string, page int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("job_type", jobType)
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Resolve makes href absolute against base the way a browser's a.href does.
// Fragments are kept, as .href keeps them; unparsable hrefs are returned
// trimmed.
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return ref.String()
}
