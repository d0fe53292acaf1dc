// Package extract turns raw store-page HTML into Location records.
//
// The page template is not under our control, so extraction is a set of
// independent pattern searches rather than a real parse: coordinates and the
// street-address heading are required, everything else degrades to an empty
// value or a fallback.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/locations-cli/internal/model"
)

var (
	latRe     = regexp.MustCompile(`data-latitude="([^"]+)"`)
	lngRe     = regexp.MustCompile(`data-longitude="([^"]+)"`)
	headingRe = regexp.MustCompile(`(?s)<h3 class="street-address">(.*?)</h3>`)
	titleRe   = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	spaceRe   = regexp.MustCompile(`\s+`)
	idRe      = regexp.MustCompile(`^(\d+)`)
	zipRe     = regexp.MustCompile(`^(.*?),\s*(\d{5})(?:-\d{4})?$`)
)

// Extractor maps a fetched store page to a Location.
type Extractor struct {
	baseURL      string
	fallbackName string
	imageRe      *regexp.Regexp
}

// New creates an Extractor for the given site origin. fallbackName doubles
// as the brand prefix in the store image alt text.
func New(baseURL, fallbackName string) *Extractor {
	return &Extractor{
		baseURL:      strings.TrimRight(baseURL, "/"),
		fallbackName: fallbackName,
		imageRe: regexp.MustCompile(
			`<img src="([^"]+)" alt="` + regexp.QuoteMeta(fallbackName) + ` - [^"]+" class="store-image"`),
	}
}

// Extract parses a store page body fetched from url. It returns ok=false
// when the page is not a valid store page: missing coordinates, missing
// address heading, or a URL path that does not start with a numeric id.
// Extract is pure; identical inputs always produce identical output.
func (e *Extractor) Extract(url, body string) (*model.Location, bool) {
	lat, lng, ok := e.coordinates(body)
	if !ok {
		return nil, false
	}

	heading, ok := e.heading(body)
	if !ok {
		return nil, false
	}

	id, slug, ok := e.storeID(url)
	if !ok {
		return nil, false
	}

	cityState, addressLine, zipCode := splitHeading(heading)

	return &model.Location{
		ID:          id,
		Slug:        slug,
		Name:        e.name(body),
		CityState:   cityState,
		AddressLine: addressLine,
		ZipCode:     zipCode,
		Latitude:    lat,
		Longitude:   lng,
		URL:         url,
		ImageURL:    e.image(body),
	}, true
}

// coordinates finds the map coordinate markers. Both must be present and
// parse as floats.
func (e *Extractor) coordinates(body string) (lat, lng float64, ok bool) {
	latM := latRe.FindStringSubmatch(body)
	lngM := lngRe.FindStringSubmatch(body)
	if latM == nil || lngM == nil {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latM[1], 64)
	lng, errLng := strconv.ParseFloat(lngM[1], 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// heading finds the street-address h3, strips markup and collapses
// whitespace.
func (e *Extractor) heading(body string) (string, bool) {
	m := headingRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return normalize(tagRe.ReplaceAllString(m[1], " ")), true
}

// storeID pulls the canonical id from the leading digit run of the URL
// path. The id comes from the URL, never from page content.
func (e *Extractor) storeID(url string) (id, slug string, ok bool) {
	slug = strings.Trim(strings.TrimPrefix(url, e.baseURL), "/")
	m := idRe.FindStringSubmatch(slug)
	if m == nil {
		return "", "", false
	}
	return m[1], slug, true
}

// name derives the business name from the page title, falling back to the
// configured brand name when the title is absent or has no " - " separator.
func (e *Extractor) name(body string) string {
	m := titleRe.FindStringSubmatch(body)
	if m == nil {
		return e.fallbackName
	}
	title := normalize(tagRe.ReplaceAllString(m[1], ""))
	if before, _, found := strings.Cut(title, " - "); found {
		return before
	}
	return e.fallbackName
}

// image finds the store image src, rewriting root-relative paths to
// absolute. A page without an image is still valid; the result is empty.
func (e *Extractor) image(body string) string {
	m := e.imageRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	src := m[1]
	if strings.HasPrefix(src, "/") {
		src = e.baseURL + src
	}
	return src
}

// splitHeading breaks a normalized heading of the form
// "<city/state> - <address>, <zip>" into its components. Without the " - "
// separator the whole heading is the city/state; without a trailing zip the
// whole right side is the address line.
func splitHeading(heading string) (cityState, addressLine, zipCode string) {
	cityState = heading
	addressZip := ""
	if before, after, found := strings.Cut(heading, " - "); found {
		cityState, addressZip = before, after
	}

	addressLine = addressZip
	if m := zipRe.FindStringSubmatch(addressZip); m != nil {
		addressLine = normalize(m[1])
		zipCode = m[2]
	}
	return normalize(cityState), addressLine, zipCode
}

// normalize collapses whitespace runs to single spaces and trims the ends.
func normalize(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
