package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://locations.example.com"

func newTestExtractor() *Extractor {
	return New(base, "In-N-Out Burger")
}

// storePage builds a minimal valid store page body.
func storePage(heading, title, img string) string {
	body := `<html><head>`
	if title != "" {
		body += `<title>` + title + `</title>`
	}
	body += `</head><body>
<div class="map" data-latitude="34.0522" data-longitude="-118.2437"></div>`
	if heading != "" {
		body += `<h3 class="street-address">` + heading + `</h3>`
	}
	if img != "" {
		body += `<img src="` + img + `" alt="In-N-Out Burger - Los Angeles" class="store-image">`
	}
	body += `</body></html>`
	return body
}

func TestExtract_ValidPage(t *testing.T) {
	e := newTestExtractor()
	body := storePage(
		"Los Angeles, CA - 123 Main St, 90001",
		"Los Angeles - In-N-Out Burger Locations",
		"/images/store-42.jpg",
	)

	loc, ok := e.Extract(base+"/42", body)
	require.True(t, ok)
	assert.Equal(t, "42", loc.ID)
	assert.Equal(t, "42", loc.Slug)
	assert.Equal(t, "Los Angeles", loc.Name)
	assert.Equal(t, "Los Angeles, CA", loc.CityState)
	assert.Equal(t, "123 Main St", loc.AddressLine)
	assert.Equal(t, "90001", loc.ZipCode)
	assert.InDelta(t, 34.0522, loc.Latitude, 0.0001)
	assert.InDelta(t, -118.2437, loc.Longitude, 0.0001)
	assert.Equal(t, base+"/42", loc.URL)
	assert.Equal(t, base+"/images/store-42.jpg", loc.ImageURL)
}

func TestExtract_Idempotent(t *testing.T) {
	e := newTestExtractor()
	body := storePage("Austin, TX - 1 Congress Ave, 78701", "Austin - Store", "/img.jpg")

	first, ok1 := e.Extract(base+"/7", body)
	second, ok2 := e.Extract(base+"/7", body)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestExtract_MissingLatitude(t *testing.T) {
	e := newTestExtractor()
	body := `<html><body><div data-longitude="-118.2"></div>
<h3 class="street-address">Los Angeles, CA - 123 Main St, 90001</h3></body></html>`

	_, ok := e.Extract(base+"/1", body)
	assert.False(t, ok)
}

func TestExtract_MissingLongitude(t *testing.T) {
	e := newTestExtractor()
	body := `<html><body><div data-latitude="34.05"></div>
<h3 class="street-address">Los Angeles, CA - 123 Main St, 90001</h3></body></html>`

	_, ok := e.Extract(base+"/1", body)
	assert.False(t, ok)
}

func TestExtract_MissingHeading(t *testing.T) {
	e := newTestExtractor()
	body := `<html><body><div data-latitude="34.05" data-longitude="-118.2"></div></body></html>`

	_, ok := e.Extract(base+"/1", body)
	assert.False(t, ok)
}

func TestExtract_MalformedCoordinates(t *testing.T) {
	e := newTestExtractor()
	body := `<html><body><div data-latitude="not-a-number" data-longitude="-118.2"></div>
<h3 class="street-address">Los Angeles, CA - 123 Main St, 90001</h3></body></html>`

	_, ok := e.Extract(base+"/1", body)
	assert.False(t, ok)
}

func TestExtract_NonNumericPath(t *testing.T) {
	e := newTestExtractor()
	body := storePage("Los Angeles, CA - 123 Main St, 90001", "", "")

	_, ok := e.Extract(base+"/about-us", body)
	assert.False(t, ok)
}

func TestExtract_IDFromURLNotContent(t *testing.T) {
	e := newTestExtractor()
	// Page content mentions other numbers; only the URL path decides the id.
	body := storePage("Store 999 City, CA - 500 Fifth Ave, 90001", "888 - Title", "")

	loc, ok := e.Extract(base+"/17/los-angeles", body)
	require.True(t, ok)
	assert.Equal(t, "17", loc.ID)
	assert.Equal(t, "17/los-angeles", loc.Slug)
}

func TestExtract_GracefulDegradation(t *testing.T) {
	e := newTestExtractor()
	// No title, no image: still a valid record with fallbacks.
	body := storePage("Los Angeles, CA - 123 Main St, 90001", "", "")

	loc, ok := e.Extract(base+"/5", body)
	require.True(t, ok)
	assert.Equal(t, "In-N-Out Burger", loc.Name)
	assert.Equal(t, "", loc.ImageURL)
}

func TestExtract_TitleWithoutSeparator(t *testing.T) {
	e := newTestExtractor()
	body := storePage("Los Angeles, CA - 123 Main St, 90001", "Store Locator", "")

	loc, ok := e.Extract(base+"/5", body)
	require.True(t, ok)
	assert.Equal(t, "In-N-Out Burger", loc.Name)
}

func TestExtract_HeadingWithoutSeparator(t *testing.T) {
	e := newTestExtractor()
	body := storePage("123 Main St", "", "")

	loc, ok := e.Extract(base+"/5", body)
	require.True(t, ok)
	assert.Equal(t, "123 Main St", loc.CityState)
	assert.Equal(t, "", loc.AddressLine)
	assert.Equal(t, "", loc.ZipCode)
}

func TestExtract_AddressWithoutZip(t *testing.T) {
	e := newTestExtractor()
	body := storePage("Los Angeles, CA - 123 Main St", "", "")

	loc, ok := e.Extract(base+"/5", body)
	require.True(t, ok)
	assert.Equal(t, "123 Main St", loc.AddressLine)
	assert.Equal(t, "", loc.ZipCode)
}

func TestExtract_ZipPlusFour(t *testing.T) {
	e := newTestExtractor()
	body := storePage("Los Angeles, CA - 123 Main St, 90001-1234", "", "")

	loc, ok := e.Extract(base+"/5", body)
	require.True(t, ok)
	assert.Equal(t, "123 Main St", loc.AddressLine)
	assert.Equal(t, "90001", loc.ZipCode)
}

func TestExtract_HeadingMarkupAndWhitespace(t *testing.T) {
	e := newTestExtractor()
	body := storePage("<span>Los   Angeles, CA</span>\n\t - <b>123  Main St</b>, 90001", "", "")

	loc, ok := e.Extract(base+"/5", body)
	require.True(t, ok)
	assert.Equal(t, "Los Angeles, CA", loc.CityState)
	assert.Equal(t, "123 Main St", loc.AddressLine)
	assert.Equal(t, "90001", loc.ZipCode)
}

func TestExtract_AbsoluteImageURLUntouched(t *testing.T) {
	e := newTestExtractor()
	body := storePage("Los Angeles, CA - 123 Main St, 90001", "", "https://cdn.example.com/store.jpg")

	loc, ok := e.Extract(base+"/5", body)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/store.jpg", loc.ImageURL)
}

func TestSplitHeading(t *testing.T) {
	tests := []struct {
		name                    string
		heading                 string
		cityState, address, zip string
	}{
		{"full", "Los Angeles, CA - 123 Main St, 90001", "Los Angeles, CA", "123 Main St", "90001"},
		{"no separator", "123 Main St", "123 Main St", "", ""},
		{"no zip", "Austin, TX - 1 Congress Ave", "Austin, TX", "1 Congress Ave", ""},
		{"zip plus four", "Reno, NV - 2 First St, 89501-1000", "Reno, NV", "2 First St", "89501"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cityState, address, zip := splitHeading(tt.heading)
			assert.Equal(t, tt.cityState, cityState)
			assert.Equal(t, tt.address, address)
			assert.Equal(t, tt.zip, zip)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", normalize("  a\t b \n c "))
	assert.Equal(t, "", normalize("   \n\t  "))
}
