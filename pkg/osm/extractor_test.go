package osm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="55.75" lon="37.61">
    <tag k="addr:street" v="улица Ленина"/>
    <tag k="addr:housenumber" v="1"/>
    <tag k="name" v="Магазин"/>
  </node>
  <node id="2" lat="55.75" lon="37.62">
    <tag k="highway" v="bus_stop"/>
    <tag k="name" v="Остановка"/>
    <tag k="addr2:street" v="Зелёная улица"/>
  </node>
  <node id="3" lat="55.75" lon="37.63"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="улица Ленина"/>
    <tag k="name:en" v="Lenin Street"/>
  </way>
  <way id="11">
    <tag k="building" v="yes"/>
    <tag k="name" v="Дом культуры"/>
    <tag k="addr:street" v="ул. Ленина"/>
  </way>
  <way id="12">
    <tag k="highway" v="emergency_access_point"/>
    <tag k="name" v="Пожарный проезд"/>
  </way>
  <way id="13">
    <tag k="highway" v="tertiary"/>
    <tag k="name" v=""/>
  </way>
  <relation id="20">
    <tag k="addr:street" v="Связь"/>
  </relation>
</osm>
`

func extract(t *testing.T, e *Extractor, input string) []string {
	t.Helper()
	var got []string
	require.NoError(t, e.Extract(strings.NewReader(input), func(s string) {
		got = append(got, s)
	}))
	return got
}

func TestExtractDefaults(t *testing.T) {
	got := extract(t, NewExtractor(nil, nil), sample)
	assert.Equal(t, []string{
		"улица Ленина",
		"Зелёная улица",
		"улица Ленина",
		"ул. Ленина",
	}, got)
}

func TestExtractExtraTags(t *testing.T) {
	e := NewExtractor([]string{"addr:street"}, nil)
	e.AddNameTag("name:en")

	got := extract(t, e, sample)
	assert.Equal(t, []string{
		"улица Ленина",
		"улица Ленина",
		"Lenin Street",
		"ул. Ленина",
	}, got)
}

func TestExtractNoTags(t *testing.T) {
	got := extract(t, NewExtractor([]string{}, []string{}), sample)
	assert.Empty(t, got)
}

func TestExtractError(t *testing.T) {
	input := "<osm>\n<node id=\"1\">\n<tag k=\"addr:street\" v=\"x\">\n</node>\n</osm>\n"
	err := NewExtractor(nil, nil).Extract(strings.NewReader(input), func(string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing input")
	assert.Contains(t, err.Error(), "line 4")
}

func TestExtractFileMissing(t *testing.T) {
	err := NewExtractor(nil, nil).ExtractFile("/nonexistent/extract.osm", func(string) {})
	assert.Error(t, err)
}
