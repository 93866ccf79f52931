// Package osm pulls street names out of OpenStreetMap XML.
package osm

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// Tags used when an Extractor is created with NewExtractor.
var (
	DefaultAddrTags = []string{
		"addr:street",
		"addr:street1",
		"addr:street2",
		"addr:street3",
		"addr2:street",
		"addr3:street",
	}
	DefaultNameTags = []string{"name"}
)

// highway values that are not roads
var notHighways = map[string]bool{
	"bus_stop":               true,
	"emergency_access_point": true,
}

// Extractor streams an OSM document and reports street names: address tags
// of every node and way, and name tags of highway ways.
type Extractor struct {
	addrTags map[string]bool
	nameTags map[string]bool
}

// NewExtractor returns an Extractor for the given tag sets. Nil slices select
// the defaults.
func NewExtractor(addrTags, nameTags []string) *Extractor {
	if addrTags == nil {
		addrTags = DefaultAddrTags
	}
	if nameTags == nil {
		nameTags = DefaultNameTags
	}
	e := &Extractor{
		addrTags: make(map[string]bool),
		nameTags: make(map[string]bool),
	}
	for _, t := range addrTags {
		e.AddAddrTag(t)
	}
	for _, t := range nameTags {
		e.AddNameTag(t)
	}
	return e
}

// AddAddrTag adds a tag whose value is a street name on any object.
func (e *Extractor) AddAddrTag(tag string) {
	e.addrTags[tag] = true
}

// AddNameTag adds a tag whose value is a street name on highways.
func (e *Extractor) AddNameTag(tag string) {
	e.nameTags[tag] = true
}

// element collects the tags of the node or way being parsed.
type element struct {
	addrs   []string
	names   []string
	highway bool
}

func (el *element) reset() {
	el.addrs = el.addrs[:0]
	el.names = el.names[:0]
	el.highway = false
}

// Extract parses r and calls sink for every name found, in document order.
func (e *Extractor) Extract(r io.Reader, sink func(string)) error {
	dec := xml.NewDecoder(r)
	// extracts are often declared with encodings other than UTF-8 but
	// are UTF-8 in practice
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var cur element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			line, col := dec.InputPos()
			return fmt.Errorf("error parsing input: %w at line %d pos %d", err, line, col)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "node", "way":
				cur.reset()
			case "tag":
				e.tag(&cur, t.Attr)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "node":
				emit(cur.addrs, sink)
			case "way":
				emit(cur.addrs, sink)
				if cur.highway {
					emit(cur.names, sink)
				}
			}
		}
	}
}

func (e *Extractor) tag(cur *element, attrs []xml.Attr) {
	var k, v string
	for _, a := range attrs {
		switch a.Name.Local {
		case "k":
			k = a.Value
		case "v":
			v = a.Value
		}
	}

	switch {
	case k == "highway":
		if v != "" && !notHighways[v] {
			cur.highway = true
		}
	case v == "":
	case e.addrTags[k]:
		cur.addrs = append(cur.addrs, v)
	case e.nameTags[k]:
		cur.names = append(cur.names, v)
	}
}

func emit(values []string, sink func(string)) {
	for _, v := range values {
		sink(v)
	}
}

// ExtractFile parses the OSM file at filename.
func (e *Extractor) ExtractFile(filename string, sink func(string)) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open OSM file: %w", err)
	}
	defer f.Close()

	if err := e.Extract(f, sink); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}
