package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat is the kind of input a file of names is stored in.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one name per line
	FormatOSM                // OpenStreetMap XML
)

// FormatInfo describes an input format.
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain text name list",
		Extensions:  []string{".txt", ".lst"},
	},
	FormatOSM: {
		Format:      FormatOSM,
		Description: "OpenStreetMap XML",
		Extensions:  []string{".osm", ".xml"},
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFileFormat guesses the format of filename from its extension, and
// from its first bytes when the extension is not known.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return info.Format, nil
			}
		}
	}

	f, err := os.Open(filename)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read from %s: %w", filename, err)
	}

	format := SniffFormat(head[:n])
	log.Debugf("Detected %s for %s", format, filename)
	return format, nil
}

// SniffFormat tells XML from plain text by the leading bytes.
func SniffFormat(head []byte) FileFormat {
	head = bytes.TrimLeft(head, "\ufeff \t\r\n")
	if bytes.HasPrefix(head, []byte("<?xml")) || bytes.HasPrefix(head, []byte("<osm")) {
		return FormatOSM
	}
	return FormatText
}

// GetFormatInfo returns information about a specific format.
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
