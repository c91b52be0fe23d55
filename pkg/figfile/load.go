package figfile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/figlayout/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from a file extension. Anything that is not
// .json is read as TOML.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTOML, FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q (use toml or json)", s)
}

// Load reads, defaults and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "figure file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Parse(data, DetectFormat(path))
}

// Parse decodes, defaults and validates a document.
func Parse(data []byte, format Format) (*Document, error) {
	d, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, err
	}
	d.SetDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Decode reads a document without defaulting or validating it.
func Decode(r io.Reader, format Format) (*Document, error) {
	var d Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json document")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&d)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml document")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	return &d, nil
}

// Encode writes a document.
func Encode(w io.Writer, d *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(d)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
}
