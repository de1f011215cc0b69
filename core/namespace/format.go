package namespace

import (
	"strings"

	"github.com/odpf/meridian/internal/errors"
)

const EntityFormat = "format"

// Format is the declared configuration file format of a namespace.
type Format string

const (
	FormatProperties Format = "properties"
	FormatXML        Format = "xml"
	FormatJSON       Format = "json"
	FormatYML        Format = "yml"
	FormatYAML       Format = "yaml"
	FormatTXT        Format = "txt"
)

var supportedFormats = []Format{
	FormatProperties,
	FormatXML,
	FormatJSON,
	FormatYML,
	FormatYAML,
	FormatTXT,
}

func (f Format) String() string {
	return string(f)
}

func FormatFrom(value string) (Format, error) {
	lowered := strings.ToLower(value)
	for _, f := range supportedFormats {
		if lowered == f.String() {
			return f, nil
		}
	}
	return "", errors.InvalidArgument(EntityFormat, "unsupported format "+value)
}

// IsValidFormat reports whether the token is one of the supported
// format suffixes.
func IsValidFormat(value string) bool {
	_, err := FormatFrom(value)
	return err == nil
}
