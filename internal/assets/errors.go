package assets

import (
	"errors"
	"strings"
)

// ConfigurationError reports invalid asset data found at load time.
// Source, Asset and Field are filled in as the error moves up through the
// loader and may be empty.
type ConfigurationError struct {
	Source string // file the record came from
	Asset  string // asset id
	Field  string // e.g. "sprites", "edge", "build"
	Reason string
}

func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("asset configuration")
	if e.Source != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Source)
	}
	if e.Asset != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Asset)
	}
	if e.Field != "" {
		sb.WriteString(".")
		sb.WriteString(e.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// annotate fills in empty location fields of a *ConfigurationError.
// Other errors are returned unchanged.
func annotate(err error, source, asset, field string) error {
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		return err
	}
	if ce.Source == "" {
		ce.Source = source
	}
	if ce.Asset == "" {
		ce.Asset = asset
	}
	if ce.Field == "" {
		ce.Field = field
	}
	return ce
}
