package host

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/wippyai/hostconv/errors"
)

// ConfigForEncoding returns a Config using the named filesystem encoding.
// "utf-8" (any case, with or without the dash) selects strict UTF-8.
func ConfigForEncoding(name string) (*Config, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "", "utf8":
		return &Config{FSEncodingName: "utf-8"}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.New(errors.PhaseHost, errors.KindInvalidValue).
			Value(name).
			Cause(err).
			Detail("unknown filesystem encoding %q", name).
			Build()
	}
	if enc == nil {
		return nil, errors.New(errors.PhaseHost, errors.KindInvalidValue).
			Value(name).
			Detail("filesystem encoding %q is not supported", name).
			Build()
	}
	return &Config{FSEncoding: enc, FSEncodingName: displayName(enc, name)}, nil
}

// displayName prefers the MIME name ("iso-8859-1") over the registry name
// ("iso_8859-1:1987"), falling back to what the caller asked for.
func displayName(enc encoding.Encoding, requested string) string {
	for _, idx := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if n, err := idx.Name(enc); err == nil && n != "" {
			return strings.ToLower(n)
		}
	}
	return strings.ToLower(requested)
}
