package release

import (
	"encoding/json"
	"errors"
	"net/url"
)

// Platform describes one downloadable update artifact.
type Platform struct {
	URL       *url.URL
	Signature string
	Format    UpdateFormat
}

// platformJSON is the wire form of a platforms table entry.
type platformJSON struct {
	URL       *string `json:"url"`
	Signature *string `json:"signature"`
	Format    *string `json:"format"`
}

// MarshalJSON implements the json.Marshaler interface.
func (p Platform) MarshalJSON() ([]byte, error) {
	var rawURL string
	if p.URL != nil {
		rawURL = p.URL.String()
	}

	format := string(p.Format)

	return json.Marshal(platformJSON{
		URL:       &rawURL,
		Signature: &p.Signature,
		Format:    &format,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Platform) UnmarshalJSON(data []byte) error {
	var raw platformJSON

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	platform, err := raw.platform("")
	if err != nil {
		return err
	}

	*p = platform

	return nil
}

// platform converts the wire form, prefix is prepended to field names in errors.
func (raw platformJSON) platform(prefix string) (Platform, error) {
	missing := raw.missing(prefix)
	if missing != "" {
		return Platform{}, &DecodeError{Kind: ErrIncompleteDistribution, Field: missing}
	}

	u, err := ParseURL(*raw.URL)
	if err != nil {
		return Platform{}, &DecodeError{Kind: ErrMalformedURL, Field: prefix + "url", Err: err}
	}

	return Platform{
		URL:       u,
		Signature: *raw.Signature,
		Format:    UpdateFormat(*raw.Format),
	}, nil
}

// present returns true if any of the artifact fields is set.
func (raw platformJSON) present() bool {
	return raw.URL != nil || raw.Signature != nil || raw.Format != nil
}

// missing returns a comma separated list of the unset artifact fields.
func (raw platformJSON) missing(prefix string) string {
	fields := ""

	add := func(name string) {
		if fields != "" {
			fields += ", "
		}

		fields += prefix + name
	}

	if raw.URL == nil {
		add("url")
	}

	if raw.Signature == nil {
		add("signature")
	}

	if raw.Format == nil || *raw.Format == "" {
		add("format")
	}

	return fields
}

// ParseURL parses an artifact URL, only absolute URLs are accepted.
func ParseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	if !u.IsAbs() || (u.Host == "" && u.Scheme != "file") {
		return nil, errors.New("\"" + rawURL + "\" isn't an absolute URL")
	}

	return u, nil
}
