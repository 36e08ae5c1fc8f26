package release

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Manifest represents the content of a release manifest (e.g. latest.json).
//
// Exactly one of Platforms or the URL/Signature/Format group is set. Unset fields are
// written as null rather than omitted.
type Manifest struct {
	Name      string              `json:"name"`
	Notes     *string             `json:"notes"`
	PubDate   *string             `json:"pub_date"`
	Platforms map[string]Platform `json:"platforms"`
	URL       *string             `json:"url"`
	Signature *string             `json:"signature"`
	Format    *UpdateFormat       `json:"format"`
}

// manifestJSON is the decoding side of Manifest, every field optional.
type manifestJSON struct {
	Name      string                  `json:"name"`
	Notes     *string                 `json:"notes"`
	PubDate   *string                 `json:"pub_date"`
	Platforms map[string]platformJSON `json:"platforms"`
	URL       *string                 `json:"url"`
	Signature *string                 `json:"signature"`
	Format    *string                 `json:"format"`
}

// Encode converts a release into its manifest form. It never fails.
func Encode(r Release) Manifest {
	m := Manifest{
		Name: FormatVersion(r.Version),
	}

	if r.Notes != "" {
		notes := r.Notes
		m.Notes = &notes
	}

	if !r.PublishedAt.IsZero() {
		pubDate := FormatTime(r.PublishedAt)
		m.PubDate = &pubDate
	}

	var single *Platform

	switch d := distributionValue(r.Distribution).(type) {
	case SinglePlatform:
		single = &d.Platform
	case PerPlatform:
		m.Platforms = copyPlatforms(d.Platforms)
	default:
		// A release without distribution still gets a (empty) platforms table.
		m.Platforms = map[string]Platform{}
	}

	if single != nil {
		var rawURL string
		if single.URL != nil {
			rawURL = single.URL.String()
		}

		signature := single.Signature
		format := single.Format

		m.URL = &rawURL
		m.Signature = &signature
		m.Format = &format
	}

	return m
}

func copyPlatforms(platforms map[string]Platform) map[string]Platform {
	if platforms == nil {
		return map[string]Platform{}
	}

	return maps.Clone(platforms)
}

// Decode parses a manifest document into a release.
//
// Errors are returned as *DecodeError for anything but invalid JSON.
func Decode(data []byte) (Release, error) {
	var raw manifestJSON

	err := json.Unmarshal(data, &raw)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			kind := typeErrorKind(typeErr.Field)
			if kind != nil {
				return Release{}, &DecodeError{Kind: kind, Field: typeErr.Field, Err: err}
			}
		}

		return Release{}, fmt.Errorf("unable to parse manifest: %w", err)
	}

	return raw.release()
}

// typeErrorKind maps a JSON type mismatch on a parsed field to its decode error kind.
// Mismatches on other fields (notes, signature, format, the platforms table itself) stay
// plain JSON errors.
func typeErrorKind(field string) error {
	name := field
	idx := strings.LastIndex(field, ".")
	if idx >= 0 {
		name = field[idx+1:]
	}

	switch name {
	case "name":
		return ErrMalformedVersion
	case "pub_date":
		return ErrMalformedTimestamp
	case "url":
		return ErrMalformedURL
	default:
		return nil
	}
}

func (raw *manifestJSON) release() (Release, error) {
	version, err := ParseVersion(raw.Name)
	if err != nil {
		return Release{}, &DecodeError{Kind: ErrMalformedVersion, Field: "name", Err: err}
	}

	r := Release{Version: version}

	if raw.Notes != nil {
		r.Notes = *raw.Notes
	}

	if raw.PubDate != nil {
		r.PublishedAt, err = time.Parse(time.RFC3339, *raw.PubDate)
		if err != nil {
			return Release{}, &DecodeError{Kind: ErrMalformedTimestamp, Field: "pub_date", Err: err}
		}
	}

	single := platformJSON{URL: raw.URL, Signature: raw.Signature, Format: raw.Format}

	switch {
	case raw.Platforms != nil && single.present():
		fields := []string{"platforms"}

		if raw.URL != nil {
			fields = append(fields, "url")
		}

		if raw.Signature != nil {
			fields = append(fields, "signature")
		}

		if raw.Format != nil {
			fields = append(fields, "format")
		}

		return Release{}, &DecodeError{Kind: ErrAmbiguousDistribution, Field: strings.Join(fields, ", ")}
	case raw.Platforms != nil:
		platforms := make(map[string]Platform, len(raw.Platforms))

		// Walk the table in a stable order so errors are reproducible.
		for _, target := range slices.Sorted(maps.Keys(raw.Platforms)) {
			p, err := raw.Platforms[target].platform("platforms." + target + ".")
			if err != nil {
				return Release{}, err
			}

			platforms[target] = p
		}

		r.Distribution = PerPlatform{Platforms: platforms}
	case single.present():
		p, err := single.platform("")
		if err != nil {
			return Release{}, err
		}

		r.Distribution = SinglePlatform{Platform: p}
	default:
		return Release{}, &DecodeError{Kind: ErrIncompleteDistribution, Field: "platforms, url, signature, format"}
	}

	return r, nil
}

// FormatTime renders a timestamp as RFC 3339.
//
// RFC 3339 offsets have minute precision, so timestamps whose offset carries seconds (e.g.
// historical LMT zones) are rendered in UTC to keep the same instant. Timestamps that can't
// be represented in RFC 3339 at all (years outside of 0-9999) are rendered with
// time.Time.String instead, so the result is never empty.
func FormatTime(t time.Time) string {
	_, offset := t.Zone()
	if offset%60 != 0 {
		t = t.UTC()
	}

	text, err := t.MarshalText()
	if err != nil {
		return t.String()
	}

	return string(text)
}
