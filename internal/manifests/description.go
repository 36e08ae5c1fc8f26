package manifests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/packager-dev/updater/api/release"
)

// Description is the YAML document a release is authored in.
//
// Either Platforms or URL/Signature/Format must be set, following the same rules as the manifest.
type Description struct {
	Version   string                         `json:"version"             yaml:"version"`
	Notes     string                         `json:"notes,omitempty"     yaml:"notes,omitempty"`
	PubDate   string                         `json:"pub_date,omitempty"  yaml:"pub_date,omitempty"`
	Platforms map[string]DescriptionArtifact `json:"platforms,omitempty" yaml:"platforms,omitempty"`

	DescriptionArtifact `yaml:",inline"`
}

// DescriptionArtifact describes one artifact of a release description.
type DescriptionArtifact struct {
	URL       string `json:"url,omitempty"       yaml:"url,omitempty"`
	Signature string `json:"signature,omitempty" yaml:"signature,omitempty"`
	Format    string `json:"format,omitempty"    yaml:"format,omitempty"`

	// SignatureFile points at a file holding the signature, relative to the description.
	SignatureFile string `json:"signature_file,omitempty" yaml:"signature_file,omitempty"`
}

// LoadDescription reads a YAML release description.
//
// Relative signature files are resolved against the description's directory.
func LoadDescription(path string) (*Description, error) {
	// #nosec G304
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	d := &Description{}

	err = yaml.Unmarshal(content, d)
	if err != nil {
		return nil, fmt.Errorf("unable to parse release description %q: %w", path, err)
	}

	base := filepath.Dir(path)

	err = d.DescriptionArtifact.loadSignature(base)
	if err != nil {
		return nil, err
	}

	for name, artifact := range d.Platforms {
		err = artifact.loadSignature(base)
		if err != nil {
			return nil, err
		}

		d.Platforms[name] = artifact
	}

	return d, nil
}

func (a *DescriptionArtifact) loadSignature(base string) error {
	if a.SignatureFile == "" || a.Signature != "" {
		return nil
	}

	path := a.SignatureFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}

	// #nosec G304
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	a.Signature = strings.TrimSpace(string(content))
	a.SignatureFile = ""

	return nil
}

// Release converts the description into a release.
//
// The description is first rendered into the manifest layout and then decoded, so it's subject
// to exactly the same rules as a manifest.
func (d *Description) Release() (release.Release, error) {
	fields := map[string]any{
		"name": d.Version,
	}

	if d.Notes != "" {
		fields["notes"] = d.Notes
	}

	if d.PubDate != "" {
		fields["pub_date"] = d.PubDate
	}

	if d.Platforms != nil {
		platforms := make(map[string]map[string]any, len(d.Platforms))
		for name, artifact := range d.Platforms {
			platforms[name] = artifact.fields()
		}

		fields["platforms"] = platforms
	}

	for k, v := range d.DescriptionArtifact.fields() {
		fields[k] = v
	}

	content, err := json.Marshal(fields)
	if err != nil {
		return release.Release{}, err
	}

	return release.Decode(content)
}

func (a DescriptionArtifact) fields() map[string]any {
	fields := map[string]any{}

	if a.URL != "" {
		fields["url"] = a.URL
	}

	if a.Signature != "" {
		fields["signature"] = a.Signature
	}

	if a.Format != "" {
		fields["format"] = a.Format
	}

	return fields
}

// FromRelease builds the description of an existing release.
func FromRelease(r release.Release) *Description {
	m := release.Encode(r)

	d := &Description{
		Version: r.Version.String(),
		Notes:   r.Notes,
	}

	if m.PubDate != nil {
		d.PubDate = *m.PubDate
	}

	if m.Platforms != nil {
		d.Platforms = make(map[string]DescriptionArtifact, len(m.Platforms))
		for name, p := range m.Platforms {
			d.Platforms[name] = descriptionArtifact(p)
		}
	}

	if m.URL != nil {
		d.URL = *m.URL
	}

	if m.Signature != nil {
		d.Signature = *m.Signature
	}

	if m.Format != nil {
		d.Format = m.Format.String()
	}

	return d
}

func descriptionArtifact(p release.Platform) DescriptionArtifact {
	a := DescriptionArtifact{
		Signature: p.Signature,
		Format:    p.Format.String(),
	}

	if p.URL != nil {
		a.URL = p.URL.String()
	}

	return a
}
