package release

import (
	"errors"
)

// UpdateFormat represents the package format of an update artifact.
type UpdateFormat string

const (
	// UpdateFormatUndefined represents an unset format.
	UpdateFormatUndefined UpdateFormat = ""

	// UpdateFormatArchiveUpdate represents an archive carrying the update and its metadata.
	UpdateFormatArchiveUpdate UpdateFormat = "archive-update"

	// UpdateFormatAppImage represents a Linux AppImage.
	UpdateFormatAppImage UpdateFormat = "app-image"

	// UpdateFormatNSIS represents an NSIS Windows installer.
	UpdateFormatNSIS UpdateFormat = "nsis"

	// UpdateFormatWiX represents a WiX (MSI) Windows installer.
	UpdateFormatWiX UpdateFormat = "wix"

	// UpdateFormatDMG represents a macOS disk image.
	UpdateFormatDMG UpdateFormat = "dmg"
)

// UpdateFormats is a map of the update formats known to the installer.
var UpdateFormats = map[UpdateFormat]struct{}{
	UpdateFormatArchiveUpdate: {},
	UpdateFormatAppImage:      {},
	UpdateFormatNSIS:          {},
	UpdateFormatWiX:           {},
	UpdateFormatDMG:           {},
}

func (u UpdateFormat) String() string {
	return string(u)
}

// IsKnown returns true if the installer is known to handle the format.
func (u UpdateFormat) IsKnown() bool {
	_, ok := UpdateFormats[u]

	return ok
}

// MarshalText implements the encoding.TextMarshaler interface.
func (u UpdateFormat) MarshalText() ([]byte, error) {
	return []byte(u), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
//
// Formats outside of UpdateFormats are accepted as is, the installer decides what it can
// handle. Only an empty format is refused.
func (u *UpdateFormat) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return errors.New("update format can't be empty")
	}

	*u = UpdateFormat(text)

	return nil
}
