// Package manifests reads, writes and compares release manifests on disk.
package manifests

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/packager-dev/updater/api/release"
)

// Compression represents the compression applied to a manifest file.
type Compression string

const (
	// CompressionNone represents a plain JSON manifest.
	CompressionNone Compression = ""

	// CompressionGzip represents a gzip compressed manifest (.gz).
	CompressionGzip Compression = "gzip"

	// CompressionZstd represents a zstd compressed manifest (.zst).
	CompressionZstd Compression = "zstd"
)

// CompressionFromPath guesses the compression from the file extension.
func CompressionFromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// ReadFile loads a manifest, decompressing it based on its extension.
func ReadFile(path string) (release.Release, error) {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return release.Release{}, err
	}

	defer func() { _ = f.Close() }()

	return Read(f, CompressionFromPath(path))
}

// Read loads a manifest from a reader.
func Read(r io.Reader, compression Compression) (release.Release, error) {
	content, err := readAll(r, compression)
	if err != nil {
		return release.Release{}, err
	}

	return release.Decode(content)
}

func readAll(r io.Reader, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}

		defer func() { _ = zr.Close() }()

		return io.ReadAll(zr)
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}

		defer zr.Close()

		return io.ReadAll(zr)
	default:
		return io.ReadAll(r)
	}
}

// Marshal renders a release as an indented manifest document.
func Marshal(r release.Release) ([]byte, error) {
	content, err := json.MarshalIndent(release.Encode(r), "", "  ")
	if err != nil {
		return nil, err
	}

	return append(content, '\n'), nil
}

// WriteFile writes a manifest, compressing it based on its extension.
func WriteFile(path string, r release.Release) error {
	buf := bytes.NewBuffer(nil)

	err := Write(buf, r, CompressionFromPath(path))
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644) //nolint:gosec
}

// Write renders a manifest to a writer.
func Write(w io.Writer, r release.Release, compression Compression) error {
	content, err := Marshal(r)
	if err != nil {
		return err
	}

	var wr io.WriteCloser

	switch compression {
	case CompressionGzip:
		wr = gzip.NewWriter(w)
	case CompressionZstd:
		wr, err = zstd.NewWriter(w)
		if err != nil {
			return err
		}
	default:
		_, err = w.Write(content)

		return err
	}

	_, err = wr.Write(content)
	if err != nil {
		_ = wr.Close()

		return err
	}

	return wr.Close()
}
