package apps

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/magdock/pkg/cache"
	derrors "github.com/matzehuels/magdock/pkg/errors"
)

// Format is a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	if err := derrors.ValidateManifestPath(path); err != nil {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML, nil
	}
	return FormatYAML, nil
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, derrors.Wrap(derrors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, err
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return m, nil
}

// Parse decodes and validates manifest data.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, derrors.New(derrors.ErrCodeInvalidFormat, "unknown manifest format %q", format)
	}
	if len(m.Apps) == 0 {
		return nil, derrors.New(derrors.ErrCodeInvalidManifest, "manifest lists no apps")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadOrDefault loads path, or returns the default manifest when path is
// empty.
func LoadOrDefault(path string) (*Manifest, error) {
	if path == "" {
		return DefaultManifest(), nil
	}
	return Load(path)
}

// ContentHash identifies a manifest by its apps and overrides. Two
// manifests with the same hash render identically.
func (m *Manifest) ContentHash() string {
	var b strings.Builder
	for _, a := range m.Apps {
		b.WriteString(a.ID)
		b.WriteByte(0)
		b.WriteString(a.Name)
		b.WriteByte(0)
		b.WriteString(a.Icon)
		b.WriteByte('\n')
	}
	if err := toml.NewEncoder(&b).Encode(m.Dock); err != nil {
		b.WriteString(err.Error())
	}
	return cache.Hash([]byte(b.String()))
}
