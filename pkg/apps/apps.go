// Package apps loads the list of applications shown in the dock.
//
// A manifest is a TOML or YAML file. In TOML each app is an [[app]] table;
// in YAML the apps are a list under "apps". An optional dock section fixes
// config values that would otherwise follow the viewport:
//
//	[dock]
//	icon_size = 56
//	max_scale = 1.6
//
//	[[app]]
//	id = "finder"
//	name = "Finder"
//	icon = "#2a8cfa"
//
// Without a manifest the built-in [Default] list is used.
package apps

import (
	"github.com/matzehuels/magdock/pkg/dock"
	derrors "github.com/matzehuels/magdock/pkg/errors"
)

// App is one application entry.
type App struct {
	ID   string `toml:"id" yaml:"id" json:"id"`
	Name string `toml:"name" yaml:"name" json:"name"`
	Icon string `toml:"icon" yaml:"icon" json:"icon,omitempty"`
}

// Manifest is a parsed manifest file.
type Manifest struct {
	Apps []App          `toml:"app" yaml:"apps" json:"apps"`
	Dock dock.Overrides `toml:"dock" yaml:"dock" json:"dock"`
}

// Default returns the built-in app list.
func Default() []App {
	return []App{
		{ID: "finder", Name: "Finder", Icon: "#2a8cfa"},
		{ID: "calculator", Name: "Calculator", Icon: "#59595e"},
		{ID: "terminal", Name: "Terminal", Icon: "#1f1f1f"},
		{ID: "mail", Name: "Mail", Icon: "#3399fa"},
		{ID: "notes", Name: "Notes", Icon: "#fdd640"},
		{ID: "safari", Name: "Safari", Icon: "#33b3f2"},
		{ID: "photos", Name: "Photos", Icon: "#f57359"},
		{ID: "music", Name: "Music", Icon: "#fa3d5c"},
		{ID: "calendar", Name: "Calendar", Icon: "#f2f2f2"},
	}
}

// DefaultManifest wraps Default with no overrides.
func DefaultManifest() *Manifest { return &Manifest{Apps: Default()} }

// Validate checks every id and rejects duplicates. Names default to the id.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Apps))
	for i := range m.Apps {
		a := &m.Apps[i]
		if err := derrors.ValidateSlotID(a.ID); err != nil {
			return err
		}
		if seen[a.ID] {
			return derrors.New(derrors.ErrCodeInvalidManifest, "duplicate app id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Name == "" {
			a.Name = a.ID
		}
	}
	if m.Dock.IconBaseSize < 0 || m.Dock.MaxScale < 0 || m.Dock.EffectWidth < 0 {
		return derrors.New(derrors.ErrCodeInvalidManifest, "dock overrides must not be negative")
	}
	return nil
}

// Slots converts apps to dock slots in order.
func Slots(apps []App) []dock.Slot {
	slots := make([]dock.Slot, len(apps))
	for i, a := range apps {
		slots[i] = dock.Slot{ID: a.ID, Label: a.Name, Icon: a.Icon, Index: i}
	}
	return slots
}

// Find returns the app with the given id.
func Find(apps []App, id string) (App, bool) {
	for _, a := range apps {
		if a.ID == id {
			return a, true
		}
	}
	return App{}, false
}
