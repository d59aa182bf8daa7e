// Package catalog holds the static registry of web services the shell can
// display, grouped into named modes.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yllada/ai-wrapper/common"
)

// ServiceDescriptor identifies one web destination.
type ServiceDescriptor struct {
	ID  string `yaml:"id" json:"id"`
	URL string `yaml:"url" json:"url"`
}

// Mode is a named, ordered group of services shown together as a tab set.
type Mode struct {
	Name     string              `yaml:"name" json:"name"`
	Services []ServiceDescriptor `yaml:"services" json:"services"`
}

// Contains reports whether id is one of the mode's services.
func (m Mode) Contains(id string) bool {
	for _, s := range m.Services {
		if s.ID == id {
			return true
		}
	}
	return false
}

// First returns the first service of the mode.
func (m Mode) First() (ServiceDescriptor, bool) {
	if len(m.Services) == 0 {
		return ServiceDescriptor{}, false
	}
	return m.Services[0], true
}

// Catalog is an ordered list of modes. It is fixed after construction.
type Catalog struct {
	modes []Mode
}

type catalogFile struct {
	Modes []Mode `yaml:"modes"`
}

// New builds a catalog from modes, copying the slices so later mutation by
// the caller has no effect.
func New(modes []Mode) (*Catalog, error) {
	c := &Catalog{modes: make([]Mode, 0, len(modes))}
	for _, m := range modes {
		services := make([]ServiceDescriptor, len(m.Services))
		copy(services, m.Services)
		c.modes = append(c.modes, Mode{Name: m.Name, Services: services})
	}
	if len(c.modes) == 0 {
		return nil, common.ErrEmptyCatalog
	}
	for _, m := range c.modes {
		if len(m.Services) == 0 {
			return nil, fmt.Errorf("%w: %s", common.ErrEmptyMode, m.Name)
		}
	}
	return c, nil
}

// Load reads a catalog from a YAML file of the form
//
//	modes:
//	  - name: standard
//	    services:
//	      - {id: gemini, url: https://gemini.google.com}
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening catalog: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var cf catalogFile
	if err := decoder.Decode(&cf); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	return New(cf.Modes)
}

// Modes returns the modes in catalog order.
func (c *Catalog) Modes() []Mode {
	return c.modes
}

// ModeNames returns the mode names in catalog order.
func (c *Catalog) ModeNames() []string {
	names := make([]string, len(c.modes))
	for i, m := range c.modes {
		names[i] = m.Name
	}
	return names
}

// Mode looks up a mode by name.
func (c *Catalog) Mode(name string) (Mode, bool) {
	for _, m := range c.modes {
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}

// First returns the first mode in catalog order.
func (c *Catalog) First() Mode {
	return c.modes[0]
}

// Services returns the union of every mode's services in catalog order.
// Sessions are created for this whole set, not only the active mode.
// When an id repeats, the later descriptor replaces the earlier one in place.
func (c *Catalog) Services() []ServiceDescriptor {
	index := make(map[string]int)
	var all []ServiceDescriptor
	for _, m := range c.modes {
		for _, s := range m.Services {
			if i, ok := index[s.ID]; ok {
				all[i] = s
				continue
			}
			index[s.ID] = len(all)
			all = append(all, s)
		}
	}
	return all
}

// Validate reports ids that appear in more than one place with different
// URLs. The pool keeps the last URL for such ids.
func (c *Catalog) Validate() error {
	seen := make(map[string]string)
	for _, m := range c.modes {
		for _, s := range m.Services {
			if s.ID == "" || s.URL == "" {
				return fmt.Errorf("%w: mode %s has a service without id or url", common.ErrEmptyMode, m.Name)
			}
			if url, ok := seen[s.ID]; ok && url != s.URL {
				return fmt.Errorf("%w: %s (%s vs %s)", common.ErrDuplicateService, s.ID, url, s.URL)
			}
			seen[s.ID] = s.URL
		}
	}
	return nil
}
