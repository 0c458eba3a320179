package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"merge-tactics-server/game"
)

// overlayFile is the on-disk shape of a card overlay: extra or replacement
// card definitions merged over the built-in library.
type overlayFile struct {
	Cards []overlayCard `yaml:"cards"`
}

type overlayCard struct {
	Name   string   `yaml:"name"`
	Cost   int      `yaml:"cost"`
	Traits []string `yaml:"traits"`
}

// LoadOverlay merges the card definitions from a YAML file into the catalog.
// Existing names are replaced; new names are appended.
func (c *Catalog) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading card overlay: %w", err)
	}

	var file overlayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing card overlay %s: %w", path, err)
	}

	for i, oc := range file.Cards {
		if oc.Name == "" {
			return fmt.Errorf("card overlay %s: entry %d has no name", path, i)
		}
		if oc.Cost < 1 {
			return fmt.Errorf("card overlay %s: %s has invalid cost %d", path, oc.Name, oc.Cost)
		}
		c.add(game.Card{Name: oc.Name, Cost: oc.Cost, Traits: oc.Traits, Level: 1})
	}
	return nil
}
