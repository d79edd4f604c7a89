package festival

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/panchangam/internal/validation"
)

//go:embed rules.yaml
var builtinRules []byte

// Format is a catalogue file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// catalogueFile is the on-disk shape: a top-level "rules" list in YAML, or
// [[rules]] tables in TOML.
type catalogueFile struct {
	Rules []Rule `yaml:"rules" toml:"rules" validate:"required,min=1"`
}

// Catalogue is an ordered, read-only set of compiled rules.
type Catalogue struct {
	rules  []*Rule
	byName map[string]*Rule
}

// DefaultCatalogue returns the built-in catalogue.
func DefaultCatalogue() (*Catalogue, error) {
	return ParseCatalogue(builtinRules, FormatYAML)
}

// LoadCatalogue reads a catalogue from path. The format follows the file
// extension: .yaml/.yml or .toml.
func LoadCatalogue(path string) (*Catalogue, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return nil, fmt.Errorf("catalogue %s: unsupported extension %q", path, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	c, err := ParseCatalogue(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalogue decodes, validates and compiles a catalogue. Every rule
// must compile; the first bad rule fails the whole catalogue.
func ParseCatalogue(data []byte, format Format) (*Catalogue, error) {
	var file catalogueFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown catalogue format %q", format)
	}

	if err := validation.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid catalogue: %w", err)
	}
	return NewCatalogue(file.Rules)
}

// NewCatalogue compiles rules into a catalogue, keeping their order.
// Rule names must be unique.
func NewCatalogue(rules []Rule) (*Catalogue, error) {
	c := &Catalogue{
		rules:  make([]*Rule, 0, len(rules)),
		byName: make(map[string]*Rule, len(rules)),
	}

	var errs []error
	for _, r := range rules {
		compiled, err := NewRule(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		key := fold(compiled.Name)
		if _, dup := c.byName[key]; dup {
			errs = append(errs, fmt.Errorf("rule %q defined twice", compiled.Name))
			continue
		}
		c.byName[key] = compiled
		c.rules = append(c.rules, compiled)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// Len returns the number of rules.
func (c *Catalogue) Len() int { return len(c.rules) }

// Rules returns all rules in catalogue order.
func (c *Catalogue) Rules() []*Rule { return slices.Clone(c.rules) }

// Lookup finds a rule by name, case-insensitively.
func (c *Catalogue) Lookup(name string) (*Rule, bool) {
	r, ok := c.byName[fold(name)]
	return r, ok
}

// ForRegion returns the rules observed in region, in catalogue order.
func (c *Catalogue) ForRegion(region string) []*Rule {
	return c.filter(func(r *Rule) bool { return r.AppliesTo(region) })
}

// ByType returns the rules of festival type t.
func (c *Catalogue) ByType(t Type) []*Rule {
	return c.filter(func(r *Rule) bool { return r.Type == t })
}

// ByImportance returns the rules of importance level i.
func (c *Catalogue) ByImportance(i Importance) []*Rule {
	return c.filter(func(r *Rule) bool { return r.Importance == i })
}

func (c *Catalogue) filter(keep func(*Rule) bool) []*Rule {
	var out []*Rule
	for _, r := range c.rules {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
