package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinYAML []byte

// Builtin returns the embedded catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	c, err := Load(bytes.NewReader(builtinYAML))
	if err != nil {
		return nil, fmt.Errorf("load builtin catalog: %w", err)
	}
	return c, nil
}

// LoadFile reads a catalog from disk. An empty path falls back to Builtin.
func LoadFile(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

func Load(r io.Reader) (*Catalog, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.reindex()
	return &c, nil
}

func applyDefaults(c *Catalog) {
	if c.Kind == "" {
		c.Kind = CatalogKind
	}
	if c.SchemaVersion == 0 {
		c.SchemaVersion = SupportedSchemaVersion
	}
	for i := range c.Objects {
		o := &c.Objects[i]
		o.ID = strings.TrimSpace(o.ID)
		o.Kind = Kind(strings.ToLower(strings.TrimSpace(string(o.Kind))))
		if o.Quiz == nil {
			continue
		}
		o.Quiz.Correct = strings.ToUpper(strings.TrimSpace(o.Quiz.Correct))
		normalized := make(map[string]string, len(o.Quiz.Choices))
		for k, v := range o.Quiz.Choices {
			normalized[strings.ToUpper(strings.TrimSpace(k))] = v
		}
		o.Quiz.Choices = normalized
	}
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.Objects))
	for i, o := range c.Objects {
		c.index[o.ID] = i
	}
}

// ChoiceKeys returns the quiz choice labels in display order.
func (q *Quiz) ChoiceKeys() []string {
	keys := make([]string, 0, len(q.Choices))
	for k := range q.Choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
