package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	CatalogKind            = "catalog"
	SupportedSchemaVersion = 1
)

type Kind string

const (
	KindStar          Kind = "star"
	KindConstellation Kind = "constellation"
	KindPlanet        Kind = "planet"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

type Catalog struct {
	Kind          string   `yaml:"kind"`
	SchemaVersion int      `yaml:"schema_version"`
	CatalogID     string   `yaml:"catalog_id"`
	Name          string   `yaml:"name"`
	Objects       []Object `yaml:"objects"`

	Path  string         `yaml:"-"`
	index map[string]int `yaml:"-"`
}

type Object struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Kind        Kind        `yaml:"kind"`
	DidYouKnow  string      `yaml:"did_you_know"`
	Visibility  string      `yaml:"visibility"`
	Observe     ObserveSpec `yaml:"observe"`
	Quiz        *Quiz       `yaml:"quiz"`
	ImageRef    string      `yaml:"image"`
	Description string      `yaml:"description_md"`
}

type ObserveSpec struct {
	BestTime   string `yaml:"best_time"`
	Conditions string `yaml:"conditions"`
	Telescope  string `yaml:"telescope"`
	BonusTip   string `yaml:"bonus_tip"`
}

type Quiz struct {
	Group    string            `yaml:"group"`
	Question string            `yaml:"question"`
	Choices  map[string]string `yaml:"choices"`
	Correct  string            `yaml:"correct"`
}

func (c *Catalog) Validate() error {
	if c.Kind != CatalogKind {
		return fmt.Errorf("catalog kind must be %q", CatalogKind)
	}
	if c.SchemaVersion != SupportedSchemaVersion {
		return fmt.Errorf("unsupported catalog schema_version %d", c.SchemaVersion)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("catalog name is required")
	}
	if len(c.Objects) == 0 {
		return fmt.Errorf("catalog %s has no objects", c.CatalogID)
	}
	seen := map[string]struct{}{}
	for i := range c.Objects {
		o := &c.Objects[i]
		if err := o.Validate(); err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("duplicate object id %q", o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}

func (o *Object) Validate() error {
	if !idPattern.MatchString(o.ID) {
		return fmt.Errorf("invalid object id %q", o.ID)
	}
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("object %s: name is required", o.ID)
	}
	switch o.Kind {
	case KindStar, KindConstellation, KindPlanet:
	default:
		return fmt.Errorf("object %s: unknown kind %q", o.ID, o.Kind)
	}
	if o.Quiz != nil {
		if err := o.Quiz.Validate(); err != nil {
			return fmt.Errorf("object %s: %w", o.ID, err)
		}
	}
	return nil
}

func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("quiz question is required")
	}
	if len(q.Choices) < 2 {
		return fmt.Errorf("quiz needs at least two choices")
	}
	if _, ok := q.Choices[q.Correct]; !ok {
		return fmt.Errorf("quiz correct answer %q is not a choice", q.Correct)
	}
	return nil
}
