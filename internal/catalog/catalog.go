package catalog

import (
	"fmt"
	"strings"
)

type Filter string

const (
	FilterAll           Filter = "All"
	FilterFavourite     Filter = "Favourite"
	FilterStars         Filter = "Stars"
	FilterPlanets       Filter = "Planets"
	FilterConstellation Filter = "Constellation"
)

// Filters lists the filter menu in display order.
var Filters = []Filter{FilterAll, FilterFavourite, FilterStars, FilterPlanets, FilterConstellation}

func ParseFilter(raw string) (Filter, error) {
	for _, f := range Filters {
		if strings.EqualFold(strings.TrimSpace(raw), string(f)) {
			return f, nil
		}
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return FilterAll, nil
	case "favorite", "favorites", "favourites", "saved":
		return FilterFavourite, nil
	case "star":
		return FilterStars, nil
	case "planet":
		return FilterPlanets, nil
	case "constellations":
		return FilterConstellation, nil
	}
	return "", fmt.Errorf("unknown filter %q", raw)
}

func (c *Catalog) All() []Object {
	return append([]Object(nil), c.Objects...)
}

func (c *Catalog) Len() int { return len(c.Objects) }

func (c *Catalog) FindByID(id string) (Object, bool) {
	if c.index == nil {
		c.reindex()
	}
	i, ok := c.index[id]
	if !ok {
		return Object{}, false
	}
	return c.Objects[i], true
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.FindByID(id)
	return ok
}

func (c *Catalog) ListByKind(kind Kind) []Object {
	out := make([]Object, 0)
	for _, o := range c.Objects {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// Filter applies a list filter. favorite reports whether an object id is in
// the user's saved set; it may be nil when no favorites are loaded.
func (c *Catalog) Filter(f Filter, favorite func(id string) bool) []Object {
	switch f {
	case FilterFavourite:
		out := make([]Object, 0)
		if favorite == nil {
			return out
		}
		for _, o := range c.Objects {
			if favorite(o.ID) {
				out = append(out, o)
			}
		}
		return out
	case FilterStars:
		return c.ListByKind(KindStar)
	case FilterPlanets:
		return c.ListByKind(KindPlanet)
	case FilterConstellation:
		return c.ListByKind(KindConstellation)
	default:
		return c.All()
	}
}

func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.Objects))
	for _, o := range c.Objects {
		out = append(out, o.ID)
	}
	return out
}

// QuizCount is the number of objects that carry a quiz question.
func (c *Catalog) QuizCount() int {
	n := 0
	for _, o := range c.Objects {
		if o.Quiz != nil {
			n++
		}
	}
	return n
}

// Markdown renders the detail body shown on the object screen.
func (o Object) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", o.Name)
	fmt.Fprintf(&b, "_%s_\n\n", strings.ToUpper(string(o.Kind)))
	if o.Description != "" {
		b.WriteString(o.Description)
		b.WriteString("\n\n")
	}
	if o.DidYouKnow != "" {
		fmt.Fprintf(&b, "**Did you know?** %s\n\n", o.DidYouKnow)
	}
	if o.Visibility != "" {
		fmt.Fprintf(&b, "Visibility chance: %s\n\n", o.Visibility)
	}
	obs := o.Observe
	if obs != (ObserveSpec{}) {
		b.WriteString("## How to observe\n\n")
		writeBullet(&b, "Best time", obs.BestTime)
		writeBullet(&b, "Conditions", obs.Conditions)
		writeBullet(&b, "Telescope", obs.Telescope)
		writeBullet(&b, "Bonus tip", obs.BonusTip)
	}
	return b.String()
}

func writeBullet(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, value)
}
