package format

import "errors"

// ErrNoTemplates is returned by NewCycle when no templates are supplied.
var ErrNoTemplates = errors.New("format: cycle needs at least one template")

// Cycle is a non-empty round-robin sequence of templates. The cursor starts
// at the first template and advances exactly once per full expansion pass,
// wrapping after the last, so a single-template cycle observably never
// changes.
//
// A Cycle is not safe for concurrent use.
type Cycle struct {
	templates []Template
	cursor    int
	consumes  bool
}

// NewCycle builds a Cycle over the given templates in order.
func NewCycle(templates ...Template) (*Cycle, error) {
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	c := &Cycle{templates: append([]Template(nil), templates...)}
	for _, t := range c.templates {
		for _, d := range t.dirs {
			if d.Kind.width() > 0 {
				c.consumes = true
			}
		}
	}
	return c, nil
}

// Current returns the template the cursor points at without advancing.
func (c *Cycle) Current() Template {
	return c.templates[c.cursor]
}

// Index returns the cursor position, always in [0, Len()).
func (c *Cycle) Index() int {
	return c.cursor
}

// Len returns the number of templates in the cycle.
func (c *Cycle) Len() int {
	return len(c.templates)
}

// Advance moves the cursor to the next template, wrapping to the first.
func (c *Cycle) Advance() {
	c.cursor = (c.cursor + 1) % len(c.templates)
}
