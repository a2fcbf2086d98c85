package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// Catalog holds the module DAG with precomputed indices.
// It is immutable after construction and safe for concurrent reads.
type Catalog struct {
	modules    []Module
	byID       map[string]int
	dependents map[string][]string
	topoOrder  []string
	terminal   string
}

// New validates the given modules and builds a Catalog from them.
// Authoring order is preserved and is the order AllIDs reports.
func New(modules []Module) (*Catalog, error) {
	if err := validateModules(modules); err != nil {
		return nil, err
	}
	return build(modules), nil
}

// build constructs indices, the topological order (Kahn's algorithm), and
// locates the terminal module. Callers must validate first.
func build(modules []Module) *Catalog {
	c := &Catalog{
		modules:    slices.Clone(modules),
		byID:       make(map[string]int, len(modules)),
		dependents: make(map[string][]string),
	}

	for i := range c.modules {
		c.modules[i].Prerequisites = slices.Clone(c.modules[i].Prerequisites)
		c.byID[c.modules[i].ID] = i
	}

	for _, m := range c.modules {
		for _, prereqID := range m.Prerequisites {
			c.dependents[prereqID] = append(c.dependents[prereqID], m.ID)
		}
	}

	inDegree := make(map[string]int, len(c.modules))
	for _, m := range c.modules {
		inDegree[m.ID] = len(m.Prerequisites)
	}

	var queue []string
	for _, m := range c.modules {
		if inDegree[m.ID] == 0 {
			queue = append(queue, m.ID)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		c.topoOrder = append(c.topoOrder, id)

		// Release dependents in authoring order so the result is deterministic.
		deps := slices.Clone(c.dependents[id])
		sort.SliceStable(deps, func(i, j int) bool {
			return c.byID[deps[i]] < c.byID[deps[j]]
		})
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	c.terminal = findTerminal(c.modules)
	return c
}

// Get returns a module by ID, or error if not found.
func (c *Catalog) Get(id string) (Module, error) {
	i, ok := c.byID[id]
	if !ok {
		return Module{}, fmt.Errorf("module not found: %q", id)
	}
	return c.modules[i], nil
}

// Has reports whether id names a module in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Modules returns all modules in authoring order.
func (c *Catalog) Modules() []Module {
	return slices.Clone(c.modules)
}

// AllIDs returns every module ID in the fixed authoring order. The order is
// stable across calls; the tour and the win recap both follow it.
func (c *Catalog) AllIDs() []string {
	ids := make([]string, len(c.modules))
	for i, m := range c.modules {
		ids[i] = m.ID
	}
	return ids
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	return len(c.modules)
}

// PrerequisitesOf returns the direct prerequisite IDs of a module.
func (c *Catalog) PrerequisitesOf(id string) []string {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	return slices.Clone(c.modules[i].Prerequisites)
}

// Dependents returns the IDs of modules that directly require id.
func (c *Catalog) Dependents(id string) []string {
	return slices.Clone(c.dependents[id])
}

// Roots returns the IDs of modules with no prerequisites.
func (c *Catalog) Roots() []string {
	var roots []string
	for _, m := range c.modules {
		if len(m.Prerequisites) == 0 {
			roots = append(roots, m.ID)
		}
	}
	return roots
}

// Terminal returns the ID of the module whose completion wins the game.
func (c *Catalog) Terminal() string {
	return c.terminal
}

// TopologicalOrder returns all module IDs in a valid topological order.
func (c *Catalog) TopologicalOrder() []string {
	return slices.Clone(c.topoOrder)
}

// IsUnlocked returns true if every prerequisite of id is in the completed set.
func (c *Catalog) IsUnlocked(id string, completed map[string]bool) bool {
	return c.Has(id) && len(c.MissingPrerequisites(id, completed)) == 0
}

// MissingPrerequisites returns the prerequisites of id that are not yet
// completed, in authoring order of the prerequisite list.
func (c *Catalog) MissingPrerequisites(id string, completed map[string]bool) []string {
	var missing []string
	for _, prereqID := range c.PrerequisitesOf(id) {
		if !completed[prereqID] {
			missing = append(missing, prereqID)
		}
	}
	return missing
}

// StateOf computes the display state of a module. Locked is derived from the
// completed set and never stored.
func (c *Catalog) StateOf(id string, completed map[string]bool) State {
	switch {
	case completed[id]:
		return StateCompleted
	case c.IsUnlocked(id, completed):
		return StateAvailable
	default:
		return StateLocked
	}
}

// Titles maps module IDs to their titles, preserving the input order.
func (c *Catalog) Titles(ids []string) []string {
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		if m, err := c.Get(id); err == nil {
			titles = append(titles, m.Title)
		} else {
			titles = append(titles, id)
		}
	}
	return titles
}

// ancestors returns the transitive prerequisite closure of id.
func ancestors(id string, byID map[string]Module) map[string]bool {
	seen := make(map[string]bool)
	stack := slices.Clone(byID[id].Prerequisites)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[next] {
			continue
		}
		seen[next] = true
		stack = append(stack, byID[next].Prerequisites...)
	}
	return seen
}

// terminalCandidates returns every module whose transitive prerequisites
// cover all other modules.
func terminalCandidates(modules []Module) []string {
	byID := make(map[string]Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}
	var out []string
	for _, m := range modules {
		if len(ancestors(m.ID, byID)) == len(modules)-1 {
			out = append(out, m.ID)
		}
	}
	return out
}

func findTerminal(modules []Module) string {
	candidates := terminalCandidates(modules)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}
