package catalog

import (
	"fmt"
	"strings"
)

// validateModules performs all structural checks on the given module set.
// Returns a combined error describing all problems found, or nil if valid.
func validateModules(modules []Module) error {
	var errs []string

	if len(modules) == 0 {
		return fmt.Errorf("module catalog validation failed:\n  catalog is empty")
	}

	idSet := make(map[string]bool, len(modules))

	// Check for blank and duplicate IDs
	for _, m := range modules {
		if strings.TrimSpace(m.ID) == "" {
			errs = append(errs, fmt.Sprintf("module %q has a blank ID", m.Title))
			continue
		}
		if idSet[m.ID] {
			errs = append(errs, fmt.Sprintf("duplicate module ID: %q", m.ID))
		}
		idSet[m.ID] = true
		if m.Title == "" {
			errs = append(errs, fmt.Sprintf("module %q has no title", m.ID))
		}
	}

	// Check for dangling and self prerequisites
	for _, m := range modules {
		for _, prereqID := range m.Prerequisites {
			if prereqID == m.ID {
				errs = append(errs, fmt.Sprintf("module %q lists itself as a prerequisite", m.ID))
				continue
			}
			if !idSet[prereqID] {
				errs = append(errs, fmt.Sprintf("module %q references nonexistent prerequisite %q", m.ID, prereqID))
			}
		}
	}

	// Check for cycles using Kahn's algorithm
	inDegree := make(map[string]int, len(modules))
	adjList := make(map[string][]string)
	for _, m := range modules {
		inDegree[m.ID] = len(m.Prerequisites)
		for _, prereqID := range m.Prerequisites {
			adjList[prereqID] = append(adjList[prereqID], m.ID)
		}
	}

	var queue []string
	for _, m := range modules {
		if inDegree[m.ID] == 0 {
			queue = append(queue, m.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	cyclic := visited < len(modules)
	if cyclic {
		var cycleNodes []string
		for _, m := range modules {
			if inDegree[m.ID] > 0 {
				cycleNodes = append(cycleNodes, m.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving modules: %s", strings.Join(cycleNodes, ", ")))
	}

	// Check at least one entry point
	hasRoot := false
	for _, m := range modules {
		if len(m.Prerequisites) == 0 {
			hasRoot = true
			break
		}
	}
	if !hasRoot {
		errs = append(errs, "no entry module found (at least one module must have no prerequisites)")
	}

	// Exactly one module must transitively require all others
	if !cyclic && len(errs) == 0 {
		switch candidates := terminalCandidates(modules); len(candidates) {
		case 0:
			errs = append(errs, "no terminal module found (one module must transitively require all others)")
		case 1:
		default:
			errs = append(errs, fmt.Sprintf("multiple terminal modules: %s", strings.Join(candidates, ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("module catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
