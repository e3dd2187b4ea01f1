package workflow

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownDependencyError reports a team depending on a name that is not
// declared in the same workflow. Configuration must be fixed before any run.
type UnknownDependencyError struct {
	Team       string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("workflow: team %q depends on undeclared team %q", e.Team, e.Dependency)
}

// CycleError reports a dependency cycle. Remaining lists the teams that
// could not be ordered, in declaration order.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("workflow: dependency cycle among teams: %s", strings.Join(e.Remaining, ", "))
}

// Order computes a deterministic topological execution order for the
// workflow's teams using dependency-count reduction: repeatedly select the
// earliest-declared team whose unresolved dependencies are exhausted.
// Declaration order breaks ties, so identical input always yields an
// identical order. Returns an UnknownDependencyError if a dependency names
// an undeclared team, or a CycleError if no progress can be made while
// teams remain.
func (w *Workflow) Order() ([]string, error) {
	remaining := make(map[string]int, len(w.Teams)) // team -> unresolved dep count
	dependents := make(map[string][]string, len(w.Teams))

	for _, t := range w.Teams {
		remaining[t.Name] = len(t.DependsOn)
		for _, dep := range t.DependsOn {
			if _, ok := w.index[dep]; !ok {
				return nil, &UnknownDependencyError{Team: t.Name, Dependency: dep}
			}
			dependents[dep] = append(dependents[dep], t.Name)
		}
	}

	order := make([]string, 0, len(w.Teams))
	done := make(map[string]bool, len(w.Teams))

	for len(order) < len(w.Teams) {
		progressed := false
		for _, t := range w.Teams {
			if done[t.Name] || remaining[t.Name] > 0 {
				continue
			}
			done[t.Name] = true
			order = append(order, t.Name)
			for _, dep := range dependents[t.Name] {
				remaining[dep]--
			}
			progressed = true
		}
		if !progressed {
			var stuck []string
			for _, t := range w.Teams {
				if !done[t.Name] {
					stuck = append(stuck, t.Name)
				}
			}
			return nil, &CycleError{Remaining: stuck}
		}
	}

	return order, nil
}

// Dependents returns the set of teams that transitively depend on the given
// team, including the team itself. This is the reset set for a
// rerun-from-team request: everything downstream of the restart point must
// re-execute, while unrelated teams keep their recorded outputs. The result
// is sorted by declaration order.
func (w *Workflow) Dependents(name string) ([]string, error) {
	if _, ok := w.index[name]; !ok {
		return nil, fmt.Errorf("workflow: unknown team %q", name)
	}

	reached := map[string]bool{name: true}
	// Teams is small; iterate to a fixed point rather than building an
	// explicit adjacency structure.
	for changed := true; changed; {
		changed = false
		for _, t := range w.Teams {
			if reached[t.Name] {
				continue
			}
			for _, dep := range t.DependsOn {
				if reached[dep] {
					reached[t.Name] = true
					changed = true
					break
				}
			}
		}
	}

	result := make([]string, 0, len(reached))
	for n := range reached {
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool {
		return w.index[result[i]] < w.index[result[j]]
	})
	return result, nil
}
