package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/epistemic-frontier/metamath-logic/internal"
)

// depGraph orders one workspace's specs by their import edges. Only
// imports that name another spec in the set become edges; the rest are
// satisfied from previously written artifacts at build time.
type depGraph struct {
	specs map[string]internal.PackageSpec
	edges map[string][]string
}

func newDepGraph(specs []internal.PackageSpec) (*depGraph, error) {
	g := &depGraph{
		specs: make(map[string]internal.PackageSpec, len(specs)),
		edges: make(map[string][]string, len(specs)),
	}
	for _, spec := range specs {
		if _, ok := g.specs[spec.Name]; ok {
			return nil, fmt.Errorf("workspace declares package %q twice", spec.Name)
		}
		g.specs[spec.Name] = spec
	}
	for name, spec := range g.specs {
		for _, imp := range spec.Imports {
			if imp == name {
				return nil, fmt.Errorf("package %q imports itself", name)
			}
			if _, ok := g.specs[imp]; ok {
				g.edges[name] = append(g.edges[name], imp)
			}
		}
	}
	return g, nil
}

// waves returns the specs grouped into build waves: every import edge
// points into an earlier wave, so waves build sequentially while their
// members build in parallel. Names sort within a wave to keep scheduling
// deterministic.
func (g *depGraph) waves() ([][]internal.PackageSpec, error) {
	if cycles := g.detectCycles(); len(cycles) > 0 {
		return nil, fmt.Errorf("import cycle: %s", strings.Join(cycles[0], " -> "))
	}

	depth := make(map[string]int, len(g.specs))
	var depthOf func(name string) int
	depthOf = func(name string) int {
		if d, ok := depth[name]; ok {
			return d
		}
		d := 0
		for _, imp := range g.edges[name] {
			if upstream := depthOf(imp) + 1; upstream > d {
				d = upstream
			}
		}
		depth[name] = d
		return d
	}

	maxDepth := 0
	for name := range g.specs {
		if d := depthOf(name); d > maxDepth {
			maxDepth = d
		}
	}

	out := make([][]internal.PackageSpec, maxDepth+1)
	for name, spec := range g.specs {
		out[depth[name]] = append(out[depth[name]], spec)
	}
	for _, wave := range out {
		sort.Slice(wave, func(i, j int) bool { return wave[i].Name < wave[j].Name })
	}
	return out, nil
}

// detectCycles walks the import edges depth-first and collects each
// distinct cycle once, rotated to start at its smallest name.
func (g *depGraph) detectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	path := make([]string, 0)
	cycleSet := make(map[string]bool)

	var dfs func(pkg string)
	dfs = func(pkg string) {
		visited[pkg] = true
		path = append(path, pkg)

		for _, dep := range g.edges[pkg] {
			if !visited[dep] {
				dfs(dep)
			} else if index := indexOf(path, dep); index != -1 {
				cycle := normalizeCycle(path[index:])
				cycleKey := strings.Join(cycle, ",")
				if !cycleSet[cycleKey] {
					cycles = append(cycles, cycle)
					cycleSet[cycleKey] = true
				}
			}
		}

		path = path[:len(path)-1]
		visited[pkg] = false
	}

	names := make([]string, 0, len(g.specs))
	for name := range g.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !visited[name] {
			dfs(name)
		}
	}

	return cycles
}

// normalizeCycle rotates a cycle to start at its smallest member, so the
// same cycle found from different entry points compares equal.
func normalizeCycle(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	minIndex := 0
	for i, pkg := range cycle {
		if pkg < cycle[minIndex] {
			minIndex = i
		}
	}
	normalized := make([]string, len(cycle))
	for i := 0; i < len(cycle); i++ {
		normalized[i] = cycle[(minIndex+i)%len(cycle)]
	}
	return normalized
}

func indexOf(slice []string, item string) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}
