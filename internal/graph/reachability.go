package graph

import "github.com/caselink/analytics-backend-go/internal/models"

// Reachable runs a multi-seed breadth-first search over person-to-person
// edges only and returns the full visited set. Device edges never extend
// reachability. Depth is unbounded; seeds are always in the result when they
// are person nodes present in the graph (unknown seeds are kept too, so a
// stale deep link still selects itself).
func Reachable(seeds []string, data models.GraphData) map[string]bool {
	persons := make(map[string]bool, len(data.Nodes))
	for _, n := range data.Nodes {
		if n.Type == models.NodeTypePerson {
			persons[n.ID] = true
		}
	}

	adjacency := make(map[string][]string)
	for _, l := range data.Links {
		if !persons[l.Source] || !persons[l.Target] {
			continue
		}
		adjacency[l.Source] = append(adjacency[l.Source], l.Target)
		adjacency[l.Target] = append(adjacency[l.Target], l.Source)
	}

	visited := make(map[string]bool, len(seeds))
	queue := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if !visited[seed] {
			visited[seed] = true
			queue = append(queue, seed)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return visited
}
