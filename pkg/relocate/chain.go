package relocate

import "github.com/davidmrtn/jobtree/pkg/namespace"

// BuildChain filters the ordered handler set down to those that apply to the
// item, preserving registration order. An empty chain means no handler knows
// how to move this kind of item; callers treat that as a per-item condition,
// not a command failure.
func BuildChain(item *namespace.Node, handlers []Handler) []Handler {
	var chain []Handler
	for _, h := range handlers {
		if h.Applicability(item) != ModeSkip {
			chain = append(chain, h)
		}
	}
	return chain
}

// ValidDestinations unions the destination sets of every handler whose mode
// for the item is exactly ModeHandle, de-duplicated by container identity
// with first-appearance order preserved.
func ValidDestinations(item *namespace.Node, handlers []Handler) []*namespace.Node {
	seen := make(map[*namespace.Node]bool)
	var out []*namespace.Node
	for _, h := range handlers {
		if h.Applicability(item) != ModeHandle {
			continue
		}
		for _, dest := range h.Destinations(item) {
			if !seen[dest] {
				seen[dest] = true
				out = append(out, dest)
			}
		}
	}
	return out
}
