package permission

// Node is the contract a type must satisfy to participate in [Build].
// AddChild must append to the node's own children slice; Build never
// reorders what it appends.
type Node[T any] interface {
	NodeID() int64
	ParentID() int64
	AddChild(T)
}

// Build arranges a flat list into a forest in a single pass over the input.
//
// A parent id of 0 marks a root. A parent id that does not resolve to any
// item in the input also makes the item a root (orphan-as-root). Sibling
// order follows input order.
func Build[T Node[T]](items []T) []T {
	index := make(map[int64]T, len(items))
	for _, item := range items {
		index[item.NodeID()] = item
	}

	roots := make([]T, 0, len(items))
	for _, item := range items {
		pid := item.ParentID()
		if pid == 0 {
			roots = append(roots, item)
			continue
		}
		parent, ok := index[pid]
		if !ok {
			// Orphaned parent reference: surface the item instead of
			// losing it. Upstream pagination counts roots.
			roots = append(roots, item)
			continue
		}
		parent.AddChild(item)
	}

	return roots
}
