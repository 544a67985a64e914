package syntax

// Inspect traverses the tree rooted at n in depth-first, source order.
// It calls f(n) for each node; if f returns true, Inspect descends into
// the node's children. Nil children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children() {
		Inspect(c, f)
	}
}
