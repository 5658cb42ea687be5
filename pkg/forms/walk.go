package forms

// Walk visits every node under root depth-first, groups in insertion order,
// arrays in index order. The visit callback receives the node's path relative
// to root; returning false stops the walk.
func Walk(root Container, visit func(path Path, node Node) bool) {
	if root == nil || visit == nil {
		return
	}
	walk(root, Path{}, visit)
}

func walk(node Node, path Path, visit func(Path, Node) bool) bool {
	if !visit(path, node) {
		return false
	}
	switch n := node.(type) {
	case *Group:
		for _, key := range n.Keys() {
			child, ok := n.Get(key)
			if !ok {
				continue
			}
			if !walk(child, path.Child(Name(key)), visit) {
				return false
			}
		}
	case *Array:
		for i := 0; i < n.Len(); i++ {
			child, ok := n.At(i)
			if !ok {
				continue
			}
			if !walk(child, path.Child(Index(i)), visit) {
				return false
			}
		}
	}
	return true
}
