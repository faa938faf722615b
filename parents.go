package sfcparse

// setParents populates the weak Parent back-pointer on every VElement,
// in a second pass after the whole fragment has been constructed (spec
// §3's "cross-node back-pointers are populated lazily after the forward
// construction of the node completes, so construction is acyclic").
func setParents(frag *VDocumentFragment) {
	for _, el := range frag.Children {
		el.Parent = frag
		setChildParents(el)
	}
}

func setChildParents(el *VElement) {
	for _, c := range el.Children {
		if child, ok := c.(*VElement); ok {
			child.Parent = el
			setChildParents(child)
		}
	}
}
