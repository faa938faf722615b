package sfcparse

// resolveReferences implements spec §4.8: a single depth-first pass over
// the document fragment binding every Reference to the nearest ancestor
// ElementVariable sharing its identifier's name. It never mutates
// expression ASTs beyond the Reference.Variable back-pointer (and the
// variable's own References list).
func resolveReferences(frag *VDocumentFragment) {
	var stack []*VElement
	var walk func(nodes []TemplateNode)
	walk = func(nodes []TemplateNode) {
		for _, n := range nodes {
			switch v := n.(type) {
			case *VElement:
				resolveAttributes(v, stack)
				stack = append(stack, v)
				walk(v.Children)
				stack = stack[:len(stack)-1]
			case *VExpressionContainer:
				resolveContainer(v, stack)
			case *VText:
				// no references
			}
		}
	}
	for _, el := range frag.Children {
		resolveAttributes(el, nil)
		stack = append(stack, el)
		walk(el.Children)
		stack = stack[:len(stack)-1]
	}
}

func resolveAttributes(el *VElement, ancestors []*VElement) {
	if el.StartTag == nil {
		return
	}
	for _, attr := range el.StartTag.Attributes {
		if !attr.Directive {
			continue
		}
		if attr.DirectiveValue != nil {
			resolveContainer(attr.DirectiveValue, ancestors)
		}
		if attr.DirectiveKey != nil {
			if argContainer, ok := attr.DirectiveKey.Argument.(*VExpressionContainer); ok {
				resolveContainer(argContainer, ancestors)
			}
		}
	}
}

// resolveContainer binds every reference in c against ancestors, nearest
// first (last element in the slice is the immediate parent).
func resolveContainer(c *VExpressionContainer, ancestors []*VElement) {
	for _, ref := range c.References {
		if ref.Variable != nil {
			continue
		}
		for i := len(ancestors) - 1; i >= 0; i-- {
			if v := findVariable(ancestors[i], ref); v != nil {
				ref.Variable = v
				v.References = append(v.References, ref)
				break
			}
		}
	}
}

func findVariable(el *VElement, ref *Reference) *ElementVariable {
	name := identifierName(ref.Id)
	if name == "" {
		return nil
	}
	for _, v := range el.Variables {
		if v.Id != nil && v.Id.Name == name {
			return v
		}
	}
	return nil
}

func identifierName(n *ESNode) string {
	if n == nil {
		return ""
	}
	return n.Name
}
