package content

// BranchDepth reports the list depth of c. branching is true when records or
// unions below c reach leaves at different depths; depth is then the
// shallowest one.
func BranchDepth(c Content) (branching bool, depth int) {
	switch x := c.(type) {
	case *Empty:
		return false, 1
	case *Numpy:
		return false, len(x.inner) + 1
	case *Regular, *List, *ListOffset:
		branching, depth = BranchDepth(NodeContent(c))
		return branching, depth + 1
	case *Indexed, *IndexedOption, *ByteMasked, *BitMasked, *Unmasked:
		return BranchDepth(NodeContent(c))
	case *Record:
		return branchDepthOf(x.contents)
	case *Union:
		return branchDepthOf(x.contents)
	default:
		return false, 1
	}
}

func branchDepthOf(contents []Content) (bool, int) {
	if len(contents) == 0 {
		return false, 1
	}
	anyBranch, minDepth := BranchDepth(contents[0])
	for _, c := range contents[1:] {
		branch, depth := BranchDepth(c)
		if branch || depth != minDepth {
			anyBranch = true
		}
		minDepth = min(minDepth, depth)
	}
	return anyBranch, minDepth
}
