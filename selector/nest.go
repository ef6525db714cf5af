package selector

import "fmt"

// Append concatenates each member of next onto each member of prev
// without a descendant combinator (`a, b` + `.c` -> `a.c, b.c`). When
// next starts with an explicit combinator the chain is kept as-is.
// Members referencing `&` are rejected.
func Append(prev, next List) (List, error) {
	var out List
	for _, p := range prev.Members {
		if len(p.Segments) == 0 {
			continue
		}
		for _, n := range next.Members {
			if n.HasParent() {
				return List{}, fmt.Errorf("can't append %q: parent selector not allowed here", n.String())
			}
			if len(n.Segments) == 0 {
				continue
			}
			segs := append([]Segment(nil), p.Segments...)
			if first := n.Segments[0]; first.Combinator == Descendant {
				last := &segs[len(segs)-1]
				last.Compound = merge(last.Compound, first.Compound)
				segs = append(segs, n.Segments[1:]...)
			} else {
				segs = append(segs, n.Segments...)
			}
			cx := Complex{Segments: segs}
			if !out.Contains(cx) {
				out.Members = append(out.Members, cx)
			}
		}
	}
	return out, nil
}

// Resolve flattens a nested rule's selector list against its
// ancestor's already-flattened list: the result is the cartesian
// product of ancestor and child members, substituting `&` where the
// child references it and descendant-combining otherwise. Each child
// member expands against every ancestor member before the next child
// member is considered, and exact-text duplicates are merged.
func Resolve(parent, child List) List {
	if parent.IsEmpty() {
		return child
	}
	var out List
	for _, c := range child.Members {
		if c.HasParent() {
			for _, p := range parent.Members {
				cx := substituteParent(c, p)
				if !out.Contains(cx) {
					out.Members = append(out.Members, cx)
				}
			}
			continue
		}
		for _, p := range parent.Members {
			cx := Complex{Segments: append(append([]Segment(nil), p.Segments...), c.Segments...)}
			if !out.Contains(cx) {
				out.Members = append(out.Members, cx)
			}
		}
	}
	return out
}

// substituteParent replaces every `&` in child with the parent
// complex selector. When `&` shares a compound with other simples
// (`&.active`), the parent's final compound absorbs them.
func substituteParent(child, parent Complex) Complex {
	var out Complex
	for _, seg := range child.Segments {
		if !seg.Compound.HasParent() {
			out.Segments = append(out.Segments, seg)
			continue
		}
		rest := seg.Compound.without(Compound{Simples: []Simple{{Kind: Parent}}})
		n := len(parent.Segments)
		for i, pseg := range parent.Segments {
			ps := pseg
			if i == 0 {
				// the child's combinator survives in front of the
				// spliced parent
				ps.Combinator = seg.Combinator
			}
			if i == n-1 && !rest.IsEmpty() {
				ps.Compound = merge(ps.Compound, rest)
			}
			out.Segments = append(out.Segments, ps)
		}
	}
	return out
}
