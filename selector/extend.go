package selector

import (
	"fmt"

	"go.uber.org/zap"
)

// extension is one recorded `@extend`: every selector of the
// extending rule joins any selector containing the target compound.
// Extender points at the live selector list of the extending rule so
// transitive extends propagate through the fixed point.
type extension struct {
	Target   Compound
	Extender *List
	Optional bool
	matched  bool
}

// ExtendTable collects the extensions of one compilation and applies
// them to the produced selector lists as an iterative fixed point.
type ExtendTable struct {
	exts []*extension
	log  *zap.Logger
}

// NewExtendTable returns an empty table.
func NewExtendTable(log *zap.Logger) *ExtendTable {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExtendTable{log: log.Named("extend")}
}

// Add records `@extend target` appearing in a rule whose live
// selector list is extender. The target must be a single compound
// selector.
func (t *ExtendTable) Add(target string, extender *List, optional bool) error {
	list, err := Parse(target)
	if err != nil {
		return err
	}
	if len(list.Members) != 1 || len(list.Members[0].Segments) != 1 {
		return fmt.Errorf("@extend target must be a single compound selector, got %q", target)
	}
	t.exts = append(t.exts, &extension{
		Target:   list.Members[0].Segments[0].Compound,
		Extender: extender,
		Optional: optional,
	})
	return nil
}

// Empty reports whether no extensions were recorded.
func (t *ExtendTable) Empty() bool { return len(t.exts) == 0 }

// Apply expands all recorded extensions over the given rule selector
// lists until no new selector is added. The worklist formulation
// terminates on cycles without special-casing them, and running Apply
// again is a no-op: only selectors whose exact text is absent are
// appended, in discovery order, never reordering existing members.
func (t *ExtendTable) Apply(lists []*List) error {
	if t.Empty() {
		return nil
	}
	for pass, changed := 0, true; changed; pass++ {
		changed = false
		for _, ext := range t.exts {
			for _, list := range lists {
				if t.applyOne(ext, list) {
					changed = true
				}
			}
		}
		t.log.Debug("extend pass complete", zap.Int("pass", pass))
	}
	for _, ext := range t.exts {
		if !ext.matched && !ext.Optional {
			return fmt.Errorf("the target selector %q was not found", ext.Target.String())
		}
	}
	return nil
}

// MissedOptional returns the optional extend targets that never
// matched, for warning collection.
func (t *ExtendTable) MissedOptional() []string {
	var out []string
	for _, ext := range t.exts {
		if !ext.matched && ext.Optional {
			out = append(out, ext.Target.String())
		}
	}
	return out
}

// applyOne appends the expansions of ext within list, reporting
// whether anything new was added.
func (t *ExtendTable) applyOne(ext *extension, list *List) bool {
	added := false
	// extensions never apply to the extender's own occurrence of the
	// target inside itself producing unbounded growth: the Contains
	// check bounds the expansion by selector text
	for i := 0; i < len(list.Members); i++ {
		member := list.Members[i]
		pos := -1
		for j, seg := range member.Segments {
			if seg.Compound.contains(ext.Target) {
				pos = j
				break
			}
		}
		if pos < 0 {
			continue
		}
		ext.matched = true
		for _, ex := range ext.Extender.Members {
			cx := substituteExtend(member, pos, ext.Target, ex)
			if !list.Contains(cx) {
				list.Members = append(list.Members, cx)
				added = true
			}
		}
	}
	return added
}

// substituteExtend rewrites member so that the extender selector
// takes the target's place at segment pos. Simples sharing the
// compound with the target are merged into the extender's final
// compound.
func substituteExtend(member Complex, pos int, target Compound, extender Complex) Complex {
	rest := member.Segments[pos].Compound.without(target)
	var out Complex
	out.Segments = append(out.Segments, member.Segments[:pos]...)
	n := len(extender.Segments)
	for i, seg := range extender.Segments {
		s := seg
		if i == 0 {
			s.Combinator = member.Segments[pos].Combinator
		}
		if i == n-1 && !rest.IsEmpty() {
			s.Compound = merge(s.Compound, rest)
		}
		out.Segments = append(out.Segments, s)
	}
	out.Segments = append(out.Segments, member.Segments[pos+1:]...)
	return out
}
