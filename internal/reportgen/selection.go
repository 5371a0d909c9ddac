package reportgen

// Selection is the caller's module choice. It distinguishes a selection that
// was never given, which means every registry module in default order, from
// one that was given but is empty, which is rejected.
type Selection struct {
	ids      []string
	explicit bool
}

// OmittedSelection is the selection of a caller that did not choose modules.
func OmittedSelection() Selection { return Selection{} }

// Select is an explicit, ordered selection. Select() with no ids is an
// explicit empty selection.
func Select(ids ...string) Selection {
	cp := make([]string, len(ids))
	copy(cp, ids)
	return Selection{ids: cp, explicit: true}
}

// IsOmitted reports whether the caller left the selection out.
func (s Selection) IsOmitted() bool { return !s.explicit }

// IDs returns a copy of the explicitly selected ids, nil when omitted.
func (s Selection) IDs() []string {
	if !s.explicit {
		return nil
	}
	cp := make([]string, len(s.ids))
	copy(cp, s.ids)
	return cp
}
