package scene

// historyLimit caps the number of retained snapshots; pushing beyond
// it drops the oldest.
const historyLimit = 30

// History keeps bounded deep-copy snapshots of a scene for undo and
// redo. It is in-memory only and not safe for concurrent use.
type History struct {
	past   []*Scene
	future []*Scene
}

// Push records the current state before a mutation. It clears any
// redo states.
func (h *History) Push(s *Scene) {
	h.past = append(h.past, s.Clone())
	if len(h.past) > historyLimit {
		h.past = h.past[len(h.past)-historyLimit:]
	}
	h.future = h.future[:0]
}

// Undo trades the current state for the most recent snapshot. ok is
// false when there is nothing to undo.
func (h *History) Undo(cur *Scene) (restored *Scene, ok bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	h.future = append(h.future, cur.Clone())
	restored = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return restored, true
}

// Redo reverses the most recent Undo. ok is false when there is
// nothing to redo.
func (h *History) Redo(cur *Scene) (restored *Scene, ok bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	h.past = append(h.past, cur.Clone())
	restored = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return restored, true
}

// Len returns the number of undoable snapshots.
func (h *History) Len() int { return len(h.past) }
