package layout

// MoveRequest describes a drag of one placement to a drop index.
type MoveRequest struct {
	Placement Placement
	FromShelf string
	ToShelf   string
	ToIndex   int
}

// MoveBook moves a placement and returns the new layout together with the
// recomputed locations of every primary placement on the affected shelves.
//
// Within one shelf the placement ends up immediately before whatever sits at
// ToIndex before the move; an index at or past the end moves it last. A drop
// that leaves the order unchanged, or one naming an unknown shelf or
// placement, returns l itself and no locations.
func MoveBook(l *Layout, req MoveRequest) (*Layout, []Location) {
	from, ok := l.Shelves[req.FromShelf]
	if !ok {
		return l, nil
	}
	to, ok := l.Shelves[req.ToShelf]
	if !ok {
		return l, nil
	}
	current := indexOf(from.Placements, req.Placement)
	if current < 0 {
		return l, nil
	}

	remaining := make([]Placement, 0, len(from.Placements))
	remaining = append(remaining, from.Placements[:current]...)
	remaining = append(remaining, from.Placements[current+1:]...)

	next := l.clone()
	if req.FromShelf == req.ToShelf {
		idx := clamp(req.ToIndex, 0, len(from.Placements))
		if current < idx {
			idx--
		}
		if idx == current {
			return l, nil
		}
		next.Shelves[req.FromShelf] = Shelf{ID: from.ID, Placements: insertAt(remaining, idx, req.Placement)}
		return next, Locate(next, req.FromShelf)
	}

	idx := clamp(req.ToIndex, 0, len(to.Placements))
	next.Shelves[req.FromShelf] = Shelf{ID: from.ID, Placements: remaining}
	next.Shelves[req.ToShelf] = Shelf{ID: to.ID, Placements: insertAt(to.Placements, idx, req.Placement)}
	return next, Locate(next, req.FromShelf, req.ToShelf)
}

// MoveTo is MoveBook with the source shelf looked up from the layout.
func MoveTo(l *Layout, p Placement, toShelf string, toIndex int) (*Layout, []Location) {
	from, _, ok := l.Find(p)
	if !ok {
		return l, nil
	}
	return MoveBook(l, MoveRequest{Placement: p, FromShelf: from, ToShelf: toShelf, ToIndex: toIndex})
}

func indexOf(ps []Placement, p Placement) int {
	for i, q := range ps {
		if q == p {
			return i
		}
	}
	return -1
}

// insertAt returns a new slice with p inserted at i.
func insertAt(ps []Placement, i int, p Placement) []Placement {
	out := make([]Placement, 0, len(ps)+1)
	out = append(out, ps[:i]...)
	out = append(out, p)
	return append(out, ps[i:]...)
}
