package grid

import "sort"

// NotApplicable marks a shift that has no collaborator assigned on purpose.
// Autocomplete skips posts carrying it.
const NotApplicable = "N/A"

// DefaultAutocompleteValue is stamped by Autocomplete when no value is given.
const DefaultAutocompleteValue = 10

// Change is the uncommitted edit state of one post.
type Change struct {
	PostID        int64
	Collaborators map[Shift]string
	Ratings       Ratings
}

// Collaborator returns the pending collaborator for shift, if edited.
func (c *Change) Collaborator(shift Shift) (string, bool) {
	if c == nil || c.Collaborators == nil {
		return "", false
	}
	name, ok := c.Collaborators[shift]
	return name, ok
}

func (c *Change) clone() Change {
	out := Change{PostID: c.PostID, Ratings: c.Ratings.Clone()}
	if len(c.Collaborators) > 0 {
		out.Collaborators = make(map[Shift]string, len(c.Collaborators))
		for k, v := range c.Collaborators {
			out.Collaborators[k] = v
		}
	}
	return out
}

// PendingMap accumulates edits per post until they are saved. It seeds each
// post's change from the loaded snapshot so that editing one column never
// drops ratings recorded under another shift. Not safe for concurrent use.
type PendingMap struct {
	snapshot Snapshot
	changes  map[int64]*Change
}

// NewPendingMap builds an empty map bound to snapshot.
func NewPendingMap(snapshot Snapshot) *PendingMap {
	if snapshot == nil {
		snapshot = Snapshot{}
	}
	return &PendingMap{snapshot: snapshot, changes: make(map[int64]*Change)}
}

// Rebase swaps the seed snapshot, typically after a reload. Existing changes
// are kept.
func (m *PendingMap) Rebase(snapshot Snapshot) {
	if snapshot == nil {
		snapshot = Snapshot{}
	}
	m.snapshot = snapshot
}

func (m *PendingMap) touch(postID int64) *Change {
	if change, ok := m.changes[postID]; ok {
		return change
	}
	change := &Change{
		PostID:  postID,
		Ratings: m.snapshot.Post(postID).UnionRatings(),
	}
	m.changes[postID] = change
	return change
}

// SetRating updates the value at slot/clock, keeping any note. A nil value
// unsets the rating.
func (m *PendingMap) SetRating(postID int64, slot, clock string, value *int) {
	change := m.touch(postID)
	cell, _ := change.Ratings.Get(slot, clock)
	if value == nil {
		cell.Value = nil
	} else {
		v := *value
		cell.Value = &v
	}
	change.Ratings.Put(slot, clock, cell)
}

// SetNote updates the note at slot/clock, keeping any value. A nil or empty
// note removes it.
func (m *PendingMap) SetNote(postID int64, slot, clock string, note *string) {
	change := m.touch(postID)
	cell, _ := change.Ratings.Get(slot, clock)
	if note == nil || *note == "" {
		cell.Note = nil
	} else {
		n := *note
		cell.Note = &n
	}
	change.Ratings.Put(slot, clock, cell)
}

// SetCollaborator records the collaborator name for one shift of postID.
func (m *PendingMap) SetCollaborator(postID int64, shift Shift, name string) {
	change := m.touch(postID)
	if change.Collaborators == nil {
		change.Collaborators = make(map[Shift]string)
	}
	change.Collaborators[shift] = name
}

// MoveTime migrates the cell of slot from one clock key to another for every
// post holding one, pending or loaded. It returns the affected post ids.
func (m *PendingMap) MoveTime(slot, from, to string) []int64 {
	if from == to || from == "" {
		return nil
	}
	candidates := make(map[int64]struct{})
	for postID, change := range m.changes {
		if _, ok := change.Ratings.Get(slot, from); ok {
			candidates[postID] = struct{}{}
		}
	}
	for postID, records := range m.snapshot {
		if _, ok := records.UnionRatings().Get(slot, from); ok {
			candidates[postID] = struct{}{}
		}
	}
	moved := make([]int64, 0, len(candidates))
	for postID := range candidates {
		if m.touch(postID).Ratings.Move(slot, from, to) {
			moved = append(moved, postID)
		}
	}
	sort.Slice(moved, func(i, j int) bool { return moved[i] < moved[j] })
	return moved
}

// Autocomplete stamps value into column for every post in one pass,
// skipping posts whose collaborator is N/A on the record that would receive
// the rating. It returns the ids of posts that were updated.
func (m *PendingMap) Autocomplete(column Column, posts []Post, value int) []int64 {
	shift := column.EffectiveShift()
	updated := make([]int64, 0, len(posts))
	for _, post := range posts {
		target := routeShift(m.snapshot.Post(post.ID), shift)
		if m.collaborator(post.ID, target) == NotApplicable {
			continue
		}
		v := value
		m.SetRating(post.ID, column.Key, column.Time, &v)
		updated = append(updated, post.ID)
	}
	return updated
}

func (m *PendingMap) collaborator(postID int64, shift Shift) string {
	if change, ok := m.changes[postID]; ok {
		if name, edited := change.Collaborator(shift); edited {
			return name
		}
	}
	return m.snapshot.Post(postID).Collaborator(shift)
}

// Get returns a copy of the pending change of postID.
func (m *PendingMap) Get(postID int64) (Change, bool) {
	change, ok := m.changes[postID]
	if !ok {
		return Change{}, false
	}
	return change.clone(), true
}

// Has reports whether postID has pending edits.
func (m *PendingMap) Has(postID int64) bool {
	_, ok := m.changes[postID]
	return ok
}

// All returns copies of every pending change ordered by post id.
func (m *PendingMap) All() []Change {
	out := make([]Change, 0, len(m.changes))
	for _, change := range m.changes {
		out = append(out, change.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostID < out[j].PostID })
	return out
}

// Len returns the number of posts with pending edits.
func (m *PendingMap) Len() int {
	return len(m.changes)
}

// Clear drops the pending changes of postIDs, or of every post when none are given.
func (m *PendingMap) Clear(postIDs ...int64) {
	if len(postIDs) == 0 {
		m.changes = make(map[int64]*Change)
		return
	}
	for _, id := range postIDs {
		delete(m.changes, id)
	}
}
