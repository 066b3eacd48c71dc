package grid

import (
	"sort"
	"time"
)

// Record is a persisted shift record (cumplido) for one post, date and shift.
type Record struct {
	ID           int64     `json:"id" db:"id_cumplido"`
	PostID       int64     `json:"post_id" db:"id_puesto"`
	Date         time.Time `json:"date" db:"fecha"`
	Shift        Shift     `json:"shift" db:"id_tipo_turno"`
	Collaborator string    `json:"collaborator" db:"nombre_colaborador"`
	Ratings      Ratings   `json:"ratings" db:"calificaciones"`
	Notes        string    `json:"notes" db:"observaciones"`
}

// PostRecords holds the loaded records of one post by category.
type PostRecords struct {
	Day    *Record `json:"day,omitempty"`
	ShiftB *Record `json:"shift_b,omitempty"`
	Night  *Record `json:"night,omitempty"`
}

// Get returns the record for shift, or nil.
func (p *PostRecords) Get(shift Shift) *Record {
	if p == nil {
		return nil
	}
	switch shift {
	case ShiftDay:
		return p.Day
	case ShiftB:
		return p.ShiftB
	case ShiftNight:
		return p.Night
	}
	return nil
}

func (p *PostRecords) set(rec *Record) {
	switch rec.Shift {
	case ShiftDay:
		p.Day = rec
	case ShiftB:
		p.ShiftB = rec
	case ShiftNight:
		p.Night = rec
	}
}

// Empty reports whether no record is loaded.
func (p *PostRecords) Empty() bool {
	return p == nil || (p.Day == nil && p.ShiftB == nil && p.Night == nil)
}

// Collaborator returns the collaborator recorded for shift.
func (p *PostRecords) Collaborator(shift Shift) string {
	if rec := p.Get(shift); rec != nil {
		return rec.Collaborator
	}
	return ""
}

// UnionRatings deep-merges the ratings of the day, shift B and night records.
func (p *PostRecords) UnionRatings() Ratings {
	union := Ratings{}
	if p == nil {
		return union
	}
	for _, shift := range Shifts {
		if rec := p.Get(shift); rec != nil {
			union.Merge(rec.Ratings)
		}
	}
	return union
}

// Snapshot is the loaded grid state indexed by post id.
type Snapshot map[int64]*PostRecords

// Post returns the records of postID, or nil.
func (s Snapshot) Post(postID int64) *PostRecords {
	return s[postID]
}

// UsedTimes lists the distinct clock times in use per slot label, sorted.
type UsedTimes map[string][]string

// IndexRecords groups records by post and shift and reconstructs the clock
// times in use per slot. Records with an unknown category are ignored; when
// two records share a post and category the later one wins.
func IndexRecords(records []Record) (Snapshot, UsedTimes) {
	snapshot := make(Snapshot)
	seen := make(map[string]map[string]struct{})
	for i := range records {
		rec := records[i]
		if !rec.Shift.Valid() {
			continue
		}
		if rec.Ratings == nil {
			rec.Ratings = Ratings{}
		}
		entry, ok := snapshot[rec.PostID]
		if !ok {
			entry = &PostRecords{}
			snapshot[rec.PostID] = entry
		}
		entry.set(&rec)
		for slot, times := range rec.Ratings {
			if _, ok := seen[slot]; !ok {
				seen[slot] = make(map[string]struct{})
			}
			for clock := range times {
				if clock != "" {
					seen[slot][clock] = struct{}{}
				}
			}
		}
	}
	used := make(UsedTimes, len(seen))
	for slot, set := range seen {
		times := make([]string, 0, len(set))
		for clock := range set {
			times = append(times, clock)
		}
		sort.Strings(times)
		used[slot] = times
	}
	return snapshot, used
}

// Post is the grid's view of a staffed position.
type Post struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	BusinessUnitID int64      `json:"business_unit_id"`
	BusinessUnit   string     `json:"business_unit"`
	Active         bool       `json:"active"`
	StartDate      *time.Time `json:"start_date,omitempty"`
}

// Visible reports whether the post is shown on the grid for date. Posts that
// already have records for the date stay visible regardless.
func (p Post) Visible(date time.Time, hasRecords bool) bool {
	if hasRecords {
		return true
	}
	if !p.Active {
		return false
	}
	if p.StartDate != nil && truncateDay(*p.StartDate).After(truncateDay(date)) {
		return false
	}
	return true
}

// VisiblePosts filters posts for date using the loaded snapshot.
func VisiblePosts(posts []Post, date time.Time, snapshot Snapshot) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Visible(date, !snapshot.Post(p.ID).Empty()) {
			out = append(out, p)
		}
	}
	return out
}

// Source is the raw data a grid is assembled from.
type Source struct {
	Posts          []Post
	Records        []Record
	Configurations []Configuration
}

// Grid is an assembled, display-ready grid for one business and date.
type Grid struct {
	Date          time.Time
	Configuration *Configuration
	Columns       []Column
	Posts         []Post
	Snapshot      Snapshot
}

// Assemble indexes the records, picks the applicable configuration, builds
// the columns with their time bindings and filters the visible posts.
func Assemble(date time.Time, src Source) Grid {
	snapshot, used := IndexRecords(src.Records)
	g := Grid{Date: truncateDay(date), Snapshot: snapshot}
	if cfg, ok := Applicable(src.Configurations, date); ok {
		g.Configuration = &cfg
		g.Columns = BindTimes(BuildColumns(cfg.Counts), used)
	}
	g.Posts = VisiblePosts(src.Posts, date, snapshot)
	return g
}
