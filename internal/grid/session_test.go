package grid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type loaderStub struct {
	src   Source
	err   error
	calls int
}

func (l *loaderStub) Load(ctx context.Context, businessID int64, date time.Time) (Source, error) {
	l.calls++
	if l.err != nil {
		return Source{}, l.err
	}
	return l.src, nil
}

var gridDate = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

func sessionFixture() *loaderStub {
	return &loaderStub{src: Source{
		Posts: []Post{
			{ID: 1, Name: "Gate", Active: true},
			{ID: 2, Name: "Lobby", Active: true},
			{ID: 3, Name: "Dock", Active: false},
		},
		Records: []Record{
			record(1, 1, ShiftDay, "Ana", ratingsOf("R1", "08:00", 9)),
			record(2, 2, ShiftDay, NotApplicable, nil),
		},
		Configurations: []Configuration{{ID: 1, StartDate: gridDate.AddDate(0, -1, 0), Counts: SlotCounts{Day: 2, Night: 1}}},
	}}
}

func openSession(t *testing.T, loader Loader, writer Writer) *Session {
	t.Helper()
	s := NewSession(loader, writer, SessionConfig{Concurrency: 2})
	require.NoError(t, s.Open(context.Background(), 5, gridDate))
	return s
}

func TestSessionOpenBuildsGrid(t *testing.T) {
	s := openSession(t, sessionFixture(), &writerStub{})

	assert.Equal(t, StateViewing, s.State())
	assert.Len(t, s.Posts(), 2)
	cols := s.Columns(ViewAll)
	require.Len(t, cols, 3)
	assert.Equal(t, "08:00", cols[0].Time)
	assert.Empty(t, cols[1].Time)
	assert.Len(t, s.Columns(ViewNight), 1)
	assert.Equal(t, int64(1), s.Records(1).Day.ID)
}

func TestSessionOpenFailureLeavesEmptyGrid(t *testing.T) {
	loader := sessionFixture()
	s := openSession(t, loader, &writerStub{})

	loader.err = errors.New("connection refused")
	err := s.ChangeDate(context.Background(), gridDate.AddDate(0, 0, 1), false)
	require.Error(t, err)
	assert.Empty(t, s.Posts())
	assert.Empty(t, s.Columns(ViewAll))
	assert.ErrorIs(t, s.StartEdit(), ErrNotLoaded)
}

func TestSessionEditsRequireEditMode(t *testing.T) {
	s := openSession(t, sessionFixture(), &writerStub{})

	assert.ErrorIs(t, s.SetRating(1, "R1", intPtr(5)), ErrNotEditing)
	require.NoError(t, s.StartEdit())
	assert.Equal(t, StateEditing, s.State())
	assert.NoError(t, s.SetRating(1, "R1", intPtr(5)))
	assert.ErrorIs(t, s.SetRating(1, "R2", intPtr(5)), ErrUnboundColumns)
	assert.ErrorIs(t, s.SetRating(1, "R9", intPtr(5)), ErrUnknownColumn)
	assert.ErrorIs(t, s.SetRating(1, "R1", intPtr(12)), ErrInvalidCell)
}

func TestSessionColumnTimeMigratesRatings(t *testing.T) {
	s := openSession(t, sessionFixture(), &writerStub{})
	require.NoError(t, s.StartEdit())

	require.NoError(t, s.SetColumnTime("R1", "09:00"))

	assert.Equal(t, "09:00", s.Columns(ViewAll)[0].Time)
	pending := s.Pending()
	require.Len(t, pending, 1)
	_, old := pending[0].Ratings.Get("R1", "08:00")
	_, moved := pending[0].Ratings.Get("R1", "09:00")
	assert.False(t, old)
	assert.True(t, moved)

	assert.Error(t, s.SetColumnTime("R2", "9am"))
	assert.ErrorIs(t, s.SetColumnTime("R2", "9:00"), ErrInvalidCell)
}

func TestSessionAutocompleteSkipsNotApplicable(t *testing.T) {
	s := openSession(t, sessionFixture(), &writerStub{})
	require.NoError(t, s.StartEdit())

	updated, err := s.Autocomplete("R1")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, updated)

	_, err = s.Autocomplete("R2")
	assert.ErrorIs(t, err, ErrUnboundColumns)
}

func TestSessionSaveSuccessClearsAndReloads(t *testing.T) {
	loader := sessionFixture()
	w := &writerStub{}
	s := openSession(t, loader, w)
	require.NoError(t, s.StartEdit())
	require.NoError(t, s.SetColumnTime("R2", "10:00"))
	require.NoError(t, s.SetColumnTime("R3", "23:00"))
	require.NoError(t, s.SetRating(1, "R1", intPtr(0)))

	result, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK())
	require.Len(t, w.updates, 1)
	assert.Equal(t, 0, *w.updates[0].Ratings["R1"]["08:00"].Value)
	assert.Empty(t, s.Pending())
	assert.Equal(t, StateViewing, s.State())
	assert.Equal(t, 2, loader.calls)
}

func TestSessionSaveFailureRetainsPending(t *testing.T) {
	loader := sessionFixture()
	w := &writerStub{fail: map[Shift]error{ShiftDay: errors.New("503")}}
	s := openSession(t, loader, w)
	require.NoError(t, s.StartEdit())
	require.NoError(t, s.SetColumnTime("R2", "10:00"))
	require.NoError(t, s.SetColumnTime("R3", "23:00"))
	require.NoError(t, s.SetRating(1, "R1", intPtr(7)))

	result, err := s.Save(context.Background())
	require.Error(t, err)
	assert.False(t, result.OK())
	assert.NotEmpty(t, s.Pending())
	assert.Equal(t, StateEditing, s.State())
	assert.False(t, s.Saving(1))
	assert.Equal(t, 1, loader.calls)
}

func TestSessionSaveBlockedByUnboundColumn(t *testing.T) {
	s := openSession(t, sessionFixture(), &writerStub{})
	require.NoError(t, s.StartEdit())
	require.NoError(t, s.SetRating(1, "R1", intPtr(7)))

	_, err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrUnboundColumns)
	assert.Equal(t, StateEditing, s.State())
	assert.Len(t, s.Pending(), 1)
}

func TestSessionNavigationGuard(t *testing.T) {
	s := openSession(t, sessionFixture(), &writerStub{})
	require.NoError(t, s.StartEdit())
	require.NoError(t, s.SetColumnTime("R2", "10:00"))
	require.NoError(t, s.SetRating(2, "R1", intPtr(3)))

	assert.ErrorIs(t, s.Cancel(false), ErrUnsavedChanges)
	assert.ErrorIs(t, s.ChangeDate(context.Background(), gridDate.AddDate(0, 0, 1), false), ErrUnsavedChanges)
	assert.Equal(t, StateEditing, s.State())

	require.NoError(t, s.Cancel(true))
	assert.Equal(t, StateViewing, s.State())
	assert.Empty(t, s.Pending())
	assert.Empty(t, s.Columns(ViewAll)[1].Time)
}
