package analytics

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// fakeSource serves snapshots from a map; missing ids are unknown.
type fakeSource struct {
	snaps map[string]*Snapshot
	err   error // non-nil forces a hard failure
}

func (f *fakeSource) CreatorSnapshot(_ context.Context, id string) (*Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snap, ok := f.snaps[id]
	if !ok {
		return nil, ErrUnknownCreator
	}
	return snap, nil
}

func snapshotWith(id, handle string, followers int, videos ...Video) *Snapshot {
	return &Snapshot{
		Creator: Creator{ID: id, Handle: handle, FollowerCount: followers},
		Videos:  videos,
	}
}

func TestCompareSkipsUnknownIDs(t *testing.T) {
	// 3 valid ids plus 1 unknown: 3 rows in original relative order,
	// unknown recorded, call succeeds.
	src := &fakeSource{snaps: map[string]*Snapshot{
		"cr_a": snapshotWith("cr_a", "alice", 100),
		"cr_b": snapshotWith("cr_b", "bob", 200),
		"cr_c": snapshotWith("cr_c", "carol", 300),
	}}
	result, err := Compare(context.Background(), src, []string{"cr_a", "cr_missing", "cr_b", "cr_c"})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(result.Creators) != 3 {
		t.Fatalf("rows: got %d, want 3", len(result.Creators))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if result.Creators[i].Handle != want {
			t.Errorf("row %d: got %s, want %s", i, result.Creators[i].Handle, want)
		}
	}
	if !reflect.DeepEqual(result.Skipped, []string{"cr_missing"}) {
		t.Errorf("skipped: got %v", result.Skipped)
	}
}

func TestCompareHardFailure(t *testing.T) {
	boom := errors.New("db unreachable")
	src := &fakeSource{err: boom}
	_, err := Compare(context.Background(), src, []string{"cr_a"})
	if !errors.Is(err, boom) {
		t.Errorf("want wrapped hard failure, got %v", err)
	}
}

func TestCompareFewerThanTwoResolved(t *testing.T) {
	// All ids unknown: degenerate empty result, no error.
	src := &fakeSource{snaps: map[string]*Snapshot{}}
	result, err := Compare(context.Background(), src, []string{"x", "y"})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(result.Creators) != 0 || len(result.Skipped) != 2 {
		t.Errorf("degenerate result: %+v", result)
	}
}

func TestCompareRowAverages(t *testing.T) {
	day := func(d int) int64 { return time.Date(2025, 5, d, 12, 0, 0, 0, time.UTC).UnixMilli() }
	src := &fakeSource{snaps: map[string]*Snapshot{
		"cr_a": snapshotWith("cr_a", "alice", 5000,
			Video{Views: 1000, Likes: 80, Comments: 20, PostedAt: day(1)},
			Video{Views: 3000, Likes: 240, Comments: 60, PostedAt: day(11)},
		),
	}}
	result, err := Compare(context.Background(), src, []string{"cr_a"})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	row := result.Creators[0]
	if row.AvgViews != 2000 || row.AvgLikes != 160 || row.AvgComments != 40 {
		t.Errorf("averages: %+v", row)
	}
	if row.AvgEngagementRate != 10.0 {
		t.Errorf("rate: got %v, want 10.0", row.AvgEngagementRate)
	}
	// 2 dated posts over 10 days.
	if row.PostingFrequency != 0.2 {
		t.Errorf("frequency: got %v, want 0.2", row.PostingFrequency)
	}
}

func TestCompareSingleDatedVideoHasZeroFrequency(t *testing.T) {
	// One dated post defines no span, so frequency stays 0.
	src := &fakeSource{snaps: map[string]*Snapshot{
		"cr_a": snapshotWith("cr_a", "alice", 10,
			Video{Views: 100, Likes: 10, PostedAt: time.Now().UnixMilli()},
			Video{Views: 100, Likes: 10},
		),
	}}
	result, _ := Compare(context.Background(), src, []string{"cr_a"})
	if got := result.Creators[0].PostingFrequency; got != 0 {
		t.Errorf("frequency: got %v, want 0", got)
	}
}

func TestCompareEmptySnapshotRow(t *testing.T) {
	src := &fakeSource{snaps: map[string]*Snapshot{
		"cr_a": snapshotWith("cr_a", "alice", 77),
	}}
	result, _ := Compare(context.Background(), src, []string{"cr_a"})
	row := result.Creators[0]
	if row.TotalVideos != 0 || row.AvgViews != 0 || row.AvgEngagementRate != 0 {
		t.Errorf("empty creator row: %+v", row)
	}
	if row.FollowerCount != 77 {
		t.Errorf("follower count lost: %+v", row)
	}
}

func TestCompareIdempotent(t *testing.T) {
	src := &fakeSource{snaps: map[string]*Snapshot{
		"cr_a": snapshotWith("cr_a", "alice", 100, Video{Views: 900, Likes: 45}),
		"cr_b": snapshotWith("cr_b", "bob", 200, Video{Views: 100, Likes: 45}),
	}}
	ids := []string{"cr_b", "cr_a"}
	first, err := Compare(context.Background(), src, ids)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	second, _ := Compare(context.Background(), src, ids)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recompute differs: %+v vs %+v", first, second)
	}
	if first.Creators[0].Handle != "bob" {
		t.Errorf("caller order not preserved: %+v", first.Creators)
	}
}
