package queue

import "testing"

func tracks(paths ...string) []Track {
	out := make([]Track, len(paths))
	for i, p := range paths {
		out[i] = Track{Title: p, Path: p}
	}
	return out
}

func TestNextPreviousWrap(t *testing.T) {
	q := New(tracks("a", "b", "c"))

	for _, want := range []string{"b", "c", "a", "b"} {
		if got := q.Next(); got == nil || got.Path != want {
			t.Fatalf("Next() = %v, want %s", got, want)
		}
	}
	for _, want := range []string{"a", "c", "b"} {
		if got := q.Previous(); got == nil || got.Path != want {
			t.Fatalf("Previous() = %v, want %s", got, want)
		}
	}
	if q.CurrentIndex() != 1 {
		t.Fatalf("expected index 1, got %d", q.CurrentIndex())
	}
}

func TestEmptyQueue(t *testing.T) {
	q := New(nil)
	if q.Current() != nil || q.Next() != nil || q.Previous() != nil {
		t.Fatal("expected nil tracks from an empty queue")
	}
	q.SetCurrentIndex(3)
	if q.CurrentIndex() != 0 {
		t.Fatalf("expected index to stay 0, got %d", q.CurrentIndex())
	}
}

func TestSingleTrackWrapsToItself(t *testing.T) {
	q := New(tracks("only"))
	if got := q.Next(); got.Path != "only" || q.CurrentIndex() != 0 {
		t.Fatalf("unexpected next %v at %d", got, q.CurrentIndex())
	}
}

func TestReplaceKeepsCurrentByPath(t *testing.T) {
	q := New(tracks("a", "b", "c"))
	q.SetCurrentIndex(1)
	q.SetTrackState(1, Playing)

	if !q.Replace(tracks("0", "a", "b", "c")) {
		t.Fatal("expected current track to survive")
	}
	cur := q.Current()
	if q.CurrentIndex() != 2 || cur.Path != "b" || cur.State != Playing {
		t.Fatalf("unexpected current %#v at %d", cur, q.CurrentIndex())
	}
}

func TestReplaceClampsWhenCurrentRemoved(t *testing.T) {
	q := New(tracks("a", "b", "c"))
	q.SetCurrentIndex(2)

	if q.Replace(tracks("a")) {
		t.Fatal("expected current track to be gone")
	}
	if q.CurrentIndex() != 0 || q.Current().Path != "a" {
		t.Fatalf("unexpected cursor %d", q.CurrentIndex())
	}

	q.Replace(nil)
	if q.Current() != nil || q.CurrentIndex() != 0 {
		t.Fatal("expected empty queue after replace with nil")
	}
}

func TestTracksReturnsCopy(t *testing.T) {
	q := New(tracks("a"))
	got := q.Tracks()
	got[0].Path = "changed"
	if q.Track(0).Path != "a" {
		t.Fatal("Tracks() must not alias the queue")
	}
	if q.Track(-1) != nil || q.Track(1) != nil {
		t.Fatal("expected nil for out-of-range tracks")
	}
}
