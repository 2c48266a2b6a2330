package alloc

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetAbsentIsZero(t *testing.T) {
	t.Parallel()

	var m Matrix
	k := Key{TimePoint: "t1", Project: "p1", Team: "a"}
	if got := m.Get(k); got != (Cell{}) {
		t.Errorf("Get on empty matrix = %+v, want zero", got)
	}
	if _, ok := m.Lookup(k); ok {
		t.Error("Lookup on empty matrix reported an entry")
	}

	m.Set(k, Cell{Occupied: 3, Prerelease: 1})
	if got := m.Get(k); got != (Cell{Occupied: 3, Prerelease: 1}) {
		t.Errorf("Get after Set = %+v", got)
	}
}

func TestSetReplacesWholesale(t *testing.T) {
	t.Parallel()

	m := New()
	k := Key{TimePoint: "t1", Project: "p1", Team: "a"}
	m.Set(k, Cell{Occupied: 5, Prerelease: 2})
	m.Set(k, Cell{Occupied: 1})
	if got := m.Get(k); got != (Cell{Occupied: 1}) {
		t.Errorf("Get = %+v, want {1 0}", got)
	}
	m.Set(k, Cell{Occupied: math.NaN(), Prerelease: math.Inf(1)})
	if got := m.Get(k); got != (Cell{}) {
		t.Errorf("non-finite Set stored %+v, want zero", got)
	}
}

func TestBulkReplaceDiscardsOld(t *testing.T) {
	t.Parallel()

	m := New()
	m.Set(Key{"old", "p", "a"}, Cell{Occupied: 9})
	m.BulkReplace(Nested{"t1": {"p1": {"a": {Occupied: 2, Prerelease: 5}}}})

	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	if _, ok := m.Lookup(Key{"old", "p", "a"}); ok {
		t.Error("old entry survived BulkReplace")
	}
	// Bulk replace is trusted: no clamping of prerelease > occupied.
	if got := m.Get(Key{"t1", "p1", "a"}); got != (Cell{Occupied: 2, Prerelease: 5}) {
		t.Errorf("Get = %+v, want {2 5}", got)
	}
}

func TestKeysOrdered(t *testing.T) {
	t.Parallel()

	m := New()
	m.Set(Key{"t2", "p1", "a"}, Cell{Occupied: 1})
	m.Set(Key{"t1", "p2", "a"}, Cell{Occupied: 1})
	m.Set(Key{"t1", "p1", "b"}, Cell{Occupied: 1})
	m.Set(Key{"t1", "p1", "a"}, Cell{Occupied: 1})

	want := []Key{
		{"t1", "p1", "a"},
		{"t1", "p1", "b"},
		{"t1", "p2", "a"},
		{"t2", "p1", "a"},
	}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"t1", "t2"}, m.TimePointIDs()); diff != "" {
		t.Errorf("TimePointIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIndependent(t *testing.T) {
	t.Parallel()

	m := New()
	k := Key{"t1", "p1", "a"}
	m.Set(k, Cell{Occupied: 4})
	c := m.Clone()
	c.Set(k, Cell{Occupied: 7})
	if got := m.Get(k).Occupied; got != 4 {
		t.Errorf("original changed through clone: occupied = %v", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	m := New()
	m.Set(Key{"time-1", "project-1", "team-1"}, Cell{Occupied: 4})
	m.Set(Key{"time-2", "project-1", "team-1"}, Cell{Occupied: 8, Prerelease: 2})
	m.Set(Key{"time-2", "project-4", "team-5"}, Cell{Occupied: 1.5, Prerelease: 0.5})
	m.Set(Key{"time-3", "project-5", "team-3"}, Cell{Occupied: 0.1 + 0.2})

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := New()
	if err := json.Unmarshal(data, got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if diff := cmp.Diff(m.Nested(), got.Nested()); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}

	again, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal again: %v", err)
	}
	if string(again) != string(data) {
		t.Errorf("re-encoding differs:\n%s\n%s", data, again)
	}
}

func TestDecodeNestedMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"array", `[1,2,3]`},
		{"string", `"matrix"`},
		{"number", `42`},
		{"empty", ``},
		{"cell not object", `{"t1":{"p1":{"a":5}}}`},
		{"project not object", `{"t1":{"p1":[]}}`},
		{"truncated", `{"t1":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeNested([]byte(tt.in))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("DecodeNested(%q) err = %v, want ErrMalformed", tt.in, err)
			}
		})
	}
}

func TestDecodeNestedNull(t *testing.T) {
	t.Parallel()

	n, err := DecodeNested([]byte(" null "))
	if err != nil {
		t.Fatalf("DecodeNested(null): %v", err)
	}
	if len(n) != 0 {
		t.Errorf("DecodeNested(null) = %v, want empty", n)
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"3", 3},
		{" 2.5 ", 2.5},
		{"-4", -4},
		{"abc", 0},
		{"", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		if got := ParseValue(tt.in); got != tt.want {
			t.Errorf("ParseValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseField(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Field{"occupied": Occupied, "P": Prerelease, " Prerelease": Prerelease} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseField("both"); err == nil {
		t.Error("ParseField(both) succeeded, want error")
	}
}
