package season

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReferenceYearRoundTrip(t *testing.T) {
	for _, y := range []int{1999, 2000, 2009, 2020, 2099} {
		s := FromYear(y)
		if got := s.ReferenceYear(); got != y {
			t.Errorf("FromYear(%d).ReferenceYear() = %d", y, got)
		}
		parsed, err := Parse(s.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", s.String(), err)
		}
		if parsed.ReferenceYear() != y {
			t.Errorf("Parse(%q).ReferenceYear() = %d; want %d", s.String(), parsed.ReferenceYear(), y)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2020, "2020/21"},
		{1999, "1999/00"},
		{2009, "2009/10"},
	}
	for _, tt := range tests {
		if got := FromYear(tt.year).String(); got != tt.want {
			t.Errorf("FromYear(%d).String() = %q; want %q", tt.year, got, tt.want)
		}
	}
}

func TestForDateBoundary(t *testing.T) {
	before := ForDate(date(2021, time.May, 31))
	after := ForDate(date(2021, time.June, 1))

	if before.String() != "2020/21" {
		t.Errorf("May 31: got %s, want 2020/21", before)
	}
	if after.String() != "2021/22" {
		t.Errorf("Jun 1: got %s, want 2021/22", after)
	}
	if after.ReferenceYear()-before.ReferenceYear() != 1 {
		t.Errorf("seasons around the boundary must be adjacent: %s vs %s", before, after)
	}
}

func TestForDate(t *testing.T) {
	tests := []struct {
		d    time.Time
		want string
	}{
		{date(2021, time.January, 1), "2020/21"},
		{date(2021, time.December, 31), "2021/22"},
		{date(2022, time.August, 6), "2022/23"},
	}
	for _, tt := range tests {
		if got := ForDate(tt.d).String(); got != tt.want {
			t.Errorf("ForDate(%s) = %s; want %s", tt.d.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"2020/21", 2020, false},
		{" 2020 / 21 ", 2020, false},
		{"2020/2021", 2020, false},
		{"2020-2021", 2020, false},
		{"2020", 2020, false},
		{"1999/00", 1999, false},
		{"2020/22", 0, true},
		{"2020-2022", 0, true},
		{"twenty", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidLabel) {
				t.Errorf("Parse(%q): expected ErrInvalidLabel, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got.ReferenceYear() != tt.want {
			t.Errorf("Parse(%q) = %d; want %d", tt.in, got.ReferenceYear(), tt.want)
		}
	}
}

func TestResolveMatchDate(t *testing.T) {
	s := MustParse("2020/21")
	tests := []struct {
		raw  string
		want string
	}{
		{"Mar 14", "2021-03-14"},
		{"Sa 14 Mar", "2021-03-14"},
		{"Aug 22", "2020-08-22"},
		{"Jun 5", "2020-06-05"},
		{"May 23", "2021-05-23"},
		{"Jan 2", "2021-01-02"},
		{"Dec 26", "2020-12-26"},
	}
	for _, tt := range tests {
		got, err := ResolveMatchDate(tt.raw, s)
		if err != nil {
			t.Errorf("ResolveMatchDate(%q): %v", tt.raw, err)
			continue
		}
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("ResolveMatchDate(%q) = %s; want %s", tt.raw, got.Format("2006-01-02"), tt.want)
		}
		if ForDate(got) != s {
			t.Errorf("ResolveMatchDate(%q) landed in season %s", tt.raw, ForDate(got))
		}
	}
}

func TestResolveMatchDateFailures(t *testing.T) {
	s := MustParse("2020/21")
	for _, raw := range []string{"Foo 14", "Mar", "", "Feb 30"} {
		if _, err := ResolveMatchDate(raw, s); !errors.Is(err, ErrDateParse) {
			t.Errorf("ResolveMatchDate(%q): expected ErrDateParse, got %v", raw, err)
		}
	}
}

func TestRange(t *testing.T) {
	got := Range(FromYear(2019), FromYear(2021))
	if len(got) != 3 || got[0].StartYear != 2019 || got[2].StartYear != 2021 {
		t.Errorf("Range: got %v", got)
	}
	if Range(FromYear(2021), FromYear(2019)) != nil {
		t.Error("reversed Range should be empty")
	}
	last := LastN(FromYear(2021), 4)
	if len(last) != 4 || last[0].StartYear != 2021 || last[3].StartYear != 2018 {
		t.Errorf("LastN: got %v", last)
	}
}

func TestTextMarshalling(t *testing.T) {
	b, err := FromYear(2021).MarshalText()
	if err != nil || string(b) != "2021/22" {
		t.Fatalf("MarshalText: %q, %v", b, err)
	}
	var s Season
	if err := s.UnmarshalText([]byte("2018/19")); err != nil {
		t.Fatal(err)
	}
	if s.StartYear != 2018 {
		t.Errorf("UnmarshalText: got %d", s.StartYear)
	}
}
