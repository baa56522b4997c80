package entities

import "testing"

// TestTierForCount verifies the tier thresholds over the whole relevant range.
func TestTierForCount(t *testing.T) {
	cases := []struct {
		count int
		tier  int
	}{
		{0, 0},
		{1, 1}, {4, 1},
		{5, 2}, {9, 2},
		{10, 3}, {14, 3},
		{15, 4}, {19, 4},
		{20, 5}, {100, 5},
	}
	for _, c := range cases {
		if got := TierForCount(c.count); got != c.tier {
			t.Errorf("TierForCount(%d) = %d, want %d", c.count, got, c.tier)
		}
	}

	// Re-deriving the tier from the count must be stable for every count.
	for count := 0; count <= 50; count++ {
		first := TierForCount(count)
		if again := TierForCount(count); again != first {
			t.Fatalf("TierForCount(%d) not deterministic: %d then %d", count, first, again)
		}
	}
}

// TestBadgeForLevel checks that every tier has a label and out-of-range
// levels fall back to the no-badge label.
func TestBadgeForLevel(t *testing.T) {
	if got := BadgeForLevel(1); got != "--- Recensore ---" {
		t.Errorf("BadgeForLevel(1) = %q", got)
	}
	if got := BadgeForLevel(0); got != "Nessun distintivo" {
		t.Errorf("BadgeForLevel(0) = %q", got)
	}
	if got := BadgeForLevel(42); got != "Nessun distintivo" {
		t.Errorf("BadgeForLevel(42) = %q", got)
	}
}

// TestHotelKeyRoundTrip verifies key construction survives hotel names that
// contain underscores and spaces.
func TestHotelKeyRoundTrip(t *testing.T) {
	cases := []struct{ name, city string }{
		{"Hotel Roma 1", "Roma"},
		{"Grand_Hotel", "Torino"},
		{"B&B", "Milano"},
	}
	for _, c := range cases {
		key := HotelKey(c.name, c.city)
		name, city := SplitHotelKey(key)
		if name != c.name || city != c.city {
			t.Errorf("SplitHotelKey(HotelKey(%q, %q)) = (%q, %q)", c.name, c.city, name, city)
		}
	}
}

// TestStatusStrings pins the protocol tags, they are part of the wire format.
func TestStatusStrings(t *testing.T) {
	if StatusNotLogged.String() != "USER_NOT_LOGGED" ||
		StatusLogged.String() != "USER_LOGGED" ||
		StatusExit.String() != "EXIT" {
		t.Errorf("unexpected status tags: %s %s %s", StatusNotLogged, StatusLogged, StatusExit)
	}
}
