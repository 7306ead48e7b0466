package schedule

import (
	"testing"
	"time"
)

// fixedNormalizer returns a normalizer whose clock is pinned so the
// next-day anchoring is deterministic.
func fixedNormalizer(t *testing.T, defaultZone string, now time.Time) *Normalizer {
	t.Helper()
	n := NewNormalizer(defaultZone)
	n.now = func() time.Time { return now }
	return n
}

func TestNormalizerAllDayEndpoint(t *testing.T) {
	n := NewNormalizer("")

	stamp, err := n.Endpoint(Endpoint{Date: "2026-09-01"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stamp.Date != "2026-09-01" {
		t.Errorf("expected date to pass through unchanged, got %q", stamp.Date)
	}
	if stamp.DateTime != "" || stamp.TimeZone != "" {
		t.Errorf("all-day stamp must not carry a datetime or timezone: %+v", stamp)
	}
}

func TestNormalizerAllDayMalformedDate(t *testing.T) {
	n := NewNormalizer("")

	tests := []string{
		"",
		"tomorrow",
		"2026/09/01",
		"09-01-2026",
		"2026-9-1",
		"2026-13-01",
		"2026-02-30",
	}

	for _, date := range tests {
		t.Run(date, func(t *testing.T) {
			_, err := n.Endpoint(Endpoint{Date: date}, true)
			if err == nil {
				t.Fatalf("expected error for date %q", date)
			}
			if !IsMalformedTime(err) {
				t.Errorf("expected MalformedTimeError, got %T: %v", err, err)
			}
		})
	}
}

func TestNormalizerTimedEndpointAnchorsTomorrow(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatal(err)
	}

	// 10pm on March 14th: a request for "5pm" must land on the 15th, not
	// be scheduled into the past.
	now := time.Date(2026, 3, 14, 22, 0, 0, 0, la)
	n := fixedNormalizer(t, "", now)

	stamp, err := n.Endpoint(Endpoint{Time: "17:00:00", TimeZone: "America/Los_Angeles"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 15, 17, 0, 0, 0, la).Format(time.RFC3339)
	if stamp.DateTime != want {
		t.Errorf("expected %s, got %s", want, stamp.DateTime)
	}
	if stamp.TimeZone != "America/Los_Angeles" {
		t.Errorf("expected timezone to be kept, got %q", stamp.TimeZone)
	}
	if stamp.Date != "" {
		t.Errorf("timed stamp must not carry a bare date, got %q", stamp.Date)
	}
}

func TestNormalizerTimedEndpointDefaultZone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	n := fixedNormalizer(t, "Europe/Berlin", now)

	stamp, err := n.Endpoint(Endpoint{Time: "09:30:00"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stamp.TimeZone != "Europe/Berlin" {
		t.Errorf("expected default zone Europe/Berlin, got %q", stamp.TimeZone)
	}

	want := time.Date(2026, 9, 2, 9, 30, 0, 0, berlin).Format(time.RFC3339)
	if stamp.DateTime != want {
		t.Errorf("expected %s, got %s", want, stamp.DateTime)
	}
}

func TestNormalizerTimedEndpointAnchorsInEndpointZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatal(err)
	}

	// 6pm UTC on the 1st is already the 2nd in Tokyo, so tomorrow there
	// is the 3rd.
	now := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	n := fixedNormalizer(t, "", now)

	stamp, err := n.Endpoint(Endpoint{Time: "10:00:00", TimeZone: "Asia/Tokyo"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 9, 3, 10, 0, 0, 0, tokyo).Format(time.RFC3339)
	if stamp.DateTime != want {
		t.Errorf("expected %s, got %s", want, stamp.DateTime)
	}
}

func TestNormalizerTimedMalformedInputs(t *testing.T) {
	n := NewNormalizer("")

	tests := []struct {
		name string
		ep   Endpoint
	}{
		{name: "empty time", ep: Endpoint{}},
		{name: "missing seconds", ep: Endpoint{Time: "17:00"}},
		{name: "words", ep: Endpoint{Time: "five pm"}},
		{name: "out of range hour", ep: Endpoint{Time: "25:00:00"}},
		{name: "unknown timezone", ep: Endpoint{Time: "17:00:00", TimeZone: "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Endpoint(tt.ep, false)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !IsMalformedTime(err) {
				t.Errorf("expected MalformedTimeError, got %T: %v", err, err)
			}
		})
	}
}

func TestNormalizerSpec(t *testing.T) {
	n := NewNormalizer("")

	spec := Spec{
		Summary: "Offsite",
		AllDay:  true,
		Start:   Endpoint{Date: "2026-09-01"},
		End:     Endpoint{Date: "2026-09-03"},
	}

	start, end, err := n.Spec(&spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Date != "2026-09-01" {
		t.Errorf("unexpected start %+v", start)
	}
	// The normalizer never applies the exclusive-end adjustment itself.
	if end.Date != "2026-09-03" {
		t.Errorf("expected end date to pass through unchanged, got %q", end.Date)
	}
}

func TestNormalizerSpecPropagatesEndpointError(t *testing.T) {
	n := NewNormalizer("")

	spec := Spec{
		Summary: "Offsite",
		AllDay:  true,
		Start:   Endpoint{Date: "2026-09-01"},
		End:     Endpoint{Date: "not-a-date"},
	}

	if _, _, err := n.Spec(&spec); err == nil {
		t.Fatal("expected error for malformed end date")
	}
}
