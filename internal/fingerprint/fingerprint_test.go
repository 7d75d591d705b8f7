package fingerprint

import (
	"testing"
	"time"
)

func TestFingerprintKeyOrderIndependent(t *testing.T) {
	a := map[string]any{"lat": 14.7, "lon": -17.4, "sector": "agri"}
	b := map[string]any{"sector": "agri", "lon": -17.4, "lat": 14.7}

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatalf("Fingerprint(a): %v", err)
	}
	fb, err := Fingerprint(b)
	if err != nil {
		t.Fatalf("Fingerprint(b): %v", err)
	}
	if fa != fb {
		t.Errorf("fingerprints differ for key-reordered maps: %s vs %s", fa, fb)
	}
}

func TestFingerprintNestedKeyOrder(t *testing.T) {
	a := map[string]any{"outer": map[string]any{"x": 1, "y": 2}, "list": []any{1, 2}}
	b := map[string]any{"list": []any{1, 2}, "outer": map[string]any{"y": 2, "x": 1}}

	fa, _ := Fingerprint(a)
	fb, _ := Fingerprint(b)
	if fa != fb {
		t.Errorf("nested key order changed the fingerprint")
	}
}

func TestFingerprintArrayOrderSensitive(t *testing.T) {
	a := map[string]any{"events": []any{"first", "second"}}
	b := map[string]any{"events": []any{"second", "first"}}

	fa, _ := Fingerprint(a)
	fb, _ := Fingerprint(b)
	if fa == fb {
		t.Errorf("array reorder did not change the fingerprint")
	}
}

func TestFingerprintValueSensitive(t *testing.T) {
	a := map[string]any{"horizonDays": 10}
	b := map[string]any{"horizonDays": 9}

	fa, _ := Fingerprint(a)
	fb, _ := Fingerprint(b)
	if fa == fb {
		t.Errorf("different values produced the same fingerprint")
	}
}

func TestFingerprintStructAndMapAgree(t *testing.T) {
	type inputs struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	fa, err := Fingerprint(inputs{Lat: 1.5, Lon: 2.5})
	if err != nil {
		t.Fatalf("Fingerprint(struct): %v", err)
	}
	fb, _ := Fingerprint(map[string]any{"lon": 2.5, "lat": 1.5})
	if fa != fb {
		t.Errorf("struct and equivalent map produced different fingerprints")
	}
}

func TestFingerprintTimeCanonical(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	fa, err := Fingerprint(map[string]any{"at": ts})
	if err != nil {
		t.Fatalf("Fingerprint(time): %v", err)
	}
	fb, _ := Fingerprint(map[string]any{"at": "2025-01-02T03:04:05Z"})
	if fa != fb {
		t.Errorf("time.Time did not canonicalize to its RFC 3339 string")
	}
}

func TestFingerprintShape(t *testing.T) {
	f, err := Fingerprint(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if len(f) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(f))
	}
}
