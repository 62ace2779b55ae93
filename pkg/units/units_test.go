package units_test

import (
	"errors"
	"math"
	"testing"

	"github.com/kcalplan/kcalplan/pkg/units"
)

func TestConvert_RoundTrips(t *testing.T) {
	cases := []struct {
		name      string
		value     float64
		from, to  string
		tolerance float64
	}{
		{"kg via lb", 100, "kg", "lb", 0.1},
		{"cm via in", 180, "cm", "in", 0.01},
		{"kcal via kj", 2000, "kcal", "kj", 1},
		{"ml via oz", 500, "ml", "oz", 0.1},
		{"ml via l", 2500, "ml", "l", 0.001},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := units.Convert(tc.value, tc.from, tc.to)
			if err != nil {
				t.Fatalf("convert %s->%s: %v", tc.from, tc.to, err)
			}
			back, err := units.Convert(out, tc.to, tc.from)
			if err != nil {
				t.Fatalf("convert %s->%s: %v", tc.to, tc.from, err)
			}
			if math.Abs(back-tc.value) > tc.tolerance {
				t.Errorf("round trip %s->%s->%s: got %v, want %v ± %v",
					tc.from, tc.to, tc.from, back, tc.value, tc.tolerance)
			}
		})
	}
}

func TestConvert_KnownValues(t *testing.T) {
	cases := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{1, "kg", "lb", 2.20462},
		{2.54, "cm", "in", 1},
		{1, "kcal", "kj", 4.184},
		{1, "oz", "ml", 29.5735},
		{1, "l", "ml", 1000},
	}

	for _, tc := range cases {
		got, err := units.Convert(tc.value, tc.from, tc.to)
		if err != nil {
			t.Fatalf("convert %v %s->%s: %v", tc.value, tc.from, tc.to, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("convert %v %s->%s = %v, want %v", tc.value, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestConvert_UnknownUnit(t *testing.T) {
	if _, err := units.Convert(1, "stone", "kg"); !errors.Is(err, units.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
	if _, err := units.Convert(1, "kg", "furlong"); !errors.Is(err, units.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestConvert_KindMismatch(t *testing.T) {
	if _, err := units.Convert(1, "kg", "kcal"); !errors.Is(err, units.ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch, got %v", err)
	}
}

func TestHelpers(t *testing.T) {
	if got := units.KgToLb(1); math.Abs(got-2.20462) > 1e-9 {
		t.Errorf("KgToLb(1) = %v", got)
	}
	if got := units.LbToKg(units.KgToLb(80)); math.Abs(got-80) > 1e-9 {
		t.Errorf("LbToKg(KgToLb(80)) = %v", got)
	}
	if got := units.KJToKcal(units.KcalToKJ(2000)); math.Abs(got-2000) > 1e-9 {
		t.Errorf("kcal round trip = %v", got)
	}
	if got := units.OzToMl(units.MlToOz(750)); math.Abs(got-750) > 1e-9 {
		t.Errorf("ml round trip = %v", got)
	}
}

func TestKindOf(t *testing.T) {
	kind, err := units.KindOf("lb")
	if err != nil {
		t.Fatalf("KindOf(lb): %v", err)
	}
	if kind != units.KindWeight {
		t.Errorf("KindOf(lb) = %v, want weight", kind)
	}
	if _, err := units.KindOf("parsec"); !errors.Is(err, units.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}
