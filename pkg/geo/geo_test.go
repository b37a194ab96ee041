package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		want   float64
		within float64
	}{
		{"same point", Point{12.9716, 77.5946}, Point{12.9716, 77.5946}, 0, 0.001},
		// one degree of latitude is ~111.2 km everywhere
		{"one degree lat", Point{0, 0}, Point{1, 0}, 111195, 50},
		// Bengaluru to Chennai, ~290 km
		{"cities", Point{12.9716, 77.5946}, Point{13.0827, 80.2707}, 290000, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.within {
				t.Errorf("DistanceMeters=%.1f, want %.1f±%.1f", got, tt.want, tt.within)
			}
		})
	}
}

func TestWithin(t *testing.T) {
	office := Point{28.6139, 77.2090}
	// ~111 m north
	near := Point{28.6149, 77.2090}

	if !Within(near, office, 150) {
		t.Error("point 111m away should be inside a 150m fence")
	}
	if Within(near, office, 100) {
		t.Error("point 111m away should be outside a 100m fence")
	}
}

func TestValid(t *testing.T) {
	if !(Point{45, 90}).Valid() {
		t.Error("expected valid")
	}
	if (Point{91, 0}).Valid() || (Point{0, 181}).Valid() {
		t.Error("expected invalid")
	}
}
