package reactor

import "testing"

func TestTearOffWindow(t *testing.T) {
	d := TearOff{AdhesionLimit: 400e-9, Window: 5.0}

	tests := []struct {
		name    string
		tension float64
		t       float64
		want    bool
	}{
		{"below limit, settled", 100e-9, 100, false},
		{"above limit, inside window", 1e-6, 2.0, false},
		{"above limit, at window edge", 1e-6, 5.0, false},
		{"above limit, settled", 1e-6, 5.001, true},
		{"at limit exactly, settled", 400e-9, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Check(tt.tension, tt.t); got != tt.want {
				t.Errorf("Check(%g, %g) = %v, want %v", tt.tension, tt.t, got, tt.want)
			}
		})
	}
}

func TestTearOffTension(t *testing.T) {
	d := TearOff{AdhesionLimit: 400e-9, Window: 5.0}

	if got := d.Tension(0.001, 1e-7); got != 1e-10 {
		t.Errorf("tension = %g, want %g", got, 1e-10)
	}
	// A filament below the aspect gate carries zero drag, hence zero tension.
	if got := d.Tension(10.0, 0); got != 0 {
		t.Errorf("zero filament drag must mean zero tension, got %g", got)
	}
}
