package battery

import (
	"errors"
	"testing"
)

func TestRawReading(t *testing.T) {
	tests := []struct {
		name    string
		raw     Raw
		want    Reading
		wantErr bool
	}{
		{
			name: "android scale",
			raw:  Raw{Level: 80, Scale: 100, Status: StatusCharging},
			want: Reading{Percent: 80, Charging: true},
		},
		{
			name: "energy scale rounds half up",
			raw:  Raw{Level: 39750, Scale: 50000, Status: StatusDischarging},
			want: Reading{Percent: 80, Charging: false},
		},
		{
			name: "rounds down",
			raw:  Raw{Level: 7940, Scale: 10000, Status: StatusCharging},
			want: Reading{Percent: 79, Charging: true},
		},
		{
			name: "full counts as charging",
			raw:  Raw{Level: 100, Scale: 100, Status: StatusFull},
			want: Reading{Percent: 100, Charging: true},
		},
		{
			name: "not charging",
			raw:  Raw{Level: 85, Scale: 100, Status: StatusNotCharging},
			want: Reading{Percent: 85, Charging: false},
		},
		{
			name: "level above scale is clamped",
			raw:  Raw{Level: 5200, Scale: 5000, Status: StatusFull},
			want: Reading{Percent: 100, Charging: true},
		},
		{
			name:    "zero scale",
			raw:     Raw{Level: 50, Scale: 0, Status: StatusCharging},
			wantErr: true,
		},
		{
			name:    "sentinel level",
			raw:     Raw{Level: -1, Scale: 100, Status: StatusCharging},
			wantErr: true,
		},
		{
			name:    "sentinel scale",
			raw:     Raw{Level: 50, Scale: -1, Status: StatusCharging},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.raw.Reading()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidReading) {
					t.Fatalf("Reading() error = %v, want ErrInvalidReading", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reading() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Reading() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPercentMatchesRoundedRatio(t *testing.T) {
	for scale := 1; scale <= 120; scale++ {
		for level := 0; level <= scale; level++ {
			got := Percent(level, scale)
			// Integer form of round(level*100/scale) for non-negative inputs.
			want := (level*200 + scale) / (2 * scale)
			if got != want {
				t.Fatalf("Percent(%d, %d) = %d, want %d", level, scale, got, want)
			}
		}
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusNotCharging.String(); got != "not charging" {
		t.Errorf("String() = %q", got)
	}
	if got := Status(42).String(); got != "unknown" {
		t.Errorf("String() of out of range status = %q", got)
	}
}
