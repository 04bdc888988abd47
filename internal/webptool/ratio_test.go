package webptool

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		original   int64
		compressed int64
		want       float64
	}{
		{5_000_000, 4_800_000, 4.0},
		{1000, 950, 5.0},
		{1024, 960, 6.3}, // 6.25 rounds half-up
		{100, 100, 0.0},
		{100, 25, 75.0},
		{0, 50, 0.0},
	}

	for _, tt := range tests {
		if got := Ratio(tt.original, tt.compressed); got != tt.want {
			t.Errorf("Ratio(%d, %d) = %v, expected %v", tt.original, tt.compressed, got, tt.want)
		}
	}
}

func TestScaleDimensions(t *testing.T) {
	tests := []struct {
		width, height int
		limit         int
		wantW, wantH  int
	}{
		{20000, 10000, 16383, 16383, 8191},
		{10000, 20000, 16383, 8191, 16383},
		{16383, 16383, 16383, 16383, 16383},
		{100, 50, 16383, 100, 50},
		{16384, 100, 16383, 16383, 99},
	}

	for _, tt := range tests {
		gotW, gotH := ScaleDimensions(tt.width, tt.height, tt.limit)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("ScaleDimensions(%d, %d, %d) = %dx%d, expected %dx%d",
				tt.width, tt.height, tt.limit, gotW, gotH, tt.wantW, tt.wantH)
		}
		if gotW > tt.limit || gotH > tt.limit {
			t.Errorf("ScaleDimensions(%d, %d, %d) = %dx%d exceeds the limit",
				tt.width, tt.height, tt.limit, gotW, gotH)
		}
	}
}
