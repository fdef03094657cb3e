package schedule

import "testing"

func TestEstimatePay(t *testing.T) {
	rate := func(v float64) *float64 { return &v }

	cases := []struct {
		name     string
		rate     *float64
		duration int
		want     float64
		absent   bool
	}{
		{"two hours at 15", rate(15.00), 120, 30.00, false},
		{"ninety minutes at 20", rate(20.00), 90, 30.00, false},
		{"rounds to cents", rate(10.00), 100, 16.67, false},
		{"zero duration", rate(15.00), 0, 0.00, false},
		{"no rate", nil, 120, 0, true},
	}
	for _, tc := range cases {
		got := EstimatePay(tc.rate, tc.duration)
		if tc.absent {
			if got != nil {
				t.Fatalf("%s: got %v, want nil", tc.name, *got)
			}
			continue
		}
		if got == nil {
			t.Fatalf("%s: got nil, want %v", tc.name, tc.want)
		}
		if *got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, *got, tc.want)
		}
	}
}
