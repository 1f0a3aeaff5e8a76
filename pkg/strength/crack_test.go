package strength

import (
	"math"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0.00 sec"},
		{-5, "0.00 sec"},
		{math.NaN(), "0.00 sec"},
		{0.001, "0.00 sec"},
		{59, "59.00 sec"},
		{60, "1.00 min"},
		{90, "1.50 min"},
		{3600, "1.00 hr"},
		{86400, "1.00 days"},
		{2592000, "1.00 months"},
		{31536000, "1.00 years"},
		{31536000 * 2.5, "2.50 years"},
		{31536000 * 1.5e15, "1.50e+15 years"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%v): %q, want: %q", tc.seconds, got, tc.want)
		}
	}
}

func TestSimulateCrackTimes_Profiles(t *testing.T) {
	est := SimulateCrackTimes(40)
	if len(est) != 3 {
		t.Fatalf("Should have 3 profiles, have %d", len(est))
	}

	for _, name := range []string{"Online", "FastGPU", "Supercomputer"} {
		if _, ok := est.Lookup(name); !ok {
			t.Errorf("Profile %s should be present", name)
		}
	}

	if len(est.Display()) != 3 {
		t.Errorf("Display should have 3 entries")
	}
}

func TestSimulateCrackTimes_DecreasingWithRate(t *testing.T) {
	for _, e := range []float64{0, 1, 10.5, 56.87, 128, 999, 5000} {
		est := SimulateCrackTimes(e)
		for i := 1; i < len(est); i++ {
			if est[i].Duration.Log2Seconds >= est[i-1].Duration.Log2Seconds {
				t.Errorf("Entropy %.2f: %s should be faster than %s",
					e, est[i].Profile.Name, est[i-1].Profile.Name)
			}
		}
	}
}

func TestSimulateCrackTimes_PasswordExample(t *testing.T) {
	s := Estimate("password123")
	online, _ := SimulateCrackTimes(s.EntropyBits).Lookup("Online")

	want := math.Pow(2, s.EntropyBits) / 1e3
	if got := online.Duration.Seconds(); math.Abs(got-want)/want > 1e-9 {
		t.Errorf("Online seconds: %g, want: %g", got, want)
	}
	if !strings.HasSuffix(online.Display, " years") {
		t.Errorf("Online display should be in years, got %q", online.Display)
	}
}

func TestSimulateCrackTimes_NoOverflow(t *testing.T) {
	for _, e := range []float64{1023, 1024, 1100, 5000, 1e6} {
		for _, ct := range SimulateCrackTimes(e) {
			if strings.Contains(ct.Display, "Inf") || strings.Contains(ct.Display, "NaN") {
				t.Errorf("Entropy %.0f, %s: display overflowed: %q", e, ct.Profile.Name, ct.Display)
			}
			if !strings.HasSuffix(ct.Display, " years") {
				t.Errorf("Entropy %.0f, %s: should be years, got %q", e, ct.Profile.Name, ct.Display)
			}
			if math.IsInf(ct.Duration.Seconds(), 0) {
				t.Errorf("Seconds should saturate, not overflow")
			}
		}
	}
}

func TestSimulateCrackTimes_SaturatesHugeEntropy(t *testing.T) {
	ceiling := SimulateCrackTimes(MaxEntropyBits).Display()
	for _, e := range []float64{1e20, 1e300, math.MaxFloat64, math.Inf(1)} {
		est := SimulateCrackTimes(e)
		for _, ct := range est {
			if strings.Contains(ct.Display, "Inf") || strings.Contains(ct.Display, "NaN") || strings.Contains(ct.Display, "+-") {
				t.Errorf("Entropy %g, %s: invalid display %q", e, ct.Profile.Name, ct.Display)
			}
			if !strings.HasSuffix(ct.Display, " years") {
				t.Errorf("Entropy %g, %s: should be years, got %q", e, ct.Profile.Name, ct.Display)
			}
			if ct.Display != ceiling[ct.Profile.Name] {
				t.Errorf("Entropy %g, %s: %q should saturate at %q", e, ct.Profile.Name, ct.Display, ceiling[ct.Profile.Name])
			}
		}
	}
}

func TestDuration_StringSaturates(t *testing.T) {
	for _, d := range []Duration{{math.Inf(1)}, {math.MaxFloat64}, {1e300}} {
		got := d.String()
		if strings.Contains(got, "Inf") || strings.Contains(got, "NaN") || strings.Contains(got, "+-") {
			t.Errorf("Duration(%g): invalid display %q", d.Log2Seconds, got)
		}
	}
	if got := (Duration{math.NaN()}).String(); got != "1.00 sec" {
		t.Errorf("NaN duration: %q, want: %q", got, "1.00 sec")
	}
}

func TestDuration_LogFormatting(t *testing.T) {
	// 2^1100 seconds is about 4.31e+323 years.
	d := Duration{Log2Seconds: 1100}
	if got := d.String(); !strings.HasPrefix(got, "4.31e+323") {
		t.Errorf("Duration(2^1100): %q", got)
	}
}

func TestProfileName(t *testing.T) {
	cases := map[string]string{
		"Online":                            "Online",
		"Online (1k guesses/sec)":           "Online",
		"Fast GPU (1 trillion guesses/sec)": "FastGPU",
		"Supercomputer (100 trillion/sec)":  "Supercomputer",
		"Botnet":                            "Botnet",
	}

	for key, want := range cases {
		if got := ProfileName(key); got != want {
			t.Errorf("ProfileName(%q): %q, want: %q", key, got, want)
		}
	}
}
