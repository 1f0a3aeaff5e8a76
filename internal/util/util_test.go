package util

import "testing"

func TestToScreamingSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Port":           "PORT",
		"TLSCert":        "TLS_CERT",
		"SelfTLS":        "SELF_TLS",
		"AnalysisURL":    "ANALYSIS_URL",
		"BreachTimeout":  "BREACH_TIMEOUT",
		"CacheMaxCost":   "CACHE_MAX_COST",
		"TLSCert TLSKey": "TLS_CERT TLS_KEY",
		"SelfTLS false":  "SELF_TLS FALSE",
		"":               "",
	}

	for in, want := range cases {
		if got := ToScreamingSnakeCase(in); got != want {
			t.Errorf("ToScreamingSnakeCase(%q): %q, want: %q", in, got, want)
		}
	}
}

func TestCacheBudget(t *testing.T) {
	if got := CacheBudget(0.5, 1024); got <= 0 || got > 1024 {
		t.Errorf("Budget should be positive and capped, got %d", got)
	}
	if got := CacheBudget(0, 1024); got != 1024 {
		t.Errorf("A zero fraction should fall back to the ceiling, got %d", got)
	}
}

func TestCheckRam(t *testing.T) {
	if err := CheckRam(1, true); err != nil {
		t.Errorf("Should not fail checking RAM for a single item: %s", err)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	if err := CheckDiskSpace(t.TempDir(), 1); err != nil {
		t.Errorf("Should not fail checking disk for one byte: %s", err)
	}
}
