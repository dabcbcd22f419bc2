package raw

import "testing"

func TestConf(t *testing.T) {
	c := New().Prefix("RAWT_").Prefix("LOG_")
	t.Setenv("RAWT_LOG_LEVEL", "  warn ")
	t.Setenv("RAWT_LOG_CALLER", "YES")
	t.Setenv("RAWT_LOG_COLOR", "nah")
	t.Setenv("RAWT_LOG_SAMPLE", "5")
	t.Setenv("RAWT_LOG_NEG", "-3")
	t.Setenv("RAWT_LOG_BAD", "4x")

	if got := c.Get("LEVEL", "debug"); got != "warn" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("MISSING", "debug"); got != "debug" {
		t.Fatalf("Get default = %q", got)
	}
	if !c.GetBool("CALLER", false) || c.GetBool("COLOR", true) || !c.GetBool("MISSING", true) {
		t.Fatalf("GetBool mismatch")
	}
	if c.GetInt("SAMPLE", 0) != 5 || c.GetInt("NEG", 1) != 1 || c.GetInt("BAD", 2) != 2 || c.GetInt("MISSING", 3) != 3 {
		t.Fatalf("GetInt mismatch")
	}
}
