package testutil

import "testing"

// Given, When and Then run fn as a named subtest so multi-step flows read as
// a scenario in `go test -v` output. A failed Given or When stops the
// scenario; a failed Then does not, so every outcome is reported.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Then", desc, fn)
}

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	if !t.Run(keyword+" "+desc, fn) && keyword != "Then" {
		t.FailNow()
	}
}
