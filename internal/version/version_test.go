package version

import (
	"strings"
	"testing"
)

func TestColoredPlain(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3-rc1"
	if got := Colored(false); got != "1.2.3-rc1" {
		t.Fatalf("Colored(false) = %q", got)
	}
	Version = "  "
	if got := Colored(true); got != "dev" {
		t.Fatalf("empty version = %q", got)
	}
	Version = "nightly"
	if got := Colored(true); got != "nightly" {
		t.Fatalf("undotted version = %q", got)
	}
}

func TestColoredKeepsParts(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "2.10.4-dev"
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("no escape codes in %q", got)
	}
	for _, part := range []string{"2", "10", "4", "-dev"} {
		if !strings.Contains(got, part) {
			t.Fatalf("%q lacks %q", got, part)
		}
	}
}
