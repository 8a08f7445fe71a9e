//go:build windows

package winsvc

import (
	"testing"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
)

func TestQuoteArg(t *testing.T) {
	cases := map[string]string{
		"":            `""`,
		"plain":       "plain",
		"has space":   `"has space"`,
		`has"quote`:   `"has\"quote"`,
		"tab\tinside": "\"tab\tinside\"",
	}
	for in, want := range cases {
		if got := quoteArg(in); got != want {
			t.Errorf("quoteArg(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCommandLine(t *testing.T) {
	got := commandLine(`C:\svc\app.exe`, []string{"--config", "path with space"})
	want := `C:\svc\app.exe --config "path with space"`
	if got != want {
		t.Errorf("commandLine() = %q, want %q", got, want)
	}
}

func TestParseCommandLine(t *testing.T) {
	program, args := parseCommandLine(`"C:\svc\app.exe" --config "path with space"`)
	if program != `C:\svc\app.exe` {
		t.Errorf("program = %q, want C:\\svc\\app.exe", program)
	}
	if len(args) != 2 || args[0] != "--config" || args[1] != "path with space" {
		t.Errorf("args = %v, want [--config \"path with space\"]", args)
	}
}

func TestInstanceSuffixRe(t *testing.T) {
	re := instanceSuffixRe("demo")
	if !re.MatchString("demo_a1b2c3") {
		t.Error("expected instance suffix to match")
	}
	if re.MatchString("demo") {
		t.Error("expected bare name not to match the suffixed pattern")
	}
	if re.MatchString("otherdemo_a1b2c3") {
		t.Error("expected unrelated prefix not to match")
	}
}

func TestStartType(t *testing.T) {
	if got := startType(true); got == startType(false) {
		t.Errorf("startType(true) and startType(false) must differ, both = %v", got)
	}
}

func TestAccessRightMask(t *testing.T) {
	if accessRightMask(manager.AccessStart) == 0 {
		t.Error("expected AccessStart to map to a nonzero mask")
	}
	if accessRightMask(manager.AccessRight(-1)) != 0 {
		t.Error("expected unknown access right to map to zero")
	}
}

func TestEnvVarsEqualWinsvc(t *testing.T) {
	a := []label.EnvVar{{Name: "A", Value: "1"}}
	b := []label.EnvVar{{Name: "A", Value: "1"}}
	c := []label.EnvVar{{Name: "A", Value: "2"}}

	if !envVarsEqual(a, b) {
		t.Error("expected equal env var slices to compare equal")
	}
	if envVarsEqual(a, c) {
		t.Error("expected different env var slices to compare unequal")
	}
}
