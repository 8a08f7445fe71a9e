package launchd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// runLaunchctl invokes launchctl with stdin set to null and both streams
// captured (spec §9's subprocess-portability note). The combined
// stdout+stderr is returned alongside any *exec.ExitError so callers can
// pattern-match the "could not find service" message before deciding
// whether a non-zero exit is really an error.
func runLaunchctl(ctx context.Context, args ...string) (string, error) {
	return runCaptured(ctx, "launchctl", args...)
}

// runID invokes `id` to resolve the console user, used when a User-level
// service needs the session's uid for the gui/<uid> domain target in
// environments where os/user isn't populated (e.g. a stripped-down
// build/test container).
func runID(ctx context.Context, args ...string) (string, error) {
	return runCaptured(ctx, "id", args...)
}

func runCaptured(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = nil
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	output := out.String()
	if err != nil {
		return output, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, output)
	}
	return output, nil
}

func isNotFoundMessage(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "could not find service")
}

func isAlreadyBootstrapped(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already bootstrapped") || strings.Contains(msg, "service already loaded")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
