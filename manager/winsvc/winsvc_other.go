//go:build !windows

// Package winsvc implements the Manager contract (spec §4.5) against the
// Windows Service Control Manager. This file backs every non-Windows
// build: the package still compiles everywhere the generic builder lives,
// but construction always fails with NotSupported since there is no SCM
// to talk to.
package winsvc

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// New always fails off Windows; the real constructor lives in
// winsvc_windows.go.
func New(_ context.Context, spec manager.Spec, _ hclog.Logger) (manager.Manager, error) {
	return nil, errs.New(errs.NotSupported, "windows", spec.Label.Application, nil)
}
