// Command svchostdemo wires the builder, a backend Manager, and the
// Handler Runtime together end to end. It is not a management CLI (the
// command vocabulary in spec §6 is a collaborator's concern, not the
// core's); it exists to demonstrate the intended call shape for embedders.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/svchost/svchost/builder"
	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/server"
	"github.com/svchost/svchost/server/socket"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "svchostdemo",
		Level: hclog.Info,
	})

	lbl, err := label.New("com", "svchost", "demo")
	if err != nil {
		logger.Error("invalid label", "error", err)
		os.Exit(1)
	}
	program, err := label.NewProgram(os.Args[0])
	if err != nil {
		logger.Error("invalid program path", "error", err)
		os.Exit(1)
	}

	socketDescriptor := label.SocketDescriptor{Name: "http", Address: "127.0.0.1:8080", Kind: label.TCP}

	b := builder.New(lbl, program).
		WithDisplayName("svchost demo service").
		WithDescription("demonstrates builder -> manager -> server wiring").
		WithAutostart(false).
		WithSocketActivation(socketDescriptor).
		WithLogger(logger)

	ctx := context.Background()
	mgr, err := b.Build(ctx)
	if err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}
	logger.Info("built manager", "name", mgr.Name(), "label", mgr.Label().QualifiedName())

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		runServe(ctx, logger, socketDescriptor)
		return
	}

	info, err := mgr.Status(ctx)
	if err != nil {
		logger.Error("status failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("state=%s\n", info.State)
}

func runServe(ctx context.Context, logger hclog.Logger, desc label.SocketDescriptor) {
	sockets, err := socket.GetActivationSockets([]label.SocketDescriptor{desc})
	if err != nil {
		logger.Error("socket activation check failed", "error", err)
	}
	logger.Info("socket activation", "is_activated", sockets.IsActivated)

	factory := func(ctx context.Context) (server.Handler, error) {
		return server.HandlerFunc(func(svcCtx *server.ServiceContext, onReady func()) error {
			svcCtx.Spawn("heartbeat", 5*time.Second, func(ctx context.Context) error {
				ticker := time.NewTicker(time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						logger.Debug("heartbeat")
					}
				}
			})
			onReady()
			<-svcCtx.Context().Done()
			return nil
		}), nil
	}

	err = server.RunDirect(ctx, factory, server.WithLogger(logger))
	os.Exit(server.ExitCode(err))
}
