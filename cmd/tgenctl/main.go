// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// tgenctl reserves the ports of a declarative test plan, runs traffic over
// them and releases everything on the way out.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/sapcc/go-api-declarations/bininfo"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/ironcore-dev/tgen-client/internal/config"
	"github.com/ironcore-dev/tgen-client/internal/port"
	"github.com/ironcore-dev/tgen-client/internal/project"
	"github.com/ironcore-dev/tgen-client/internal/session"
)

func main() {
	bininfo.HandleVersionArgument()

	var (
		planPath string
		duration time.Duration
		debug    bool
	)
	flag.StringVar(&planPath, "plan", "tgenctl.yaml", "path to the test plan")
	flag.DurationVar(&duration, "duration", 30*time.Second, "how long to let traffic run before stopping it")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	zc := zap.NewProductionConfig()
	if debug {
		zc = zap.NewDevelopmentConfig()
	}
	z, err := zc.Build()
	if err != nil {
		panic(err)
	}
	defer func() { _ = z.Sync() }()
	log := zapr.NewLogger(z).WithName("tgenctl")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, planPath, duration); err != nil {
		log.Error(err, "Run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, log logr.Logger, planPath string, duration time.Duration) error {
	plan, err := config.Load(planPath)
	if err != nil {
		return err
	}

	sess, err := session.New(ctx, plan.Controller,
		session.WithAPIKey(plan.APIKey),
		session.WithLogger(log),
	)
	if err != nil {
		return err
	}
	log.Info("Connected", "controller", plan.Controller)

	proj, err := project.New(ctx, sess, project.WithLogger(log))
	if err != nil {
		return err
	}

	var ports []*port.Port
	defer func() {
		// release with a fresh context, the run context may be canceled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		for _, pt := range ports {
			if err := pt.Release(releaseCtx); err != nil {
				log.Error(err, "Failed to release port", "port", pt.Ref())
			}
		}
	}()

	for _, pp := range plan.Ports {
		pt, err := proj.AddPort(ctx, port.WithName(pp.Name))
		if err != nil {
			return err
		}
		ports = append(ports, pt)

		opts := []port.ReserveOption{port.WithLocation(pp.Location)}
		if plan.ForceReserve {
			opts = append(opts, port.WithForce())
		}
		if plan.LinkTimeout > 0 {
			opts = append(opts, port.WithTimeout(plan.LinkTimeout))
		}
		if err := pt.Reserve(ctx, opts...); err != nil {
			var timeoutErr *port.LinkStateTimeoutError
			if errors.As(err, &timeoutErr) {
				log.Error(err, "Link never came up", "port", pp.Name, "location", pp.Location)
			}
			return err
		}
		log.Info("Port reserved", "port", pp.Name, "location", pp.Location)
	}

	if err := proj.ClearResults(ctx, ports...); err != nil {
		return err
	}
	if err := proj.StartPorts(ctx, false, ports...); err != nil {
		return err
	}
	log.Info("Traffic started", "ports", len(ports), "duration", duration)

	select {
	case <-ctx.Done():
		log.Info("Interrupted, stopping traffic")
	case <-time.After(duration):
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := proj.StopPorts(stopCtx, ports...); err != nil {
		return err
	}
	if err := proj.WaitTraffic(stopCtx, ports...); err != nil {
		return err
	}
	log.Info("Traffic stopped")
	return nil
}
