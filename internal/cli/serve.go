package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/farmbook/internal/farm"
	"github.com/mesh-intelligence/farmbook/internal/recordapi"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	addr      string
	projectID string
	publicKey string
	seed      bool
}

func (a *app) serveCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured record store over HTTP",
		Long: `Serve exposes the configured record store through the record API, so
other farmbook instances can use it with backend "remote".

Callers must send the configured project id and public key unless both
are empty.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				return a.serve(ctx, cmd, s, f)
			})
		},
	}
	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (default: serve.addr from config.yaml)")
	cmd.Flags().StringVar(&f.projectID, "project-id", "", "required X-Project-Id (default: remote.project_id)")
	cmd.Flags().StringVar(&f.publicKey, "public-key", "", "required bearer key (default: remote.public_key)")
	cmd.Flags().BoolVar(&f.seed, "seed", false, "load the sample data set before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command, s *session, f serveFlags) error {
	addr := firstSet(f.addr, s.v.GetString(cfgKeyServeAddr))
	opts := recordapi.ServerOptions{
		ProjectID: firstSet(f.projectID, s.cfg.Remote.ProjectID),
		PublicKey: firstSet(f.publicKey, s.cfg.Remote.PublicKey),
	}

	if f.seed {
		fx, err := farm.LoadFixtures(bytes.NewReader(sampleFixtures))
		if err != nil {
			return err
		}
		if _, err := farm.Seed(ctx, s.store, s.svc, fx); err != nil {
			return err
		}
	}

	srv := recordapi.NewServer(s.store, opts, a.log.Named("recordapi"))
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s store on %s\n", s.cfg.Backend, addr)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("shutting down record api", zap.String("addr", addr))
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
