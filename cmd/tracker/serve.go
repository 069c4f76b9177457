package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"jobmate/job-tracker/internal/grpcserver"
	"jobmate/job-tracker/internal/httpapi"
	"jobmate/job-tracker/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC APIs and the daily digest scheduler",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	httpapi.NewHandler(a.svc).RegisterRoutes(mux)
	srv := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      httpapi.WithRequestLog(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", ":"+a.cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	gs := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor))
	hs := grpcserver.Register(gs, grpcserver.NewServer(a.svc))

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(a.svc, a.cfg.DigestSchedule)
	if err := sched.Start(ctx); err != nil {
		lis.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[tracker] v%s HTTP listening on :%s", version, a.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Printf("[tracker] gRPC listening on :%s", a.cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	// ── Graceful shutdown ────────────────────────────────────────────────────
	g.Go(func() error {
		<-gctx.Done()
		log.Println("[tracker] Shutting down…")
		hs.Shutdown()
		sched.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[tracker] Shutdown error: %v", err)
		}
		gs.GracefulStop()
		return nil
	})

	err = g.Wait()
	log.Println("[tracker] Stopped.")
	return err
}
