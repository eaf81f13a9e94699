package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/atinyakov/go-file-relay/internal/app/handler"
	"github.com/atinyakov/go-file-relay/internal/app/server"
	grpcserver "github.com/atinyakov/go-file-relay/internal/app/server/grpc"
	"github.com/atinyakov/go-file-relay/internal/app/service"
	"github.com/atinyakov/go-file-relay/internal/config"
	"github.com/atinyakov/go-file-relay/internal/logger"
	"github.com/atinyakov/go-file-relay/internal/storage"
	"github.com/atinyakov/go-file-relay/internal/tracing"
	"github.com/atinyakov/go-file-relay/internal/worker"

	_ "net/http/pprof"
)

var buildVersion string
var buildDate string
var buildCommit string

const (
	pprofAddr       = "localhost:6060"
	shutdownTimeout = 10 * time.Second
	healthInterval  = 5 * time.Second
)

func main() {
	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))

	options, err := config.Parse()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	defer log.Sync()

	if err := log.Init(options.LogLevel); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, log); err != nil {
		log.Log.Error("relay stopped", zap.Error(err))
		log.Sync()
		panic(err)
	}
}

func run(ctx context.Context, options *config.Options, log *logger.Logger) error {
	zapLogger := log.Log

	shutdownTracing, err := tracing.Init(ctx, options.OTLPEndpoint, orNA(buildVersion), zapLogger)
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			zapLogger.Error("cannot flush traces", zap.Error(err))
		}
	}()

	blobs, err := openBlobStore(ctx, options, zapLogger)
	if err != nil {
		return err
	}

	registry := storage.NewRegistry(blobs, zapLogger, storage.Options{
		TTL:               options.FileTTL,
		AllowedExtensions: options.AllowedExtensions,
		EnforceExtensions: options.EnforceExtensions,
	})
	relay := service.NewRelay(registry, zapLogger)

	r := server.Init(relay, zapLogger, server.Options{
		Page: handler.PageOptions{
			MaxUploadSize: options.MaxUploadSize,
			TTL:           options.FileTTL,
			Extensions:    options.AllowedExtensions,
		},
		TrustedSubnet: options.TrustedSubnet,
		LevelHandler:  log.LevelHandler(),
	})

	if options.EnablePprof {
		go func() {
			zapLogger.Info("Starting pprof server", zap.String("addr", pprofAddr))
			if err := http.ListenAndServe(pprofAddr, nil); err != nil {
				zapLogger.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              options.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if options.SweepInterval > 0 {
		sweeper := worker.NewSweepWorker(zapLogger, relay, options.SweepInterval)
		g.Go(func() error {
			sweeper.Run(gctx)
			return nil
		})
		g.Go(func() error {
			triggerOnHangup(gctx, sweeper)
			return nil
		})
	}

	if options.GRPCPort > 0 {
		grpcSrv := grpcserver.New(zapLogger, relay, options.TrustedSubnet, options.GRPCPort)
		g.Go(func() error {
			zapLogger.Info("gRPC health server is running", zap.Int("port", options.GRPCPort))
			if err := grpcSrv.Start(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			grpcSrv.WatchHealth(gctx, healthInterval)
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcSrv.GracefulStop()
			return nil
		})
	}

	g.Go(func() error {
		var err error
		if options.EnableHTTPS {
			manager := &autocert.Manager{
				// сертификаты переживают перезапуск
				Cache:  autocert.DirCache("cache-dir"),
				Prompt: autocert.AcceptTOS,
				// выпускаем сертификаты только для своих доменов
				HostPolicy: autocert.HostWhitelist(options.TLSHosts...),
			}
			srv.Addr = ":443"
			// ключи и сертификаты берутся из менеджера
			srv.TLSConfig = manager.TLSConfig()

			zapLogger.Info("Server is running with TLS", zap.Strings("hosts", options.TLSHosts))
			err = srv.ListenAndServeTLS("", "")
		} else {
			zapLogger.Info("Server is running", zap.String("hostname", options.Port))
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

// openBlobStore picks the bucket when an endpoint is configured and the upload
// folder otherwise.
func openBlobStore(ctx context.Context, options *config.Options, logger *zap.Logger) (storage.BlobStore, error) {
	if options.Minio.Endpoint != "" {
		logger.Info("using minio",
			zap.String("endpoint", options.Minio.Endpoint),
			zap.String("bucket", options.Minio.Bucket),
		)
		return storage.NewMinioStorage(ctx, options.Minio)
	}

	logger.Info("using upload folder", zap.String("dir", options.UploadFolder))
	return storage.NewDirStorage(options.UploadFolder)
}

// triggerOnHangup runs an extra sweep for every SIGHUP.
func triggerOnHangup(ctx context.Context, sweeper *worker.SweepWorker) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			sweeper.Trigger()
		}
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
