// Package server wires configuration, storage, services and the HTTP
// surface into one App, and runs it until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/filereview/internal/logging"
	"github.com/dmitrijs2005/filereview/internal/server/blobstore"
	"github.com/dmitrijs2005/filereview/internal/server/config"
	"github.com/dmitrijs2005/filereview/internal/server/credentials"
	"github.com/dmitrijs2005/filereview/internal/server/preview"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filereview/internal/server/services"
	"github.com/dmitrijs2005/filereview/internal/server/session"
	"github.com/dmitrijs2005/filereview/internal/server/web"
)

// uploadSlack is extra request body room for multipart framing.
const uploadSlack = 1 << 20

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *web.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	verifier, err := credentials.New(c.PasswordScheme)
	if err != nil {
		return nil, err
	}
	if c.PasswordScheme != credentials.SchemeArgon2id {
		logger.Warn(ctx, "passwords are stored in plaintext; set password_scheme to argon2id to hash new accounts")
	}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		return nil, err
	}

	m, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "database ready", "dialect", m.Dialect())

	db := m.DB()
	us := services.NewUserService(db, m, verifier, c)
	ups := services.NewUploadService(db, m, us, blobs, c.MaxUploadSize, logger)
	rs := services.NewRetrievalService(db, m, blobs, preview.NewParser(c.PreviewMaxRows))

	srv, err := web.NewServer(c.EndpointAddr, logger, session.NewManager(c.SessionIdleTimeout), us, ups, rs,
		requestBodyLimit(c.MaxUploadSize))
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, repomanager: m, server: srv}, nil
}

// requestBodyLimit is the fiber body limit for a given upload limit. A
// non-positive upload limit means no limit; fiber would treat 0 as its 4 MiB
// default, so the largest int is used instead.
func requestBodyLimit(maxUpload int64) int {
	if maxUpload <= 0 || maxUpload > int64(math.MaxInt-uploadSlack) {
		return math.MaxInt
	}
	return int(maxUpload) + uploadSlack
}

func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.BlobBackend {
	case blobstore.BackendFS:
		return blobstore.NewFSStore(c.UploadsDir), nil
	case blobstore.BackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	<-ctx.Done()
	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
