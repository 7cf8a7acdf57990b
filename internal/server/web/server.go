// Package web is the HTTP surface of the file review service: server-rendered
// pages for browsers (session cookie) and a small JSON API for the CLI
// (bearer access token).
package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filereview/internal/logging"
	"github.com/dmitrijs2005/filereview/internal/server/services"
	"github.com/dmitrijs2005/filereview/internal/server/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
)

//go:embed templates/*.html templates/layouts/*.html templates/partials/*.html
var templatesFS embed.FS

const shutdownTimeout = 5 * time.Second

type Server struct {
	address   string
	app       *fiber.App
	users     *services.UserService
	uploads   *services.UploadService
	retrieval *services.RetrievalService
	sessions  *session.Manager
	logger    logging.Logger
}

// NewServer builds the fiber app and registers every route. bodyLimit caps
// request bodies in bytes; uploads over the configured size are also
// rejected by UploadService.
func NewServer(address string, l logging.Logger, sessions *session.Manager, us *services.UserService,
	ups *services.UploadService, rs *services.RetrievalService, bodyLimit int) (*Server, error) {

	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")

	s := &Server{
		address:   address,
		users:     us,
		uploads:   ups,
		retrieval: rs,
		sessions:  sessions,
		logger:    l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		Views:                 engine,
		ViewsLayout:           "layouts/main",
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(s.accessLog)

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/", s.homePage)
	s.app.Get("/signup", s.signupPage)
	s.app.Post("/signup", s.signupSubmit)
	s.app.Get("/login", s.loginPage)
	s.app.Post("/login", s.loginSubmit)
	s.app.Post("/logout", s.logout)

	review := s.app.Group("/review")
	review.Get("/", s.reviewPage)
	review.Post("/upload", s.requireSession, s.reviewUpload)
	review.Get("/files/preview", s.requireSession, s.reviewPreview)
	review.Get("/files/download", s.requireSession, s.reviewDownload)

	api := s.app.Group("/api/v1")
	api.Post("/signup", s.apiSignup)
	api.Post("/login", s.apiLogin)

	files := api.Group("/files", s.requireToken)
	files.Get("/", s.apiListFiles)
	files.Post("/", s.apiUpload)
	files.Get("/preview", s.apiPreview)
	files.Get("/download", s.apiDownload)
}

// App exposes the fiber app, mostly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address)
}
