package studio

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"

	"github.com/Rana718/acctgen/internal/generator"
	"github.com/Rana718/acctgen/internal/metrics"
)

type Options struct {
	Port int
	// PrefCode and CityCode pre-fill the organization form.
	PrefCode string
	CityCode string
	Metrics  *metrics.Recorder
	Logger   *logrus.Entry
}

type Server struct {
	app       *fiber.App
	generator *generator.Service
	sessions  *sessionStore
	metrics   *metrics.Recorder
	log       *logrus.Entry
	opts      Options
	port      int
}

func NewServer(gen *generator.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	engine := html.NewFileSystem(http.FS(TemplatesFS), ".html")
	// Immutable: route params end up in session state that outlives the request.
	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
		Immutable:             true,
	})

	server := &Server{
		app:       app,
		generator: gen,
		sessions:  newSessionStore(sessionTTL),
		metrics:   opts.Metrics,
		log:       opts.Logger.WithField("component", "studio"),
		opts:      opts,
		port:      opts.Port,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)

	staticFS, _ := fs.Sub(StaticFS, "static")
	s.app.Use("/static", filesystem.New(filesystem.Config{
		Root: http.FS(staticFS),
	}))

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}

	s.app.Get("/", s.sessionMiddleware, s.handleIndex)

	api := s.app.Group("/api", s.sessionMiddleware)
	api.Get("/grid", s.handleGetGrid)
	api.Post("/grid/paste", s.handlePaste)
	api.Post("/grid/composition", s.handleComposition)
	api.Post("/grid/:role/rows", s.handleAddRow)
	api.Delete("/grid/:role/rows/:id", s.handleDeleteRow)
	api.Put("/grid/:role/rows/:id", s.handleEditCell)
	api.Post("/grid/:role/reset", s.handleReset)
	api.Post("/grid/:role/focus", s.handleFocus)
	api.Post("/grid/:role/blur", s.handleBlur)
	api.Post("/generate", s.handleGenerate)
	api.Get("/download/:kind", s.handleDownload)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.WithFields(logrus.Fields{
		"method":  c.Method(),
		"path":    c.Path(),
		"status":  c.Response().StatusCode(),
		"latency": time.Since(start).String(),
	}).Debug("request")
	return err
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Start listens on the configured port, or the next free one, and optionally
// opens the editor in the default browser.
func (s *Server) Start(launch bool) error {
	port, err := freePort(s.port)
	if err != nil {
		return fmt.Errorf("failed to find a port for studio: %w", err)
	}
	if port != s.port {
		color.Yellow("⚠️  Port %d is in use, using port %d instead", s.port, port)
		s.port = port
	}

	url := fmt.Sprintf("http://localhost:%d", s.port)
	color.Cyan("🚀 Account SQL Studio starting on %s", url)

	if launch {
		go func() {
			if err := openBrowser(url); err != nil {
				s.log.WithError(err).Warn("failed to open browser")
			}
		}()
	}

	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
