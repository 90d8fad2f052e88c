package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
	log    logrus.FieldLogger
}

// NewServer fronts app with recovery, request logging, CORS and a health check.
// Requests the front router does not handle are passed to app.
func NewServer(port int, app http.Handler, log logrus.FieldLogger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", Health)
	router.NoRoute(gin.WrapH(app))

	return &Server{
		router: router,
		port:   port,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log.WithField("component", "server"),
	}
}

// Handler returns the front router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving requests. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.log.Infof("Starting server on port %d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
