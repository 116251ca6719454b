// Package server hosts the local web view of a project's conversations:
// the rendered HTML document, a JSON API over the aggregates, and a
// WebSocket that tells the page to reload when a transcript changes.
package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vtemian/claude-notes/internal/correlate"
	"github.com/vtemian/claude-notes/internal/project"
	"github.com/vtemian/claude-notes/internal/render"
)

//go:embed all:web
var webFS embed.FS

// Server holds the Gin engine and the project folder being served.
type Server struct {
	engine *gin.Engine
	folder string
	opts   correlate.Options
	port   string
	hub    *wsHub
}

// New creates a server for one project folder.
func New(folder string, opts correlate.Options, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine: engine,
		folder: folder,
		opts:   opts,
		port:   port,
		hub:    newWSHub(),
	}
	s.setupRoutes()
	return s
}

// serveEmbedded pre-reads an embedded file and serves it with the given
// content type.
func serveEmbedded(content fs.FS, name, contentType string) gin.HandlerFunc {
	data, err := fs.ReadFile(content, name)
	return func(c *gin.Context) {
		if err != nil {
			c.String(http.StatusNotFound, "file not found: %s", name)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func (s *Server) setupRoutes() {
	webContent, _ := fs.Sub(webFS, "web")

	s.engine.GET("/", serveEmbedded(webContent, "index.html", "text/html; charset=utf-8"))
	s.engine.GET("/app.js", serveEmbedded(webContent, "app.js", "application/javascript; charset=utf-8"))

	// Rendered conversations, rebuilt per request so a reload always shows
	// current file content.
	s.engine.GET("/view", func(c *gin.Context) {
		convs, err := project.LoadAll(s.folder, s.opts)
		if err != nil {
			c.String(http.StatusInternalServerError, "load conversations: %v", err)
			return
		}
		doc, err := render.NewHTMLRenderer().RenderDocument(convs)
		if err != nil {
			c.String(http.StatusInternalServerError, "render: %v", err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
	})

	s.engine.GET("/api/conversations", func(c *gin.Context) {
		convs, err := project.LoadAll(s.folder, s.opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		raw, err := render.InfoJSON(convs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	})

	s.engine.GET("/healthz", func(c *gin.Context) {
		files, err := project.TranscriptFiles(s.folder)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"folder":      s.folder,
			"transcripts": len(files),
			"clients":     s.hub.count(),
		})
	})

	s.engine.GET("/ws", s.handleWebSocket)
}

// Start watches the project folder for transcript changes and runs the HTTP
// server. Blocks until the server stops.
func (s *Server) Start() error {
	go s.watchFolder()
	return s.engine.Run(":" + s.port)
}
