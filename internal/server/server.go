// Package server is the UI shell: explicit command handlers that run one
// pipeline action to completion and answer with the new session view.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/insightxpress/server/internal/analysis"
	"github.com/insightxpress/server/internal/core"
	"github.com/insightxpress/server/internal/model"
	"github.com/insightxpress/server/internal/session"
	"github.com/insightxpress/server/web"
)

// Config holds the HTTP listener settings.
type Config struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}

// Server dispatches user actions into the pipeline.
type Server struct {
	pipeline *analysis.Pipeline
	store    session.Store
	limits   model.SessionConfig
	provider string
}

// New wires the handlers to their collaborators.
func New(pipeline *analysis.Pipeline, store session.Store, limits model.SessionConfig, provider string) *Server {
	return &Server{pipeline: pipeline, store: store, limits: limits, provider: provider}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router(env core.Environment) *gin.Engine {
	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Logger(),
		gin.Recovery(),
	)

	webFS := web.GetFS()
	serveIndex := func(c *gin.Context) {
		data, err := webFS.Open("index.html")
		if err != nil {
			c.String(http.StatusNotFound, "Page not found")
			return
		}
		defer data.Close()
		c.DataFromReader(http.StatusOK, -1, "text/html; charset=utf-8", data, nil)
	}
	r.GET("/", serveIndex)

	api := r.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.POST("/upload", s.handleUpload)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/followup", s.handleFollowUp)
		api.POST("/chart", s.handleChart)
		api.GET("/chart/:index", s.handleChartPNG)
	}

	return r
}
