// Package server exposes conversions over HTTP.
package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Promptonauts/pipeforge/pkg/errdefs"
	"github.com/Promptonauts/pipeforge/pkg/service"
	"github.com/Promptonauts/pipeforge/pkg/store"
	"github.com/Promptonauts/pipeforge/pkg/transpiler"
)

const (
	maxBodyBytes     = 4 << 20
	defaultListLimit = 50
	yamlContentType  = "application/x-yaml"
)

type Server struct {
	svc *service.Service
	log logrus.FieldLogger
}

func New(svc *service.Service, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{svc: svc, log: log}
}

// Router builds the gin engine with every route installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", s.handleMetrics)

	v1 := r.Group("/v1")
	v1.GET("/formats", s.handleFormats)
	v1.POST("/convert", s.handleConvert)
	v1.GET("/conversions", s.handleListConversions)
	v1.GET("/conversions/:id", s.handleGetConversion)
	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("server listening")
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return pkgerrors.Wrap(err, "server")
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}).Debug("request")
	}
}

func (s *Server) handleFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": s.svc.Sources(),
		"targets": s.svc.Targets(),
	})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Metrics().Snapshot())
}

func (s *Server) handleConvert(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}
	if len(body) > maxBodyBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "pipeline spec too large"})
		return
	}

	resp, err := s.svc.Convert(service.Request{
		Source: c.DefaultQuery("source", transpiler.DefaultSource),
		Target: c.DefaultQuery("target", transpiler.DefaultTarget),
		Name:   c.Query("name"),
		Input:  body,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if resp.Record != nil {
		c.Header("X-Conversion-ID", resp.Record.ID)
	}
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, resp.Document)
		return
	}
	c.Data(http.StatusOK, yamlContentType, resp.Output)
}

func (s *Server) handleListConversions(c *gin.Context) {
	history := s.svc.History()
	if history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversion history is disabled"})
		return
	}
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	records, err := history.ListConversions(c.Query("source"), limit)
	if err != nil {
		s.log.WithError(err).Error("list conversions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list conversions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversions": records})
}

func (s *Server) handleGetConversion(c *gin.Context) {
	history := s.svc.History()
	if history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversion history is disabled"})
		return
	}
	rec, err := history.GetConversion(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("get conversion")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load conversion"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func statusFor(err error) int {
	switch errdefs.KindOf(err) {
	case errdefs.KindSourceNotFound, errdefs.KindTargetNotFound:
		return http.StatusNotFound
	case errdefs.KindInvalidSpec:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
