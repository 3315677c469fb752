// Package stub serves a stand-in for the object-detection API so the
// smoke tester and demos have something to run against without a model.
// It validates requests like the real service but returns deterministic
// canned detections.
package stub

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server is the stub detection API server.
type Server struct {
	port     int
	log      *zap.Logger
	validate *validator.Validate
	metrics  *metrics
	server   *http.Server
	started  time.Time
}

func NewServer(port int, log *zap.Logger) *Server {
	return &Server{
		port:     port,
		log:      log,
		validate: validator.New(),
		metrics:  newMetrics(),
		started:  time.Now(),
	}
}

// Router builds the gin engine with all routes registered. Exposed so
// tests can drive it without binding a port.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.loggingMiddleware())

	router.GET("/health", s.handleHealth)
	router.GET("/available_classes", s.handleAvailableClasses)
	router.POST("/detect", s.handleDetect)

	return router
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("stub server failed", zap.Error(err))
		}
	}()

	s.log.Info("stub detection server started", zap.Int("port", s.port))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.metrics.recordRequest(c.Request.URL.Path)
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	total, detects := s.metrics.snapshot()

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"model_loaded":    true,
		"uptime_seconds":  int(time.Since(s.started).Seconds()),
		"requests_total":  total,
		"detect_requests": detects,
	})
}

func (s *Server) handleAvailableClasses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_classes": len(classNames),
		"classes":       classNames,
		"categories":    categories,
	})
}

type detectParams struct {
	Objects        string  `form:"objects"`
	Confidence     float64 `form:"confidence,default=0.5" validate:"min=0,max=1"`
	IncludeSimilar bool    `form:"include_similar"`
	FallbackToAll  bool    `form:"fallback_to_all"`
}

type detection struct {
	ClassName  string     `json:"class_name"`
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
	Box        [4]float64 `json:"box"`
}

func (s *Server) handleDetect(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	var params detectParams
	if err := c.ShouldBind(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requested := splitObjects(params.Objects)
	matched := make([]string, 0, len(requested))
	for _, name := range requested {
		if _, ok := classIndex[name]; ok {
			matched = append(matched, name)
		}
	}

	if len(matched) == 0 && params.FallbackToAll {
		matched = classNames[:3]
	}

	detections := fakeDetections(matched, params.Confidence)

	c.JSON(http.StatusOK, gin.H{
		"request_id":           uuid.NewString(),
		"filename":             file.Filename,
		"file_size":            file.Size,
		"objects_requested":    requested,
		"confidence_threshold": params.Confidence,
		"count":                len(detections),
		"detections":           detections,
	})
}

func splitObjects(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(strings.ToLower(part)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// fakeDetections emits one deterministic detection per matched class,
// with confidences stepping down from 0.95 and boxes derived from the
// class index. Detections below the threshold are filtered like the real
// service would.
func fakeDetections(names []string, threshold float64) []detection {
	detections := make([]detection, 0, len(names))
	for i, name := range names {
		confidence := 0.95 - 0.07*float64(i)
		if confidence < threshold {
			continue
		}

		id := classIndex[name]
		x := float64(20 + 10*(id%10))
		y := float64(30 + 10*(id%7))

		detections = append(detections, detection{
			ClassName:  name,
			ClassID:    id,
			Confidence: confidence,
			Box:        [4]float64{x, y, x + 120, y + 80},
		})
	}
	return detections
}
