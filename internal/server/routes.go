package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/engine"
)

// DecodeRequest is the JSON body of POST /decode. Bodies of any other
// content type are taken as raw octets, with the options in the query.
type DecodeRequest struct {
	Hex    string `json:"hex" binding:"required"`
	Format string `json:"format"`
	ACN    string `json:"acn"`
	Trace  bool   `json:"trace"`
}

type contextInfo struct {
	Name  string `json:"name"`
	OID   string `json:"oid"`
	Phase string `json:"phase"`
}

func (s *Server) RegisterRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": ServiceName,
			"version": Version,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ready", func(c *gin.Context) {
		if s.store != nil {
			if err := s.store.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.Appeared).String(),
			"service": ServiceName,
			"version": Version,
			"phase":   s.engine.Config().Phase().String(),
		})
	})

	r.GET("/operations", func(c *gin.Context) {
		table := s.engine.Symbols()
		ctxs := camel.Contexts()
		infos := make([]contextInfo, len(ctxs))
		for i, ac := range ctxs {
			infos[i] = contextInfo{Name: ac.Name, OID: ac.OID.String(), Phase: ac.Phase.String()}
		}
		c.JSON(http.StatusOK, gin.H{
			"operations": table.Operations(),
			"errors":     table.Errors(),
			"contexts":   infos,
		})
	})

	r.POST("/decode", s.handleDecode)

	r.GET("/stats", s.requireStore, func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		count, err := s.store.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": count, "stats": stats})
	})

	r.GET("/events", s.requireStore, func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		events, err := s.store.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	})

	r.GET("/pending", s.requireStore, func(c *gin.Context) {
		after := s.engine.Config().PendingAfter()
		if raw := c.Query("older_than"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "older_than must be a duration"})
				return
			}
			after = d
		}
		events, err := s.store.Pending(c.Request.Context(), after)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"older_than": after.String(), "pending": events})
	})
}

func (s *Server) requireStore(c *gin.Context) {
	if s.store == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "store disabled"})
		return
	}
	c.Next()
}

func (s *Server) handleDecode(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.engine.Config().Server.MaxBodyBytes)

	var (
		res engine.Result
		err error
	)
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req DecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(bodyStatus(err), gin.H{"error": err.Error()})
			return
		}
		res, err = s.engine.DecodeHex(c.Request.Context(), req.Format, req.Hex, req.ACN, req.Trace)
	} else {
		raw, rerr := io.ReadAll(c.Request.Body)
		if rerr != nil {
			c.JSON(bodyStatus(rerr), gin.H{"error": rerr.Error()})
			return
		}
		acn, cerr := engine.ParseContext(c.Query("acn"))
		if cerr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": cerr.Error()})
			return
		}
		trace, _ := strconv.ParseBool(c.DefaultQuery("trace", "false"))
		res, err = s.engine.Decode(c.Request.Context(), engine.Request{
			Format:             c.Query("format"),
			Data:               raw,
			ApplicationContext: acn,
			Trace:              trace,
		})
	}

	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, engine.ErrDecode):
		c.JSON(http.StatusUnprocessableEntity, res)
	case errors.Is(err, engine.ErrEmptyInput), errors.Is(err, engine.ErrBadHex),
		errors.Is(err, engine.ErrFormat), errors.Is(err, engine.ErrBadContext):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error().Err(err).Msg("decode request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
