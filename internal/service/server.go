package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/internal/config"
)

// Router returns the HTTP API:
//
//	GET  /healthz
//	GET  /v1/schemas
//	GET  /v1/schemas/:schema             JSON Schema export
//	POST /v1/validate/:schema            200 or 422 with issues
//	POST /v1/canonicalize/:schema        ?defaults=true&aliases=false
//	POST /v1/forward/:schema/*target     canonical document to the backend
//	GET  {metrics.path}                  when metrics are enabled
func (s *Service) Router(mc config.MetricsConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "schemas": s.Catalog().IDs()})
	})

	v1 := r.Group("/v1")
	v1.GET("/schemas", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"schemas": s.Catalog().IDs()})
	})
	v1.GET("/schemas/:schema", s.handleExport)
	v1.POST("/validate/:schema", ValidateDocument(s), s.handleValidate)
	v1.POST("/canonicalize/:schema", ValidateDocument(s), s.handleCanonicalize)
	v1.POST("/forward/:schema/*target", ValidateDocument(s), s.handleForward)

	if mc.Enabled && s.metrics != nil {
		r.GET(mc.Path, gin.WrapH(s.metrics.Handler()))
	}
	return r
}

func (s *Service) handleExport(c *gin.Context) {
	schema, err := s.Catalog().Schema(c.Param("schema"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, g.ExportJSONSchema(schema))
}

func (s *Service) handleValidate(c *gin.Context) {
	res, _ := ResultFromContext(c.Request.Context())
	body := gin.H{"request_id": res.RequestID, "schema": res.Schema, "valid": true}
	if len(res.Warnings) > 0 {
		body["warnings"] = res.Warnings
	}
	c.JSON(http.StatusOK, body)
}

func (s *Service) handleCanonicalize(c *gin.Context) {
	res, _ := ResultFromContext(c.Request.Context())
	opt := g.SerializeOpt{
		IncludeDefaults: queryBool(c, "defaults", false),
		UseWireAliases:  queryBool(c, "aliases", true),
	}
	out, err := g.Marshal(res.Tree, opt)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

func (s *Service) handleForward(c *gin.Context) {
	res, _ := ResultFromContext(c.Request.Context())
	out, err := s.Forward(c.Request.Context(), res, c.Param("target"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

func queryBool(c *gin.Context, key string, def bool) bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Serve runs h on cfg.ListenAddress until ctx is done, then shuts down
// gracefully within cfg.ShutdownTimeout.
func Serve(ctx context.Context, cfg config.ServerConfig, h http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
