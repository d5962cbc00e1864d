package recordapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// ServerOptions restrict who may call the server. Empty values disable the
// corresponding check.
type ServerOptions struct {
	ProjectID string
	PublicKey string
}

// Server exposes a RecordStore over HTTP.
type Server struct {
	store types.RecordStore
	opts  ServerOptions
	log   *zap.Logger
	echo  *echo.Echo
}

// NewServer builds the echo instance and registers the table routes.
func NewServer(store types.RecordStore, opts ServerOptions, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{store: store, opts: opts, log: log, echo: e}
	e.Use(echoMiddleware.Recover())
	e.Use(s.requestID, s.accessLog, s.authorize)
	s.Register(e)
	return s
}

// Register mounts the record routes on e.
func (s *Server) Register(e *echo.Echo) {
	g := e.Group("/tables/:table")
	g.POST("/fetch", s.fetch)
	g.POST("/get/:id", s.get)
	g.POST("/create", s.create)
	g.POST("/update", s.update)
	g.POST("/delete", s.remove)
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("record api listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) fetch(c echo.Context) error {
	var params types.FetchParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, types.Failure("Invalid request body"))
	}
	resp, err := s.store.FetchRecords(c.Request().Context(), c.Param("table"), params)
	return s.reply(c, resp, err)
}

func (s *Server) get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, getResponse{Message: "Invalid record id"})
	}
	var params types.FetchParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, getResponse{Message: "Invalid request body"})
	}
	resp, err := s.store.GetRecordByID(c.Request().Context(), c.Param("table"), id, params)
	if err != nil {
		s.log.Error("store call failed", zap.String("op", "get"), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, getResponse{Message: "Internal store error"})
	}
	return c.JSON(http.StatusOK, toGetResponse(resp))
}

func (s *Server) create(c echo.Context) error {
	var params types.WriteParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, types.Failure("Invalid request body"))
	}
	resp, err := s.store.CreateRecord(c.Request().Context(), c.Param("table"), params)
	return s.reply(c, resp, err)
}

func (s *Server) update(c echo.Context) error {
	var params types.WriteParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, types.Failure("Invalid request body"))
	}
	resp, err := s.store.UpdateRecord(c.Request().Context(), c.Param("table"), params)
	return s.reply(c, resp, err)
}

func (s *Server) remove(c echo.Context) error {
	var params types.DeleteParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, types.Failure("Invalid request body"))
	}
	resp, err := s.store.DeleteRecord(c.Request().Context(), c.Param("table"), params)
	return s.reply(c, resp, err)
}

// reply writes a store outcome. Store-level refusals are still 200; only a
// failed call is a server error.
func (s *Server) reply(c echo.Context, resp *types.Response, err error) error {
	if err != nil {
		s.log.Error("store call failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, types.Failure("Internal store error"))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Response().Header().Set(HeaderRequestID, id)
		return next(c)
	}
}

func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.log.Debug("request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("elapsed", time.Since(start)),
			zap.Any("request_id", c.Get("request_id")))
		return err
	}
}

func (s *Server) authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header
		if s.opts.ProjectID != "" && h.Get(HeaderProjectID) != s.opts.ProjectID {
			return c.JSON(http.StatusForbidden, types.Failure("Unknown project"))
		}
		if s.opts.PublicKey != "" {
			key := strings.TrimPrefix(h.Get(echo.HeaderAuthorization), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(key), []byte(s.opts.PublicKey)) != 1 {
				return c.JSON(http.StatusUnauthorized, types.Failure("Invalid API key"))
			}
		}
		return next(c)
	}
}
