// Package reportserver serves the fixture and its check report over http.
package reportserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/common/rlog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ReportServer provides the report as a web service
type ReportServer struct {
	e       *echo.Echo
	src     Source
	funcMap map[string]Handler
}

// NewReportServer returns a ReportServer
func NewReportServer(src Source) *ReportServer {
	s := &ReportServer{
		e:   echo.New(),
		src: src,
	}
	s.e.HideBanner = true
	s.e.HTTPErrorHandler = errorHandler
	s.setMethods()
	s.route()
	return s
}

// Handler returns the http handler of the server
func (s *ReportServer) Handler() http.Handler {
	return s.e
}

// Run starts the server and blocks until it stops
func (s *ReportServer) Run(bindAddress string) error {
	rlog.Infow("report server listening", "addr", bindAddress)
	if err := s.e.Start(bindAddress); err != nil && err != http.ErrServerClosed {
		return errors.WithStack(err)
	}
	return nil
}

// Shutdown stops the server
func (s *ReportServer) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *ReportServer) route() {
	s.e.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	s.e.Use(middleware.Recover())

	s.e.GET("/fixture", func(c echo.Context) error {
		return respond(c, func(ctx context.Context) (interface{}, error) {
			return s.src.Fixture(ctx)
		})
	})
	s.e.GET("/report", func(c echo.Context) error {
		return respond(c, func(ctx context.Context) (interface{}, error) {
			return s.src.Report(ctx)
		})
	})
	s.e.GET("/reserves", func(c echo.Context) error {
		return respond(c, func(ctx context.Context) (interface{}, error) {
			return s.src.Reserves(ctx)
		})
	})
	s.e.GET("/balance/:account", func(c echo.Context) error {
		addr, err := parseAddress(c.Param("account"))
		if err != nil {
			return err
		}
		return respond(c, func(ctx context.Context) (interface{}, error) {
			return s.src.Balances(ctx, addr)
		})
	})
	s.e.POST("/api/endpoints/http", func(c echo.Context) error {
		defer c.Request().Body.Close()
		dec := json.NewDecoder(c.Request().Body)
		dec.UseNumber()

		var req JRPCRequest
		if err := dec.Decode(&req); err != nil {
			return c.JSON(http.StatusOK, parseError(err))
		}
		return c.JSON(http.StatusOK, s.handleJRPC(c.Request().Context(), &req))
	})
	s.e.GET("/api/endpoints/websocket", func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response().Writer, c.Request(), nil)
		if err != nil {
			return err
		}
		defer conn.Close()

		// the upgrade owns the connection, errors only end the session
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					rlog.Warnw("websocket read", "err", err)
				}
				return nil
			}
			var res interface{}
			var req JRPCRequest
			if err := json.Unmarshal(data, &req); err != nil {
				res = parseError(err)
			} else {
				res = s.handleJRPC(c.Request().Context(), &req)
			}
			if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
				rlog.Warnw("websocket deadline", "err", err)
				return nil
			}
			if err := conn.WriteJSON(res); err != nil {
				rlog.Warnw("websocket write", "err", err)
				return nil
			}
		}
	})
}

func respond(c echo.Context, fn func(ctx context.Context) (interface{}, error)) error {
	v, err := fn(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := err.Error()
	if he, is := err.(*echo.HTTPError); is {
		code = he.Code
		msg = http.StatusText(code)
	} else if errors.Is(err, ErrInvalidAddress) {
		code = http.StatusBadRequest
	}
	if code >= http.StatusInternalServerError {
		rlog.Errorw("request failed", "path", c.Path(), "err", err)
	}
	if err := c.JSON(code, map[string]string{"error": msg}); err != nil {
		rlog.Errorw("write error response", "err", err)
	}
}
