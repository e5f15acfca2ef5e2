// Package websocket accepts the stream as websocket messages.
package websocket

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/adalight.go/pkg/framework"
	"github.com/robotalks/adalight.go/pkg/source"
)

// DefaultPath is where the websocket endpoint is served.
const DefaultPath = "/frames"

// Server writes the content of every received message into Pipe.
type Server struct {
	Pipe *source.Pipe
	Path string

	listener net.Listener
}

// Listen creates a Server listening on addr.
func Listen(addr, path string, pipe *source.Pipe) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultPath
	}
	return &Server{Pipe: pipe, Path: path, listener: l}, nil
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Name implements Named.
func (s *Server) Name() string {
	return "websocket:" + s.listener.Addr().String() + s.Path
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.Path, websocket.Handler(s.serve))
	server := &http.Server{Handler: mux}
	glog.Infof("accepting frames on ws://%s%s", s.Addr(), s.Path)
	return fx.RunWithContextCloser(ctx, server, func() error {
		return server.Serve(s.listener)
	})
}

func (s *Server) serve(conn *websocket.Conn) {
	defer conn.Close()
	glog.V(2).Infof("sender connected %s", conn.Request().RemoteAddr)
	for {
		var msg []byte
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			glog.V(2).Infof("sender disconnected %s: %v", conn.Request().RemoteAddr, err)
			return
		}
		if _, err := s.Pipe.Write(msg); err != nil {
			return
		}
	}
}
