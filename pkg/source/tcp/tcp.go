// Package tcp accepts the stream over TCP.
package tcp

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/adalight.go/pkg/framework"
	"github.com/robotalks/adalight.go/pkg/source"
)

// Server accepts TCP connections and copies their bytes into Pipe.
// Only one sender is active at a time: a new connection closes the
// previous one.
type Server struct {
	Pipe *source.Pipe

	listener net.Listener
	lock     sync.Mutex
	current  net.Conn
}

// Listen creates a Server listening on addr.
func Listen(addr string, pipe *source.Pipe) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{Pipe: pipe, listener: l}, nil
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Name implements Named.
func (s *Server) Name() string {
	return "tcp:" + s.listener.Addr().String()
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	glog.Infof("accepting frames on tcp %s", s.Addr())
	defer s.replace(nil)
	return fx.RunWithContextCloser(ctx, s.listener, func() error {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				return err
			}
			s.replace(conn)
			go s.serve(conn)
		}
	})
}

func (s *Server) replace(conn net.Conn) {
	s.lock.Lock()
	prev := s.current
	s.current = conn
	s.lock.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (s *Server) serve(conn net.Conn) {
	glog.V(2).Infof("sender connected %s", conn.RemoteAddr())
	_, err := io.Copy(s.Pipe, conn)
	conn.Close()
	glog.V(2).Infof("sender disconnected %s: %v", conn.RemoteAddr(), err)
}
