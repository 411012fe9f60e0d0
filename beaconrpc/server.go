package beaconrpc

import (
	"net"
	"net/http"
	"net/rpc"
	"strconv"

	"github.com/powerman/rpc-codec/jsonrpc2"

	beacon "github.com/bitbeacon/beacon"
	"github.com/bitbeacon/beacon/internal/logger"
)

type Server struct {
	config    beacon.Config
	client    *beacon.Client
	rpcServer *rpc.Server
	log       logger.Logger
	listener  net.Listener
	startedC  chan struct{}
}

func NewServer(cfg beacon.Config) (*Server, error) {
	clt, err := beacon.New(cfg)
	if err != nil {
		return nil, err
	}
	h := &handler{client: clt}
	srv := rpc.NewServer()
	if err := srv.RegisterName("Client", h); err != nil {
		return nil, err
	}
	return &Server{
		config:    cfg,
		client:    clt,
		rpcServer: srv,
		log:       logger.New("rpc server"),
		startedC:  make(chan struct{}),
	}, nil
}

// Addr returns the listen address. It blocks until ListenAndServe has bound
// the listener, which makes ":0" usable as the configured port.
func (s *Server) Addr() net.Addr {
	<-s.startedC
	return s.listener.Addr()
}

func (s *Server) ListenAndServe() error {
	addr := net.JoinHostPort(s.config.RPC.Host, strconv.Itoa(s.config.RPC.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener
	close(s.startedC)
	s.log.Infoln("RPC server is listening on", listener.Addr().String())
	return http.Serve(listener, jsonrpc2.HTTPHandler(s.rpcServer))
}

// Close stops the listener and every announce session.
func (s *Server) Close() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.client.Close()
	return err
}
