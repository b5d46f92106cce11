package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/rediDB/lib/persist"
	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/ValentinKolb/rediDB/lib/store/lstore"
	"github.com/ValentinKolb/rediDB/lib/util"
	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/ValentinKolb/rediDB/rpc/landing"
	"github.com/ValentinKolb/rediDB/rpc/serializer"
	"github.com/ValentinKolb/rediDB/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// shutdownTimeout bounds the shutdown of the landing page server
const shutdownTimeout = 5 * time.Second

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		ready:      make(chan struct{}),
	}
}

// RPCServer ties the store, its persistence, the session handler and the
// transports together
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer

	store    store.ILocalStore
	backend  persist.ISnapshotBackend
	persist  *persist.Manager
	sessions *SessionHandler
	landing  *landing.Server
	ready    chan struct{}
}

// Serve starts the RPC server and blocks until SIGINT or SIGTERM
func (s *RPCServer) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ServeContext(ctx)
}

// ServeContext starts the RPC server and blocks until ctx is done or the
// transport fails. On return no connection is accepted anymore, all sessions
// are closed and a final snapshot has been written.
func (s *RPCServer) ServeContext(ctx context.Context) error {
	if err := s.init(); err != nil {
		return err
	}
	defer s.backend.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Periodic snapshots, the final flush happens when ctx is cancelled
	persistDone := make(chan struct{})
	go func() {
		s.persist.Run(ctx)
		close(persistDone)
	}()

	go s.reportFlushErrors(ctx)

	// Optional landing page
	landingErr := make(chan error, 1)
	if s.landing != nil {
		go func() { landingErr <- s.landing.ListenAndServe() }()
	}

	// Database protocol
	listenErr := make(chan error, 1)
	go func() { listenErr <- s.transport.Listen(s.config) }()

	Logger.Infof("rediDB setup completed successfully")
	close(s.ready)

	var err error
	select {
	case <-ctx.Done():
		Logger.Infof("Shutting down")
	case err = <-listenErr:
		if err != nil {
			err = fmt.Errorf("transport failed: %w", err)
		}
	case err = <-landingErr:
		if err != nil {
			err = fmt.Errorf("landing page failed: %w", err)
		}
	}

	s.shutdown(cancel, persistDone)
	return err
}

// Ready is closed once the server is set up and the transport is starting
func (s *RPCServer) Ready() <-chan struct{} {
	return s.ready
}

// Store returns the store served by this server. It is nil before ServeContext.
func (s *RPCServer) Store() store.IStore {
	return s.store
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *RPCServer) init() error {
	if err := common.InitLoggers(s.config.LogLevel, s.config.LogColor); err != nil {
		return err
	}
	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", s.config.String())

	if s.config.User == "" && s.config.Password == "" {
		Logger.Warningf("No credentials configured, only empty credentials are accepted")
	}

	s.store = lstore.NewLocalStore()

	backend, err := persist.NewBackend(persist.BackendType(s.config.SnapshotBackend), s.config.SnapshotPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot backend: %w", err)
	}
	s.backend = backend

	s.persist = persist.NewManager(s.store, backend, s.config.FlushInterval())
	recovered, err := s.persist.Init()
	switch {
	case err != nil:
		// the periodic task keeps trying, the server still starts
		Logger.Errorf("Failed to write initial snapshot to %s: %v", s.config.SnapshotPath, err)
	case recovered:
		Logger.Warningf("Started with an empty database, snapshot %s could not be loaded", s.config.SnapshotPath)
	default:
		Logger.Infof("Database initialized from %s", s.config.SnapshotPath)
	}

	s.sessions = NewSessionHandler(s.config, s.store, s.serializer)
	s.transport.RegisterHandler(s.sessions.Handle)

	if s.config.HTTPEndpoint != "" {
		s.landing = landing.NewServer(s.config.HTTPEndpoint)
	}
	return nil
}

// reportFlushErrors logs failed snapshot writes until ctx is done
func (s *RPCServer) reportFlushErrors(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-s.persist.Errors():
			Logger.Errorf("Snapshot not persisted (%d failed flushes since start): %v", util.FlushErrors(), err)
		}
	}
}

func (s *RPCServer) shutdown(cancel context.CancelFunc, persistDone <-chan struct{}) {
	// stop accepting, then close the running sessions
	if err := s.transport.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		Logger.Warningf("Failed to close transport: %v", err)
	}
	s.sessions.CloseAll()

	// final flush
	cancel()
	<-persistDone

	if s.landing != nil {
		ctx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := s.landing.Shutdown(ctx); err != nil {
			Logger.Warningf("Failed to stop landing page: %v", err)
		}
	}
	Logger.Infof("Server stopped")
}
