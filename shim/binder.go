//go:build !linux

// Package shim binds Bluetooth profile proxies through the platform shim,
// an RPC server that wraps the Bluetooth stack of the operating system.
package shim

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/config"
	"github.com/bluetuith-org/hidprofile/api/errorkinds"
	"github.com/bluetuith-org/hidprofile/api/logger"
	"github.com/bluetuith-org/hidprofile/shim/internal/commands"
	"github.com/bluetuith-org/hidprofile/shim/internal/serde"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// ShimBinder binds the HID Device profile proxy through the shim.
// The proxy is bound while the shim session is alive.
type ShimBinder struct {
	cfg config.Configuration
	log zerolog.Logger

	conn net.Conn

	listener bluetooth.ServiceListener
	proxy    *hidProxy

	listenerErrChan chan error
	lifecycle       chan bool
	sessionClosed   atomic.Bool

	cancel context.CancelFunc

	id         *xsync.Counter
	requestMap *xsync.MapOf[int64, chan commands.CommandRawData]

	writeMu sync.Mutex
	sync.Mutex
}

const (
	ShimInitErrTimeout = 1 * time.Second
)

var _ bluetooth.ProxyBinder = (*ShimBinder)(nil)

// NewShimBinder returns a new shim binder. The shim is started when a proxy is first requested.
func NewShimBinder(cfg config.Configuration) *ShimBinder {
	s := &ShimBinder{
		cfg: cfg.WithDefaults(),
		log: logger.WithComponent("shim"),
	}
	s.sessionClosed.Store(true)

	return s
}

// BindProfileProxy starts a shim session. The listener is notified asynchronously
// once the session is established, and again when it ends.
func (s *ShimBinder) BindProfileProxy(id bluetooth.ProfileID, listener bluetooth.ServiceListener) error {
	if id != bluetooth.ProfileHidDevice {
		return fault.Wrap(errorkinds.ErrNotSupported,
			fctx.With(context.Background(), "profile", id.String()),
			ftag.With(ftag.InvalidArgument),
			fmsg.With("Shim binder only provides the HID Device profile"),
		)
	}

	s.Lock()
	if s.listener != nil {
		s.Unlock()
		return errorkinds.ErrAlreadyBound
	}
	s.listener = listener
	s.Unlock()

	var initialized bool
	defer func() {
		if !initialized {
			s.stop(false)
			s.Lock()
			s.listener = nil
			s.Unlock()
		}
	}()

	socketPath := s.cfg.SocketPath
	if socketPath == "" {
		t, err := os.CreateTemp("", "shim_sock_")
		if err != nil {
			return fault.Wrap(err,
				fctx.With(context.Background(), "error_at", "create-socket"),
				ftag.With(ftag.Internal),
				fmsg.With("Cannot create socket file"),
			)
		}
		t.Close()
		os.Remove(t.Name())

		socketPath = t.Name()
	}

	ctx := s.reset()

	session := exec.CommandContext(
		ctx, s.cfg.ExecutablePath,
		commands.StartRpcServer(socketPath).Slice()...,
	)
	session.Stdout = os.Stdout
	session.Stderr = os.Stderr
	if err := session.Start(); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "start-shim"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot start RPC session with shim"),
		)
	}

	if err := s.waitForInitErrors(ctx, session); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "exec-shim"),
			ftag.With(ftag.Internal),
			fmsg.With("Shim process exited with errors"),
		)
	}

	if err := s.startListener(ctx, socketPath); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "listener-shim"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot start listener on provided socket"),
		)
	}

	initialized = true
	s.lifecycle <- true
	go s.dispatch(ctx, s.lifecycle)

	return nil
}

// CloseProfileProxy stops the shim session, and invalidates the proxy.
// The listener is not notified.
func (s *ShimBinder) CloseProfileProxy(id bluetooth.ProfileID, proxy bluetooth.ProfileProxy) error {
	if id != bluetooth.ProfileHidDevice {
		return errorkinds.ErrNotSupported
	}

	if p, ok := proxy.(*hidProxy); ok && p != nil {
		p.close()
	}

	s.Lock()
	s.listener = nil
	s.Unlock()

	return s.stop(true)
}

// Close stops the shim session, if one is running.
func (s *ShimBinder) Close() error {
	s.Lock()
	proxy := s.proxy
	s.Unlock()

	if err := s.CloseProfileProxy(bluetooth.ProfileHidDevice, proxy); err != nil && !errors.Is(err, errorkinds.ErrSessionNotExist) {
		return err
	}

	return nil
}

func (s *ShimBinder) dispatch(ctx context.Context, lifecycle <-chan bool) {
	for {
		select {
		case <-ctx.Done():
			s.unbind()
			return

		case bound := <-lifecycle:
			if !bound {
				s.unbind()
				s.close()
				return
			}

			s.bind()
		}
	}
}

func (s *ShimBinder) bind() {
	s.Lock()
	proxy := newHidProxy(s.executor, s.cfg.CallTimeout)
	s.proxy = proxy
	listener := s.listener
	s.Unlock()

	if listener != nil {
		listener.OnServiceConnected(bluetooth.ProfileHidDevice, proxy)
	}
}

func (s *ShimBinder) unbind() {
	s.Lock()
	proxy := s.proxy
	s.proxy = nil
	listener := s.listener
	s.Unlock()

	if proxy == nil {
		return
	}

	proxy.close()
	if listener != nil {
		listener.OnServiceDisconnected(bluetooth.ProfileHidDevice)
	}
}

func (s *ShimBinder) stop(graceful bool) error {
	if s.sessionClosed.Load() {
		return errorkinds.ErrSessionNotExist
	}

	var err error
	if graceful && s.conn != nil {
		_, err = commands.StopRpcServer().ExecuteWith(s.executor, s.cfg.CallTimeout)
	}
	s.close()

	return err
}

func (s *ShimBinder) waitForInitErrors(ctx context.Context, cmd *exec.Cmd) error {
	go func() {
		err := cmd.Wait()
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			select {
			case s.listenerErrChan <- err:
			default:
			}
		}
		s.sessionLost()
	}()

	select {
	case err := <-s.listenerErrChan:
		return err

	case <-ctx.Done():
		return errorkinds.ErrSessionNotExist

	case <-time.After(ShimInitErrTimeout):
	}

	return nil
}

func (s *ShimBinder) startListener(ctx context.Context, socketpath string) error {
	socket, err := net.Dial("unix", socketpath)
	if err != nil {
		return err
	}

	s.conn = socket
	go s.listenForEvents(ctx)

	return nil
}

func (s *ShimBinder) listenForEvents(ctx context.Context) {
	sendData := func(c chan commands.CommandRawData, m commands.CommandRawData) {
		select {
		case c <- m:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		default:
		}

		replyHeader := commands.RawCommandHeaderBuffer{}
		if _, err := io.ReadFull(s.conn, replyHeader[:]); err != nil {
			s.handleListenerError(err)
			return
		}

		header, err := commands.UnpackReplyHeader(replyHeader)
		if err != nil {
			s.log.Debug().Err(err).Msg("Invalid reply header")
			continue
		}

		buf := make([]byte, header.ContentSize)
		if _, err = io.ReadFull(s.conn, buf); err != nil {
			s.handleListenerError(err)
			return
		}

		if header.EventID > 0 {
			s.log.Trace().Uint8("event_id", header.EventID).Msg("Ignoring shim event")
			continue
		}

		var replyChan chan commands.CommandRawData
		var ok bool
		if header.IsOperationComplete {
			replyChan, ok = s.requestMap.LoadAndDelete(header.RequestId)
		} else {
			replyChan, ok = s.requestMap.Load(header.RequestId)
		}

		if ok {
			sendData(replyChan, commands.CommandRawData{
				CommandMetadata: commands.CommandMetadata{
					OperationId: commands.OperationID(header.OperationId),
					RequestId:   commands.RequestID(header.RequestId),
				},
				RawData: buf,
			})
		}
	}
}

func (s *ShimBinder) handleListenerError(err error) {
	if s.sessionClosed.Load() {
		return
	}

	if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
		s.log.Warn().Err(err).Msg("Shim connection failed")
	}

	s.sessionLost()
}

// sessionLost unbinds the proxy after the shim exits or its socket closes.
func (s *ShimBinder) sessionLost() {
	s.Lock()
	lifecycle := s.lifecycle
	s.Unlock()

	select {
	case lifecycle <- false:
	default:
	}
}

func (s *ShimBinder) executor(params []string) (chan commands.CommandRawData, error) {
	if s.sessionClosed.Load() {
		return nil, errorkinds.ErrSessionNotExist
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.id.Inc()
	requestID := s.id.Value()
	replyChan := make(chan commands.CommandRawData, 1)
	s.requestMap.Store(requestID, replyChan)

	command := map[string]any{
		"command":    params,
		"request_id": requestID,
	}

	commandBytes, err := serde.MarshalJson(command)
	if err != nil {
		s.requestMap.Delete(requestID)
		return nil, err
	}

	if _, err = s.conn.Write(commandBytes); err != nil {
		s.requestMap.Delete(requestID)
		return nil, err
	}

	return replyChan, nil
}

func (s *ShimBinder) close() {
	s.Lock()
	defer s.Unlock()

	s.sessionClosed.Store(true)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *ShimBinder) reset() context.Context {
	s.Lock()
	defer s.Unlock()

	s.sessionClosed.Store(false)

	s.id = xsync.NewCounter()
	s.requestMap = xsync.NewMapOf[int64, chan commands.CommandRawData]()

	s.listenerErrChan = make(chan error, 1)
	s.lifecycle = make(chan bool, 2)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	return ctx
}
