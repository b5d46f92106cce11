package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/ValentinKolb/rediDB/lib/util"
	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/ValentinKolb/rediDB/rpc/serializer"
	"github.com/ValentinKolb/rediDB/rpc/transport"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var sessionLogger = logger.GetLogger("session")

// --------------------------------------------------------------------------
// Session State
// --------------------------------------------------------------------------

type sessionState uint8

const (
	stateUnauthenticated sessionState = iota
	stateAuthenticated
	stateRejected
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateUnauthenticated:
		return "unauthenticated"
	case stateAuthenticated:
		return "authenticated"
	case stateRejected:
		return "rejected"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// session is the per connection state. Only the goroutine running
// SessionHandler.Handle touches state.
type session struct {
	id     uuid.UUID
	ch     transport.IMessageChannel
	state  sessionState
	opened time.Time
}

// --------------------------------------------------------------------------
// Session Handler
// --------------------------------------------------------------------------

// SessionHandler runs the protocol for every connection: one auth exchange,
// then commands answered in order against a shared store.
type SessionHandler struct {
	user       []byte
	password   []byte
	store      store.IStore
	serializer serializer.IRPCSerializer
	adapter    IRPCServerAdapter
	sessions   *xsync.MapOf[uuid.UUID, *session]
}

// NewSessionHandler creates a session handler that checks credentials
// against config.User and config.Password
func NewSessionHandler(config common.ServerConfig, s store.IStore, ser serializer.IRPCSerializer) *SessionHandler {
	return &SessionHandler{
		user:       []byte(config.User),
		password:   []byte(config.Password),
		store:      s,
		serializer: ser,
		adapter:    NewIStoreServerAdapter(),
		sessions:   xsync.NewMapOf[uuid.UUID, *session](),
	}
}

// Handle runs one session until the peer disconnects, authentication fails
// or the channel is closed. It implements transport.ServerSessionFunc.
func (h *SessionHandler) Handle(ch transport.IMessageChannel) {
	sess := &session{
		id:     uuid.New(),
		ch:     ch,
		state:  stateUnauthenticated,
		opened: time.Now(),
	}
	h.sessions.Store(sess.id, sess)
	util.SessionOpened()
	sessionLogger.Debugf("session %s opened from %s", sess.id, ch.RemoteAddr())

	defer func() {
		h.sessions.Delete(sess.id)
		util.SessionClosed()
		_ = ch.Close()
		sessionLogger.Debugf("session %s %s after %s", sess.id, sess.state, time.Since(sess.opened).Round(time.Millisecond))
	}()

	for {
		data, err := ch.Receive()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				sessionLogger.Debugf("session %s: receive failed: %v", sess.id, err)
			}
			if sess.state != stateRejected {
				sess.state = stateClosed
			}
			return
		}

		resp := h.process(sess, data)

		if err := h.send(sess, resp); err != nil {
			sessionLogger.Warningf("session %s: failed to send %s response: %v", sess.id, resp.MsgType, err)
			sess.state = stateClosed
			return
		}

		if sess.state == stateRejected {
			return
		}
	}
}

// CloseAll closes every active session. Handle returns for each of them.
func (h *SessionHandler) CloseAll() {
	h.sessions.Range(func(id uuid.UUID, sess *session) bool {
		_ = sess.ch.Close()
		return true
	})
}

// ActiveSessions returns the number of open sessions
func (h *SessionHandler) ActiveSessions() int {
	return h.sessions.Size()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// process decodes one request and produces its response, advancing the
// session state
func (h *SessionHandler) process(sess *session, data []byte) *common.Message {
	var req common.Message
	if err := h.serializer.Deserialize(data, &req); err != nil {
		sessionLogger.Debugf("session %s: malformed message: %v", sess.id, err)
		return common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
	}

	if !isClientMessage(req.MsgType) {
		return common.NewErrorResponse(fmt.Sprintf("unsupported event: %s", req.MsgType))
	}

	if req.MsgType == common.MsgTAuth {
		return h.authenticate(sess, &req)
	}

	if sess.state != stateAuthenticated {
		util.CountCommand(req.MsgType.String(), true)
		return common.NewFailedResponse(req.MsgType, common.TextNotAuth)
	}

	resp := h.adapter.Handle(&req, h.store)
	util.CountCommand(req.MsgType.String(), !resp.Ok)
	return resp
}

// authenticate answers an auth message with an alert
func (h *SessionHandler) authenticate(sess *session, req *common.Message) *common.Message {
	if sess.state == stateAuthenticated {
		resp := common.NewAlertResponse(false, common.TextAlreadyAuth)
		resp.Err = common.TextAlreadyAuth
		return resp
	}

	// evaluate both comparisons, no early exit
	userOk := subtle.ConstantTimeCompare([]byte(req.User), h.user)
	passwordOk := subtle.ConstantTimeCompare([]byte(req.Password), h.password)
	if userOk&passwordOk == 1 {
		sess.state = stateAuthenticated
		sessionLogger.Infof("session %s authorized", sess.id)
		return common.NewAlertResponse(true, common.TextAuthSuccess)
	}

	sess.state = stateRejected
	util.CountAuthFailure()
	sessionLogger.Infof("session %s unauthorized", sess.id)
	resp := common.NewAlertResponse(false, common.TextAuthFailure)
	resp.Err = common.TextAuthFailure
	return resp
}

func (h *SessionHandler) send(sess *session, resp *common.Message) error {
	data, err := h.serializer.Serialize(*resp)
	if err != nil {
		sessionLogger.Errorf("session %s: failed to serialize response: %v", sess.id, err)
		data, err = h.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
		if err != nil {
			return err
		}
	}
	return sess.ch.Send(data)
}

// isClientMessage reports whether a client may send messages of this type
func isClientMessage(t common.MessageType) bool {
	switch t {
	case common.MsgTAuth, common.MsgTGet, common.MsgTQuery, common.MsgTCreateDatabase,
		common.MsgTAdd, common.MsgTEdit, common.MsgTDelete:
		return true
	default:
		return false
	}
}
