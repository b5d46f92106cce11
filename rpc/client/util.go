package client

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/ValentinKolb/rediDB/rpc/serializer"
	"github.com/ValentinKolb/rediDB/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("client")

	// ErrAuthFailure is returned when the server rejects the credentials
	ErrAuthFailure = errors.New("auth failure")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
// Used by the RPCStore with composition pattern
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	mu         sync.Mutex // The protocol has no request ids, one request at a time
}

// invoke sends a request and waits for its response, see invokeRPCRequest
func (a *rpcClientAdapter) invoke(req *common.Message) (*common.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return invokeRPCRequest(req, a.transport, a.serializer)
}

// authenticate performs the auth handshake. The server answers with an alert.
func (a *rpcClientAdapter) authenticate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	req := common.NewAuthRequest(a.config.User, a.config.Password)
	resp, err := roundTrip(req, a.transport, a.serializer)
	if err != nil {
		return err
	}
	if resp.MsgType != common.MsgTAlert {
		return fmt.Errorf("unexpected response to auth: %s", resp.MsgType)
	}
	if !resp.Ok {
		return fmt.Errorf("%w: %s", ErrAuthFailure, resp.Info)
	}
	Logger.Debugf("authenticated as %q: %s", a.config.User, resp.Info)
	return nil
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type.
// Failed commands are returned as *store.Error when the server sent a return code.
func invokeRPCRequest(req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	resp, err := roundTrip(req, transport, serializer)
	if err != nil {
		return nil, err
	}

	// Check if the response is a protocol error
	if resp.MsgType == common.MsgTError {
		return nil, fmt.Errorf("RPC Error: %s", resp.Err)
	}

	// Check if the response is of the expected type
	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("RPC Error: expected %s response, got %s", req.MsgType, resp.MsgType)
	}

	if err := resp.AsError(); err != nil {
		return nil, err
	}
	return resp, nil
}

// roundTrip serializes, sends and deserializes without checking the response
func roundTrip(req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	respBytes, err := transport.Send(reqBytes)
	if err != nil {
		return nil, err
	}

	resp := &common.Message{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("RPC Error: failed to deserialize response: %s", err)
	}
	return resp, nil
}
