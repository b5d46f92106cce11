package client

import (
	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/ValentinKolb/rediDB/rpc/serializer"
	"github.com/ValentinKolb/rediDB/rpc/transport"
)

// IRemoteStore is a store.IStore backed by a server connection
type IRemoteStore interface {
	store.IStore
	// Close ends the session
	Close() error
}

// NewRPCStore creates a new RPC store
// The function takes a config, a transport and a serializer as parameters.
// It connects and authenticates with config.User and config.Password; a
// rejected login returns an error wrapping ErrAuthFailure.
func NewRPCStore(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (IRemoteStore, error) {

	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	s := &rpcStore{
		rpcClientAdapter: rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	if err := s.authenticate(); err != nil {
		_ = transport.Close()
		return nil, err
	}
	return s, nil
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) CreateCollection(name string) (err error) {
	_, err = i.invoke(common.NewCreateDatabaseRequest(name))
	return err
}

func (i *rpcStore) Get(name string) (records []record.Record, err error) {
	resp, err := i.invoke(common.NewGetRequest(name))
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Records), nil
}

func (i *rpcStore) Append(name string, r record.Record) (err error) {
	_, err = i.invoke(common.NewAddRequest(name, r))
	return err
}

func (i *rpcStore) FindAll(name string, q record.Query) (records []record.Record, err error) {
	// the query command insists on a query, get returns the same result
	if q.IsEmpty() {
		return i.Get(name)
	}
	resp, err := i.invoke(common.NewQueryRequest(name, q))
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Records), nil
}

func (i *rpcStore) MutateMatching(name string, q record.Query, patch record.Record) (err error) {
	_, err = i.invoke(common.NewEditRequest(name, q, patch))
	return err
}

func (i *rpcStore) DeleteMatching(name string, q record.Query) (err error) {
	_, err = i.invoke(common.NewDeleteRequest(name, q))
	return err
}

func (i *rpcStore) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.transport.Close()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// nonNil turns the omitted record list of an empty result into an empty slice
func nonNil(records []record.Record) []record.Record {
	if records == nil {
		return []record.Record{}
	}
	return records
}
