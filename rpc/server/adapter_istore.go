package server

import (
	"fmt"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/ValentinKolb/rediDB/rpc/common"
)

// NewIStoreServerAdapter creates the adapter that maps the database commands
// (get, query, createDatabase, add, edit, delete) to store.IStore calls
func NewIStoreServerAdapter() IRPCServerAdapter {
	return &iStoreServerAdapterImpl{}
}

type iStoreServerAdapterImpl struct{}

func (adapter *iStoreServerAdapterImpl) Handle(req *common.Message, store store.IStore) *common.Message {
	// Check for nil store
	if store == nil {
		return common.NewErrorResponse("handler: store is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTGet:
		records, err := store.Get(req.Database)
		return common.NewGetResponse(req.Database, records, err)
	case common.MsgTQuery:
		return adapter.query(req, store)
	case common.MsgTCreateDatabase:
		err := store.CreateCollection(req.Database)
		return common.NewCreateDatabaseResponse(err)
	case common.MsgTAdd:
		data := req.Data
		if data == nil {
			// a missing record is stored as an empty one
			data = record.Record{}
		}
		err := store.Append(req.Database, data)
		return common.NewAddResponse(err)
	case common.MsgTEdit:
		err := store.MutateMatching(req.Database, req.Query, req.Data)
		return common.NewEditResponse(err)
	case common.MsgTDelete:
		err := store.DeleteMatching(req.Database, req.Query)
		return common.NewDeleteResponse(err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC IStoreAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}

// query answers a query command. Unlike FindAll, a missing query is an error
// here, but only after the database is known to exist.
func (adapter *iStoreServerAdapterImpl) query(req *common.Message, s store.IStore) *common.Message {
	if req.Query.IsEmpty() {
		if _, err := s.Get(req.Database); err != nil {
			return common.NewQueryResponse(nil, err)
		}
		return common.NewFailedResponse(common.MsgTQuery, common.TextNoQueryProvided)
	}
	records, err := s.FindAll(req.Database, req.Query)
	return common.NewQueryResponse(records, err)
}
