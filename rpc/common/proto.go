package common

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
)

// --------------------------------------------------------------------------
// Protocol texts
// --------------------------------------------------------------------------

// These texts are part of the wire protocol, clients match on them.
const (
	TextNoSuchDB        = "No such DB"
	TextAlreadyExists   = "Database already exists!"
	TextNoQuery         = "No query!"
	TextNoNewData       = "No new data!"
	TextNoQueryProvided = "No query provided! If you want to get the whole db, use get instead."
	TextNotAuth         = "Not authenticated!"
	TextAlreadyAuth     = "Already authenticated!"
	TextAuthSuccess     = "CONNECTED SUCCESSFULLY!"
	TextAuthFailure     = "Auth failure."
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message. A response always
// carries the MsgType of the request it answers.
type Message struct {
	// Type of message (the command name on the wire)
	MsgType MessageType `json:"event"`

	// Auth fields
	User     string `json:"user,omitempty"`     // Used for: Auth (request)
	Password string `json:"password,omitempty"` // Used for: Auth (request)

	// Command fields
	Database string        `json:"database,omitempty"` // Used for: all commands, echoed by Get
	Query    record.Query  `json:"query,omitempty"`    // Used for: Query, Edit, Delete
	Data     record.Record `json:"data,omitempty"`     // Used for: Add, Edit

	// Response only fields
	Ok      bool            `json:"ok"`                // True if the command succeeded
	Err     string          `json:"error,omitempty"`   // Empty if no error, otherwise the protocol text
	Code    store.RetCode   `json:"code,omitempty"`    // Store return code of a failed command
	Info    string          `json:"info,omitempty"`    // Used for: Alert
	Records []record.Record `json:"records,omitempty"` // Used for: Get, Query responses
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewAuthRequest creates a new Auth request
func NewAuthRequest(user, password string) *Message {
	return &Message{
		MsgType:  MsgTAuth,
		User:     user,
		Password: password,
	}
}

// NewAlertResponse creates the alert sent in reply to an auth request
func NewAlertResponse(ok bool, info string) *Message {
	return &Message{
		MsgType: MsgTAlert,
		Ok:      ok,
		Info:    info,
	}
}

// NewGetRequest creates a new Get request
func NewGetRequest(database string) *Message {
	return &Message{
		MsgType:  MsgTGet,
		Database: database,
	}
}

// NewGetResponse creates a new Get response, echoing the database name
func NewGetResponse(database string, records []record.Record, err error) *Message {
	msg := newResponse(MsgTGet, err)
	if err == nil {
		msg.Database = database
		msg.Records = records
	}
	return msg
}

// NewQueryRequest creates a new Query request
func NewQueryRequest(database string, q record.Query) *Message {
	return &Message{
		MsgType:  MsgTQuery,
		Database: database,
		Query:    q,
	}
}

// NewQueryResponse creates a new Query response
func NewQueryResponse(records []record.Record, err error) *Message {
	msg := newResponse(MsgTQuery, err)
	if err == nil {
		msg.Records = records
	}
	return msg
}

// NewCreateDatabaseRequest creates a new CreateDatabase request
func NewCreateDatabaseRequest(database string) *Message {
	return &Message{
		MsgType:  MsgTCreateDatabase,
		Database: database,
	}
}

// NewCreateDatabaseResponse creates a new CreateDatabase response
func NewCreateDatabaseResponse(err error) *Message {
	return newResponse(MsgTCreateDatabase, err)
}

// NewAddRequest creates a new Add request
func NewAddRequest(database string, data record.Record) *Message {
	return &Message{
		MsgType:  MsgTAdd,
		Database: database,
		Data:     data,
	}
}

// NewAddResponse creates a new Add response
func NewAddResponse(err error) *Message {
	return newResponse(MsgTAdd, err)
}

// NewEditRequest creates a new Edit request
func NewEditRequest(database string, q record.Query, data record.Record) *Message {
	return &Message{
		MsgType:  MsgTEdit,
		Database: database,
		Query:    q,
		Data:     data,
	}
}

// NewEditResponse creates a new Edit response
func NewEditResponse(err error) *Message {
	return newResponse(MsgTEdit, err)
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(database string, q record.Query) *Message {
	return &Message{
		MsgType:  MsgTDelete,
		Database: database,
		Query:    q,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(err error) *Message {
	return newResponse(MsgTDelete, err)
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// NewFailedResponse answers a command of type t with a protocol text,
// without a store return code.
func NewFailedResponse(t MessageType, text string) *Message {
	return &Message{
		MsgType: t,
		Err:     text,
	}
}

// newResponse fills the envelope of a command response. Store errors are
// mapped to their protocol text and keep their return code.
func newResponse(t MessageType, err error) *Message {
	msg := &Message{MsgType: t}
	if err == nil {
		msg.Ok = true
		return msg
	}
	if se, ok := err.(*store.Error); ok {
		msg.Code = se.Code
		msg.Err = se.Msg
		return msg
	}
	msg.Code = store.RetCInternalError
	msg.Err = err.Error()
	return msg
}

// AsError turns a failed response back into an error. Responses carrying
// a store return code become a *store.Error with that code.
// Returns nil for successful responses.
func (m *Message) AsError() error {
	if m.Ok {
		return nil
	}
	if m.Code != store.RetCSuccess {
		return store.NewError(m.Code, m.Err)
	}
	if m.Err == "" {
		return fmt.Errorf("%s failed", m.MsgType)
	}
	return fmt.Errorf("%s failed: %s", m.MsgType, m.Err)
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTAuth:
		return "auth"
	case MsgTAlert:
		return "alert"
	case MsgTGet:
		return "get"
	case MsgTQuery:
		return "query"
	case MsgTCreateDatabase:
		return "createDatabase"
	case MsgTAdd:
		return "add"
	case MsgTEdit:
		return "edit"
	case MsgTDelete:
		return "delete"
	case MsgTError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseMessageType converts a command name to a MessageType.
func ParseMessageType(s string) (MessageType, error) {
	switch s {
	case "auth":
		return MsgTAuth, nil
	case "alert":
		return MsgTAlert, nil
	case "get":
		return MsgTGet, nil
	case "query":
		return MsgTQuery, nil
	case "createDatabase":
		return MsgTCreateDatabase, nil
	case "add":
		return MsgTAdd, nil
	case "edit":
		return MsgTEdit, nil
	case "delete":
		return MsgTDelete, nil
	case "error":
		return MsgTError, nil
	default:
		return MsgTUnknown, fmt.Errorf("unknown message type: %s", s)
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMessageType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	MsgTUnknown MessageType = iota

	// Session messages

	MsgTAuth  // Authenticate the connection
	MsgTAlert // Answer to an auth request
	MsgTError // Malformed or unknown request

	// IStore operations

	MsgTGet            // Get all records of a database
	MsgTQuery          // Get the records matching a query
	MsgTCreateDatabase // Create an empty database
	MsgTAdd            // Append a record
	MsgTEdit           // Overwrite fields of matching records
	MsgTDelete         // Delete matching records
)
