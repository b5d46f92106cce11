package serializer

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Auth request
		*common.NewAuthRequest("admin", "secret"),

		// Alert
		*common.NewAlertResponse(true, common.TextAuthSuccess),

		// Query request
		{
			MsgType:  common.MsgTQuery,
			Database: "users",
			Query:    record.Query{"name": "a", "age": 30.0},
		},

		// Get response with nested values
		{
			MsgType:  common.MsgTGet,
			Database: "users",
			Ok:       true,
			Records: []record.Record{
				{"name": "a", "tags": []any{"x", 1.0, true}},
				{"name": "b", "meta": map[string]any{"level": 2.0}},
			},
		},

		// Edit request
		*common.NewEditRequest("users", record.Query{"name": "a"}, record.Record{"age": 31.0}),

		// Error response
		{
			MsgType: common.MsgTAdd,
			Err:     common.TextNoSuchDB,
			Code:    store.RetCNotFound,
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// don't test for MsgTUnknown since this should raise an error
			for msgType := common.MsgTAuth; msgType <= common.MsgTDelete; msgType++ {
				msg := common.Message{MsgType: msgType}

				data, err := serializer.Serialize(msg)
				require.NoError(t, err, msgType.String())

				var result common.Message
				require.NoError(t, serializer.Deserialize(data, &result), msgType.String())
				assert.Equal(t, msgType, result.MsgType)
			}
		})
	}
}

// TestJSONWireFormat checks the field names other clients rely on
func TestJSONWireFormat(t *testing.T) {
	s := NewJSONSerializer()

	t.Run("Request", func(t *testing.T) {
		var msg common.Message
		err := s.Deserialize([]byte(`{"event":"edit","database":"users","query":{"name":"a"},"data":{"age":31,"nick":null}}`), &msg)
		require.NoError(t, err)
		assert.Equal(t, common.MsgTEdit, msg.MsgType)
		assert.Equal(t, "users", msg.Database)
		assert.Equal(t, record.Query{"name": "a"}, msg.Query)
		assert.Equal(t, record.Record{"age": 31.0, "nick": nil}, msg.Data)
	})

	t.Run("GetResponse", func(t *testing.T) {
		data, err := s.Serialize(*common.NewGetResponse("users", []record.Record{{"name": "a"}}, nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"get","ok":true,"database":"users","records":[{"name":"a"}]}`, string(data))
	})

	t.Run("FailedResponse", func(t *testing.T) {
		data, err := s.Serialize(*common.NewDeleteResponse(store.NewError(store.RetCMissingPredicate, common.TextNoQuery)))
		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"delete","ok":false,"error":"No query!","code":5}`, string(data))
	})

	t.Run("Alert", func(t *testing.T) {
		data, err := s.Serialize(*common.NewAlertResponse(false, common.TextAuthFailure))
		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"alert","ok":false,"info":"Auth failure."}`, string(data))
	})

	t.Run("UnknownEvent", func(t *testing.T) {
		var msg common.Message
		err := s.Deserialize([]byte(`{"event":"drop"}`), &msg)
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		var msg common.Message
		assert.Error(t, s.Deserialize([]byte(`{"event":`), &msg))
	})
}

// TestGOBDropsEmptyCollections documents that an empty record arrives as nil
func TestGOBDropsEmptyCollections(t *testing.T) {
	s := NewGOBSerializer()

	data, err := s.Serialize(*common.NewAddRequest("users", record.Record{}))
	require.NoError(t, err)

	var msg common.Message
	require.NoError(t, s.Deserialize(data, &msg))
	assert.Nil(t, msg.Data)
	assert.Equal(t, "users", msg.Database)
}

// TestGOBKeepsNumericTypes shows that ints survive gob but not json
func TestGOBKeepsNumericTypes(t *testing.T) {
	msg := *common.NewAddRequest("users", record.Record{"n": 3})

	var viaGob, viaJSON common.Message
	data, err := NewGOBSerializer().Serialize(msg)
	require.NoError(t, err)
	require.NoError(t, NewGOBSerializer().Deserialize(data, &viaGob))
	assert.Equal(t, 3, viaGob.Data["n"])

	data, err = json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, NewJSONSerializer().Deserialize(data, &viaJSON))
	assert.Equal(t, 3.0, viaJSON.Data["n"])

	// both still match the same query
	assert.True(t, record.Matches(viaGob.Data, record.Query{"n": 3.0}))
	assert.True(t, record.Matches(viaJSON.Data, record.Query{"n": 3}))
}

func TestNewSerializer(t *testing.T) {
	for _, name := range []string{"", "json", "gob"} {
		s, err := NewSerializer(name)
		require.NoError(t, err, name)
		assert.NotNil(t, s)
	}
	_, err := NewSerializer("binary")
	assert.Error(t, err)
}
