// Package testing provides a conformance suite for store.IStore implementations.
//
// Every implementation of the interface (the local store as well as the RPC
// client talking to a server) must behave the same way. Run the suite from the
// implementation's own tests:
//
//	func TestLocalStore(t *testing.T) {
//		storetesting.RunStoreTests(t, "LocalStore", func() store.IStore {
//			return lstore.NewLocalStore()
//		})
//	}
//
// The factory is called once per sub test, so every test starts with an empty store.
package testing
