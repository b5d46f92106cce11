// Package record defines the open-schema document type stored by rediDB and the
// equality query engine used to select documents.
//
// A Record is a dynamically keyed mapping from field name to a JSON value
// (nil, bool, number, string, nested mapping or sequence). Records carry no
// identity of their own: inside a collection a record is identified by its
// position only.
//
// A Query is a flat conjunction of equality tests over the top-level fields of a
// record. Matches reports whether a record satisfies a query:
//
//   - the empty query matches every record
//   - a query field missing from the record never matches (not even a nil value)
//   - scalars are compared strictly: numbers with numbers, strings with strings,
//     booleans with booleans and nil with nil. There is no coercion between kinds.
//   - nested mappings and sequences are never equal to anything, mirroring
//     reference equality of decoded documents.
//
// Usage Example:
//
//	r := record.Record{"name": "a", "age": 30.0}
//	record.Matches(r, record.Query{"name": "a"})  // true
//	record.Matches(r, record.Query{"age": "30"})  // false, no coercion
//	record.Matches(r, record.Query{"city": nil})  // false, field missing
package record
