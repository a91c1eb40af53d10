// Package pinstore persists the two GreenSpring documents: the pin topology and the
// last known output values.
//
// Backends are selected by the store.driver setting:
//
//   - file: JSON files in a directory, replaced through a temp file and rename.
//   - s3: objects in an S3/MinIO bucket (core/storage).
//   - sql: rows of the pin_documents table in MySQL or SQLite (core/database).
//   - memory: ephemeral, for tests and demos.
//
// Every backend follows the same failure policy: loads never fail and fall back to an
// empty document, while saves return their error to the caller.
package pinstore
