// Package storage provides the S3/MinIO client used for catalog snapshot
// archives.
//
// Before a destructive merge (one that deletes target-only keys) is applied,
// the branch service uploads a JSON copy of the target catalog here. The
// engine itself never reads archives back; they exist so an operator can
// recover translator work after an over-eager --delete run.
//
// The Client interface wraps the minio-go operations the application uses;
// mocks/ contains a testify mock implementation for tests.
package storage
