// Package storage abstracts the blob store holding audio chunks and
// published transcripts.
//
// Two backends exist: Azure Blob Storage (shared-access-signature
// authenticated, used in production) and a local filesystem layout with the
// same container/blob shape (used for tests and offline runs). Stages only
// see the Store interface, so the pipeline is backend-agnostic.
package storage
