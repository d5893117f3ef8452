// Package uploads turns batches of local media into committed assets.
//
// A caller submits a transaction (UploadAssets). Every item is turned into a
// persisted UploadIntent by the Builder and appended to one global FIFO
// queue. A single worker admits intents one at a time: it asks the backend
// for write URLs, PUTs the original and derived variants, commits the asset
// and reconciles it into the local store. The store change feed is matched
// back to the owning transaction by the bridge, which emits AssetCreated
// and, for the last member, TransactionEnd.
//
// Callbacks for all transactions run on one dispatcher goroutine in the
// order they were produced.
package uploads
