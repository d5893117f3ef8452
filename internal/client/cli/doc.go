// Package cli provides the GophMedia uploader command.
//
// It wires configuration, the local store, the backend client and the
// upload manager, submits the files given on the command line as one
// transaction and prints its events until the transaction ends.
//
// A progress bar is drawn only when stdout is a terminal; otherwise one
// line per event is printed. Run returns ErrUploadsFailed when any asset
// failed, so the process can exit non-zero.
package cli
