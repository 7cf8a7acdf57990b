// Package cli provides the interactive file review command-line client.
//
// The client is a thin REPL over the server's JSON API: sign up, log in,
// upload .txt/.csv/.xlsx files, list them, preview them as a table and
// download them back. The REPL is started via App.Run, which blocks until
// the user exits.
package cli
