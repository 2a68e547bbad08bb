// Package cli turns the hepmc command line into an app.Config. It owns the
// usage text, the per-subcommand flag sets, and the exit code a usage error
// should end the process with.
package cli
