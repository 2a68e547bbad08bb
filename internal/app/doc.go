// Package app contains the command logic of hepmc. It defines the App
// struct, its configuration, and the flatten, filter and list runs,
// decoupled from the command-line entrypoint.
package app
