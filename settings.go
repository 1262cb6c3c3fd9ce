package main

// settings carries the handful of build-time knobs the CLI driver collects
// from flags and the module manifest before invoking codegen.
type settings struct {
	isLibrary       bool
	packageName     string
	forceimportlibs []string
	run             bool
	keepIR          bool
}
