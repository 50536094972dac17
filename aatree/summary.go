package main

import "bitbucket.org/Davydov/aatree/composition"

// RunSummary is storing aatree run summary information.
type RunSummary struct {
	// Version stores aatree version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Command is the subcommand which was run.
	Command string `json:"command"`
	// Outgroup is the list of outgroup taxa, if rerooting was requested.
	Outgroup []string `json:"outgroup,omitempty"`
	// StartingTree is the tree as it was read.
	StartingTree string `json:"startingTree,omitempty"`
	// FinalTree is the tree after rerooting and ladderizing.
	FinalTree string `json:"finalTree,omitempty"`
	// Report is the composition report.
	Report *composition.Report `json:"report,omitempty"`
	// Distance is the Robinson-Foulds distance computed by compare.
	Distance *int `json:"distance,omitempty"`
	// Output is the image file name.
	Output string `json:"output,omitempty"`
	// Time is the computations time in seconds.
	TotalTime float64 `json:"time"`
}
