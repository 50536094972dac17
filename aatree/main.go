/*

Aatree roots a phylogenetic tree by an outgroup and draws amino acid
composition of every taxon next to the tree leaves.

The basic usage of aatree looks like this:

	aatree --outgroup FLY,LOCUST draw tree.nwk alignment.fst

, this will root the tree so that FLY and LOCUST form the outgroup
and write tree.png with absolute amino acid frequencies.

Deviation from the alignment mean, amino acid subsets and chi-square
scores can be requested:

	aatree --mode relative --subsets FYMINK,GARP --chi2 draw tree.nwk alignment.fst

The statistics alone are printed by the stats command:

	aatree --chi2 stats alignment.fst

To see all the options run:

	aatree --help

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"
	"gopkg.in/alecthomas/kingpin.v2"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("aatree")
var formatter = logging.MustStringFormatter(`%{message}`)

// modules are the loggers configured by --loglevel.
var modules = []string{"aatree", "reroot", "composition", "render", "store"}

// command-line options
var (
	// application
	app = kingpin.New("aatree", "tree rooting and amino acid composition").Version(version)

	// commands
	drawCmd       = app.Command("draw", "root the tree and draw it with the taxa composition")
	drawTree      = drawCmd.Arg("tree", "phylogenetic tree").Required().ExistingFile()
	drawAlignment = drawCmd.Arg("alignment", "protein sequence alignment").Required().ExistingFile()

	statsCmd       = app.Command("stats", "print composition of every taxon")
	statsAlignment = statsCmd.Arg("alignment", "protein sequence alignment").Required().ExistingFile()

	rerootCmd  = app.Command("reroot", "root the tree and print it")
	rerootTree = rerootCmd.Arg("tree", "phylogenetic tree").Required().ExistingFile()
	unroot     = rerootCmd.Flag("unroot", "unroot the tree after rooting by the outgroup").Bool()

	compareCmd   = app.Command("compare", "print Robinson-Foulds distance between two trees")
	compareTree1 = compareCmd.Arg("tree1", "first tree").Required().ExistingFile()
	compareTree2 = compareCmd.Arg("tree2", "second tree").Required().ExistingFile()

	showCmd = app.Command("show", "print the content of a database")
	showDB  = showCmd.Arg("db", "database file").Required().ExistingFile()

	// rooting
	outgroup       = app.Flag("outgroup", "comma separated outgroup taxa").Short('g').String()
	ingroup        = app.Flag("ingroup", "ingroup taxon used when the outgroup ancestor is the root").String()
	nonInteractive = app.Flag("noninteractive", "never ask for an ingroup taxon").Bool()
	noLadderize    = app.Flag("no-ladderize", "keep the children order of the input tree").Bool()

	// composition
	mode    = app.Flag("mode", "frequency type (absolute or relative to the alignment mean)").Short('m').Enum("absolute", "relative")
	subsets = app.Flag("subsets", "two comma separated amino acid subsets, e.g. FYMINK,GARP").Short('s').String()
	chi2    = app.Flag("chi2", "compute chi-square score of every taxon").Short('c').Bool()

	// input/output
	output   = app.Flag("output", "image file (png, svg or pdf), tree.png by default").Short('o').String()
	outTreeF = app.Flag("tree-out", "write tree to a file").String()
	jsonF    = app.Flag("json", "write json output to a file").String()
	dbF      = app.Flag("db", "save results to a database file").String()
	configF  = app.Flag("config", "read settings from a TOML file, command line overrides them").ExistingFile()
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug'), notice by default").
		Enum("critical", "error", "warning", "notice", "info", "debug")
)

// setupLogging sets the backend and the level of all the loggers. It
// returns a function closing the log file.
func setupLogging(levelName string) (func(), error) {
	logging.SetFormatter(formatter)

	closer := func() {}
	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return closer, fmt.Errorf("error creating log file: %v", err)
		}
		closer = func() { f.Close() }
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(levelName)
	if err != nil {
		return closer, err
	}
	for _, m := range modules {
		logging.SetLevel(level, m)
	}
	return closer, nil
}

// writeSummary writes the summary in json format.
func writeSummary(summary *RunSummary, fn string) {
	j, err := json.Marshal(summary)
	if err != nil {
		log.Error(err)
		return
	}
	log.Debug(string(j))
	f, err := os.Create(fn)
	if err != nil {
		log.Error("Error creating json output file:", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(j); err != nil {
		log.Error("Error writing json output file:", err)
	}
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	opts := options{}
	if *configF != "" {
		var err error
		opts, err = readOptions(*configF)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	opts = opts.override(flagOptions())

	s, err := opts.settings(os.Stdin, os.Stdout)
	if err != nil {
		app.Fatalf("%v", err)
	}

	closeLog, err := setupLogging(s.logLevel)
	defer closeLog()
	if err != nil {
		log.Fatal(err)
	}

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	startTime := time.Now()
	summary := &RunSummary{
		Version:     version,
		CommandLine: os.Args,
		Command:     command,
		Outgroup:    s.outgroup,
	}

	var res result
	switch command {
	case drawCmd.FullCommand():
		res, err = runDraw(s, summary)
	case statsCmd.FullCommand():
		res, err = runStats(s, summary)
	case rerootCmd.FullCommand():
		res, err = runReroot(s, summary)
	case compareCmd.FullCommand():
		err = runCompare(*compareTree1, *compareTree2, summary)
	case showCmd.FullCommand():
		err = runShow(*showDB)
	}
	if err != nil {
		log.Fatal(err)
	}

	deltaT := time.Since(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.TotalTime = deltaT.Seconds()

	if command == showCmd.FullCommand() {
		return
	}
	if *dbF != "" {
		if err := saveResults(*dbF, res, summary); err != nil {
			log.Fatal(err)
		}
	}
	if *jsonF != "" {
		writeSummary(summary, *jsonF)
	}
}
