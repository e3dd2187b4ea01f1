// Command docpipe runs declarative document-generation workflows against
// remote agent teams, tracking every run as a durable, resumable job.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/docpipe/internal/config"
	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Workflow  string
	OutputDir string
	AssetsDir string
	Agent     string
	Rerun     int
	StartFrom string
	DryRun    bool
	Status    bool
	Job       int
	Export    int
	Diagram   bool
	ServeMCP  bool
	MCPAddr   string
	Init      bool
	Force     bool
	Verbose   bool
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("docpipe", flag.ContinueOnError)
	fs.StringVar(&flags.Workflow, "workflow", "", "path to the workflow declaration file")
	fs.StringVar(&flags.OutputDir, "output-dir", "", "root directory for job output")
	fs.StringVar(&flags.AssetsDir, "assets", "", "directory of input files snapshotted into new jobs")
	fs.StringVar(&flags.Agent, "agent", "", "A2A agent endpoint URL")
	fs.IntVar(&flags.Rerun, "rerun", 0, "resume an existing job id instead of allocating a new one")
	fs.StringVar(&flags.StartFrom, "start-from", "", "team to rerun from; requires -rerun")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "execute teams with placeholder output instead of calling an agent")
	fs.BoolVar(&flags.Status, "status", false, "print job status and exit")
	fs.IntVar(&flags.Job, "job", 0, "restrict -status to a single job id")
	fs.IntVar(&flags.Export, "export", 0, "print a job as JSON and exit")
	fs.BoolVar(&flags.Diagram, "diagram", false, "print the workflow as a Mermaid diagram and exit")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as an MCP server exposing the pipeline tools")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", "localhost:8123", "listen address for -serve-mcp")
	fs.BoolVar(&flags.Init, "init", false, "scaffold a starter workflow in the current directory and exit")
	fs.BoolVar(&flags.Force, "force", false, "overwrite existing files during -init")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	if flags.Init {
		return runInit(".", flags.Force)
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("project config: %w", err)
	}
	applyConfig(&flags, cfg)

	wf, err := workflow.Load(flags.Workflow)
	if err != nil {
		return err
	}

	if flags.Diagram {
		return runDiagram(wf)
	}

	store := jobstore.New(storeRoot(flags.OutputDir, wf))
	templateDir := filepath.Dir(flags.Workflow)

	switch {
	case flags.Status:
		return runStatus(store, wf, flags.Job)
	case flags.Export != 0:
		return runExport(store, wf, flags.Export)
	case flags.ServeMCP:
		return runServeMCP(flags, wf, store, templateDir)
	default:
		return runPipeline(flags, wf, store, templateDir)
	}
}

// applyConfig fills unset flags from the project config file and applies
// the last-resort defaults. Flags always win over the file.
func applyConfig(flags *cliFlags, cfg *config.ProjectConfig) {
	if flags.Workflow == "" {
		flags.Workflow = cfg.Workflow
	}
	if flags.Workflow == "" {
		flags.Workflow = "workflow.yaml"
	}
	if flags.OutputDir == "" {
		flags.OutputDir = cfg.OutputDir
	}
	if flags.OutputDir == "" {
		flags.OutputDir = "output"
	}
	if flags.AssetsDir == "" {
		flags.AssetsDir = cfg.AssetsDir
	}
	if flags.Agent == "" {
		flags.Agent = cfg.AgentEndpoint
	}
	if cfg.Verbose {
		flags.Verbose = true
	}
}

// storeRoot places each document type's jobs under their own directory.
func storeRoot(outputDir string, wf *workflow.Workflow) string {
	if wf.DocumentType == "" {
		return outputDir
	}
	return filepath.Join(outputDir, wf.DocumentType)
}
