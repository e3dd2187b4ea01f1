package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dusk-indust/docpipe/internal/export"
	"github.com/dusk-indust/docpipe/internal/jobstore"
	"github.com/dusk-indust/docpipe/internal/status"
	"github.com/dusk-indust/docpipe/internal/workflow"
)

func runStatus(store *jobstore.Store, wf *workflow.Workflow, jobID int) error {
	if jobID != 0 {
		js, err := status.ForJob(store, wf, jobID)
		if err != nil {
			return err
		}
		printJob(js)
		return nil
	}

	all, err := status.List(store, wf)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No jobs found.")
		fmt.Println("Run 'docpipe' to start a new job.")
		return nil
	}

	for i, js := range all {
		if i > 0 {
			fmt.Println()
		}
		printJob(js)
	}
	return nil
}

func printJob(js status.JobStatus) {
	fmt.Printf("Job %04d", js.ID)
	if js.DocumentType != "" {
		fmt.Printf(" (%s)", js.DocumentType)
	}
	fmt.Printf("  created %s\n", js.CreatedAt.Local().Format("2006-01-02 15:04"))

	for _, team := range js.Teams {
		marker := "  "
		label := "pending"
		if team.Complete {
			label = "complete"
		}
		if team.Name == js.NextTeam {
			marker = "->"
			label = "next"
		}
		fmt.Printf("  %s %-26s [%s]\n", marker, team.Name, label)
	}

	if js.NextTeam == "" {
		fmt.Println("  All teams complete.")
	}
}

func runExport(store *jobstore.Store, wf *workflow.Workflow, jobID int) error {
	js, err := status.ForJob(store, wf, jobID)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(export.ExportJob(js), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	_, err = os.Stdout.Write(append(out, '\n'))
	return err
}
