package download

import (
	"fmt"
	"io"
	"sort"

	"github.com/ytget/yt-playlist-downloader/internal/model"
)

// WriteSummary prints the outcome of a run
func WriteSummary(w io.Writer, run *model.Run) {
	if run == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Target:     ", run.GetDisplayTarget())
	fmt.Fprintln(w, "Output:     ", run.OutputDir)
	fmt.Fprintln(w, "Status:     ", run.Status, "in", run.GetElapsedString())
	if run.ExitCode > 0 {
		fmt.Fprintln(w, "Exit code:  ", run.ExitCode)
	}
	fmt.Fprintf(w, "Items:       %d downloaded, %d skipped, %d errors\n", run.Downloaded, run.Skipped, run.Errors)
	if run.LastError != "" {
		fmt.Fprintln(w, "Last error: ", run.LastError)
	}

	kept := run.Cleanup.KeptNames()
	fmt.Fprintf(w, "Videos:      %d\n", len(kept))
	for _, name := range kept {
		fmt.Fprintln(w, "  -", name)
	}
	if n := run.Cleanup.RemovedCount(); n > 0 {
		fmt.Fprintf(w, "Cleaned up:  %d intermediate file(s)\n", n)
	}
	if len(run.Cleanup.Failed) > 0 {
		paths := make([]string, 0, len(run.Cleanup.Failed))
		for p := range run.Cleanup.Failed {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		fmt.Fprintf(w, "Not removed: %d file(s)\n", len(paths))
		for _, p := range paths {
			fmt.Fprintf(w, "  - %s: %s\n", p, run.Cleanup.Failed[p])
		}
	}
}
