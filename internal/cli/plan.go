package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/flight-plan/internal/flightplan"
	"github.com/rcliao/flight-plan/internal/ingest"
)

func init() {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Flight plan views",
	}

	showCmd := &cobra.Command{
		Use:   "show <flight-plan-id>",
		Short: "Show a flight plan in display order",
		Args:  cobra.ExactArgs(1),
		Run:   runPlanShow,
	}
	showCmd.Flags().Bool("summary", false, "Only print the summary")

	sortCmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort flight plan items read from stdin",
		Long:  "Read a JSON array of flight plan items (flat or nested sequence numbers) from stdin and print them in display order.",
		Run:   runPlanSort,
	}

	planCmd.AddCommand(showCmd, sortCmd)
	RootCmd.AddCommand(planCmd)
}

func runPlanShow(cmd *cobra.Command, args []string) {
	summaryOnly, _ := cmd.Flags().GetBool("summary")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	view, err := s.FlightPlan(cmd.Context(), args[0])
	if err != nil {
		exitErr("plan show", err)
	}
	if summaryOnly {
		printJSON(cmd, view.Summary)
		return
	}
	printJSON(cmd, view)
}

func runPlanSort(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}
	items, err := ingest.DecodeItems(data)
	if err != nil {
		exitErr("plan sort", err)
	}
	log.Debug("sorting items", "count", len(items))
	printJSON(cmd, flightplan.Sort(items))
}
