package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/flight-plan/internal/ingest"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from JSON",
		Long: "Import items, events, strengths, and relations from a JSON document on stdin. " +
			"Items may carry their sequence number flat or nested under task/experience; " +
			"event status Past and Completed are both accepted.",
		Run: runImport,
	}
	cmd.Flags().Bool("skip-invalid", false, "Skip invalid records instead of aborting")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	skipInvalid, _ := cmd.Flags().GetBool("skip-invalid")

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	snap, err := ingest.DecodeSnapshot(data)
	if err != nil {
		exitErr("parse json", err)
	}
	ds, errs := snap.Dataset()
	if len(errs) > 0 && !skipInvalid {
		exitErr("import", fmt.Errorf("%d invalid records, first: %w", len(errs), errs[0]))
	}
	for _, e := range errs {
		log.Warn("skipped invalid record", "error", e)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := s.Import(cmd.Context(), ds)
	if err != nil {
		exitErr("import", err)
	}
	log.Info("import finished", "items", res.Items, "events", res.Events, "skipped", len(errs))

	printJSON(cmd, map[string]interface{}{"ok": true, "imported": res, "skipped": len(errs)})
}
