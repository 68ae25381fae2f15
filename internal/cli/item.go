package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/flight-plan/internal/model"
	"github.com/rcliao/flight-plan/internal/store"
)

func init() {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Flight plan item management",
	}

	putCmd := &cobra.Command{
		Use:   "put",
		Short: "Store a flight plan item",
		Run:   runItemPut,
	}
	putCmd.Flags().String("id", "", "Item id (updates the item when it exists)")
	putCmd.Flags().StringP("plan", "p", "", "Flight plan id (required)")
	putCmd.Flags().StringP("type", "t", "", "Type: Task, Experience (required)")
	putCmd.Flags().StringP("status", "s", string(model.StatusIncomplete), "Status: Incomplete, Registered, Pending Approval, Complete")
	putCmd.Flags().StringP("name", "n", "", "Display name (required)")
	putCmd.Flags().Int("seq", 0, "Sequence number (omit for none)")
	putCmd.Flags().String("catalog", "", "Task or experience id")
	putCmd.Flags().Bool("optional", false, "Optional item")
	putCmd.Flags().Int("points", 0, "Points awarded on completion")
	putCmd.Flags().String("submission", "", "Submission type, e.g. \"Auto-Complete - Strengths\"")
	putCmd.MarkFlagRequired("plan")
	putCmd.MarkFlagRequired("type")
	putCmd.MarkFlagRequired("name")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a flight plan item",
		Args:  cobra.ExactArgs(1),
		Run:   runItemGet,
	}

	statusCmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change the status of an item",
		Args:  cobra.ExactArgs(2),
		Run:   runItemStatus,
	}

	completeCmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete an automatic item once the student's profile qualifies",
		Args:  cobra.ExactArgs(1),
		Run:   runItemComplete,
	}
	completeCmd.Flags().StringP("student", "S", "", "Student id (required)")
	completeCmd.MarkFlagRequired("student")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a flight plan item",
		Args:  cobra.ExactArgs(1),
		Run:   runItemRm,
	}
	rmCmd.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	itemCmd.AddCommand(putCmd, getCmd, statusCmd, completeCmd, rmCmd)
	RootCmd.AddCommand(itemCmd)
}

func runItemPut(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	plan, _ := cmd.Flags().GetString("plan")
	typeStr, _ := cmd.Flags().GetString("type")
	statusStr, _ := cmd.Flags().GetString("status")
	name, _ := cmd.Flags().GetString("name")
	catalog, _ := cmd.Flags().GetString("catalog")
	optional, _ := cmd.Flags().GetBool("optional")
	points, _ := cmd.Flags().GetInt("points")
	submission, _ := cmd.Flags().GetString("submission")

	typ, err := model.ParseItemType(typeStr)
	if err != nil {
		exitErr("item put", err)
	}
	status, err := model.ParseItemStatus(statusStr)
	if err != nil {
		exitErr("item put", err)
	}

	var seq *int
	if cmd.Flags().Changed("seq") {
		n, _ := cmd.Flags().GetInt("seq")
		seq = &n
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	it, err := s.PutItem(cmd.Context(), store.PutItemParams{
		ID:             id,
		FlightPlanID:   plan,
		Type:           typ,
		Status:         status,
		Name:           name,
		Sequence:       seq,
		CatalogID:      catalog,
		Optional:       optional,
		Points:         points,
		SubmissionType: model.SubmissionType(submission),
	})
	if err != nil {
		exitErr("item put", err)
	}
	log.Info("stored item", "id", it.ID, "plan", it.FlightPlanID)

	printJSON(cmd, it)
}

func runItemGet(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	it, err := s.GetItem(cmd.Context(), args[0])
	if err != nil {
		exitErr("item get", err)
	}
	printJSON(cmd, it)
}

func runItemStatus(cmd *cobra.Command, args []string) {
	status, err := model.ParseItemStatus(args[1])
	if err != nil {
		exitErr("item status", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	it, err := s.SetItemStatus(cmd.Context(), args[0], status)
	if err != nil {
		exitErr("item status", err)
	}
	log.Info("changed item status", "id", it.ID, "status", it.Status)
	printJSON(cmd, it)
}

func runItemComplete(cmd *cobra.Command, args []string) {
	student, _ := cmd.Flags().GetString("student")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	it, err := s.CompleteItem(cmd.Context(), store.CompleteParams{ItemID: args[0], StudentID: student})
	if err != nil {
		exitErr("item complete", err)
	}
	log.Info("completed item", "id", it.ID, "student", student)
	printJSON(cmd, it)
}

func runItemRm(cmd *cobra.Command, args []string) {
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.RmItem(cmd.Context(), store.RmParams{ID: args[0], Hard: hard}); err != nil {
		exitErr("item rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", args[0])
}
