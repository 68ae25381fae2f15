package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rcliao/flight-plan/internal/model"
	"github.com/rcliao/flight-plan/internal/store"
)

func init() {
	strengthCmd := &cobra.Command{
		Use:   "strength",
		Short: "Strength management",
	}

	putCmd := &cobra.Command{
		Use:   "put <name>",
		Short: "Store a strength",
		Args:  cobra.ExactArgs(1),
		Run:   runStrengthPut,
	}
	putCmd.Flags().String("id", "", "Strength id (updates the strength when it exists)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List strengths",
		Run:   runStrengthList,
	}
	listCmd.Flags().StringP("student", "S", "", "Only strengths of this student")
	listCmd.Flags().StringP("event", "e", "", "Only strengths of this event")

	tagCmd := &cobra.Command{
		Use:   "tag <strength-id>",
		Short: "Attach a strength to a student or an event",
		Args:  cobra.ExactArgs(1),
		Run:   runStrengthTag,
	}
	tagCmd.Flags().StringP("student", "S", "", "Student id")
	tagCmd.Flags().StringP("event", "e", "", "Event id")
	tagCmd.Flags().Bool("remove", false, "Detach instead")

	strengthCmd.AddCommand(putCmd, listCmd, tagCmd)
	RootCmd.AddCommand(strengthCmd)
}

func runStrengthPut(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st, err := s.PutStrength(cmd.Context(), model.Strength{ID: id, Name: args[0]})
	if err != nil {
		exitErr("strength put", err)
	}
	printJSON(cmd, st)
}

func runStrengthList(cmd *cobra.Command, args []string) {
	student, _ := cmd.Flags().GetString("student")
	event, _ := cmd.Flags().GetString("event")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var strengths []model.Strength
	switch {
	case student != "" && event != "":
		exitErr("strength list", errors.New("use only one of --student and --event"))
	case student != "":
		strengths, err = s.StudentStrengths(cmd.Context(), student)
	case event != "":
		strengths, err = s.EventStrengths(cmd.Context(), event)
	default:
		strengths, err = s.ListStrengths(cmd.Context())
	}
	if err != nil {
		exitErr("strength list", err)
	}
	if strengths == nil {
		strengths = []model.Strength{}
	}
	printJSON(cmd, strengths)
}

func runStrengthTag(cmd *cobra.Command, args []string) {
	student, _ := cmd.Flags().GetString("student")
	event, _ := cmd.Flags().GetString("event")
	remove, _ := cmd.Flags().GetBool("remove")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	err = s.TagStrength(cmd.Context(), store.TagParams{
		StrengthID: args[0],
		EventID:    event,
		StudentID:  student,
		Remove:     remove,
	})
	if err != nil {
		exitErr("strength tag", err)
	}
	printJSON(cmd, map[string]interface{}{"ok": true, "strength": args[0], "student": student, "event": event, "removed": remove})
}
