package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/flight-plan/internal/ingest"
	"github.com/rcliao/flight-plan/internal/model"
	"github.com/rcliao/flight-plan/internal/store"
)

func init() {
	relCmds := []struct {
		use, short, rel string
	}{
		{"register", "Register a student for an event", ingest.RelRegistered},
		{"checkin", "Check a student in to an event", ingest.RelAttended},
		{"cancel", "Cancel a student's registration", ingest.RelCancelled},
	}
	for _, rc := range relCmds {
		rel := rc.rel
		cmd := &cobra.Command{
			Use:   rc.use + " <event-id>",
			Short: rc.short,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				runRelate(cmd, args, rel)
			},
		}
		cmd.Flags().StringP("student", "S", "", "Student id (required)")
		cmd.Flags().Bool("remove", false, "Remove the relation instead")
		if rel == ingest.RelAttended {
			cmd.Flags().StringP("plan", "p", "", "Credit an optional experience on this flight plan")
		}
		cmd.MarkFlagRequired("student")
		eventCmd.AddCommand(cmd)
	}

	statusCmd := &cobra.Command{
		Use:   "status <event-id>",
		Short: "Show an event's state for a student",
		Args:  cobra.ExactArgs(1),
		Run:   runEventStatus,
	}
	statusCmd.Flags().StringP("student", "S", "", "Student id (required)")
	statusCmd.MarkFlagRequired("student")

	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Show every event with its state for a student",
		Run:   runEventBoard,
	}
	boardCmd.Flags().StringP("student", "S", "", "Student id (required)")
	boardCmd.Flags().String("state", "", "Only events in this state: checkedin, canceled, past, registered, recommended, upcoming")
	boardCmd.Flags().IntP("limit", "L", 0, "Max results")
	boardCmd.MarkFlagRequired("student")

	eventCmd.AddCommand(statusCmd, boardCmd)
}

func runRelate(cmd *cobra.Command, args []string, rel string) {
	student, _ := cmd.Flags().GetString("student")
	remove, _ := cmd.Flags().GetBool("remove")
	var plan string
	if f := cmd.Flags().Lookup("plan"); f != nil {
		plan = f.Value.String()
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	r, err := s.Relate(cmd.Context(), store.RelateParams{
		EventID:   args[0],
		StudentID: student,
		Rel:       rel,
		Remove:    remove,
	})
	if err != nil {
		exitErr(rel, err)
	}
	log.Info("updated relation", "event", r.EventID, "student", r.StudentID, "rel", r.Rel, "removed", remove)

	out := map[string]interface{}{"relation": r}
	if plan != "" && !remove {
		ev, err := s.GetEvent(cmd.Context(), args[0])
		if err != nil {
			exitErr("credit experience", err)
		}
		it, err := s.CreditOptionalExperience(cmd.Context(), plan, *ev)
		if err != nil {
			exitErr("credit experience", err)
		}
		out["credited"] = it
	}
	printJSON(cmd, out)
}

func runEventStatus(cmd *cobra.Command, args []string) {
	student, _ := cmd.Flags().GetString("student")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entry, err := s.EventStatus(cmd.Context(), student, args[0])
	if err != nil {
		exitErr("event status", err)
	}
	printJSON(cmd, entry)
}

var validStates = map[model.EventState]bool{
	model.StateCheckedIn:   true,
	model.StateCanceled:    true,
	model.StatePast:        true,
	model.StateRegistered:  true,
	model.StateRecommended: true,
	model.StateUpcoming:    true,
}

func runEventBoard(cmd *cobra.Command, args []string) {
	student, _ := cmd.Flags().GetString("student")
	stateStr, _ := cmd.Flags().GetString("state")
	limit, _ := cmd.Flags().GetInt("limit")

	state := model.EventState(stateStr)
	if state != "" && !validStates[state] {
		exitErr("event board", fmt.Errorf("invalid state %q (valid: checkedin, canceled, past, registered, recommended, upcoming)", stateStr))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	board, err := s.Board(cmd.Context(), store.BoardParams{StudentID: student, State: state, Limit: limit})
	if err != nil {
		exitErr("event board", err)
	}
	printJSON(cmd, board)
}
