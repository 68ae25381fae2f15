package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/flight-plan/internal/ingest"
	"github.com/rcliao/flight-plan/internal/model"
	"github.com/rcliao/flight-plan/internal/store"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management and status",
}

func init() {
	putCmd := &cobra.Command{
		Use:   "put",
		Short: "Store an event",
		Run:   runEventPut,
	}
	putCmd.Flags().String("id", "", "Event id (updates the event when it exists)")
	putCmd.Flags().StringP("name", "n", "", "Event name (required)")
	putCmd.Flags().String("date", "", "Event date (YYYY-MM-DD)")
	putCmd.Flags().StringP("status", "s", "", "Status: Active, Upcoming, Past, Completed")
	putCmd.Flags().String("description", "", "Description")
	putCmd.Flags().StringP("location", "l", "", "Location")
	putCmd.Flags().String("start", "", "Start time (HH:MM AM/PM)")
	putCmd.Flags().String("end", "", "End time (HH:MM AM/PM)")
	putCmd.Flags().String("strengths", "", "Comma-separated strength ids")
	putCmd.MarkFlagRequired("name")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an event",
		Args:  cobra.ExactArgs(1),
		Run:   runEventGet,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List or search events",
		Run:   runEventList,
	}
	listCmd.Flags().StringP("query", "q", "", "Substring to search in name, description, and location")
	listCmd.Flags().Bool("past", false, "Only past events")
	listCmd.Flags().IntP("limit", "L", 0, "Max results")

	studentsCmd := &cobra.Command{
		Use:   "students <event-id>",
		Short: "List students related to an event",
		Args:  cobra.ExactArgs(1),
		Run:   runEventStudents,
	}
	studentsCmd.Flags().String("rel", ingest.RelRegistered, "Relation: registered, attended, cancelled")

	eventCmd.AddCommand(putCmd, getCmd, listCmd, studentsCmd)
	RootCmd.AddCommand(eventCmd)
}

func runEventPut(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	name, _ := cmd.Flags().GetString("name")
	date, _ := cmd.Flags().GetString("date")
	statusStr, _ := cmd.Flags().GetString("status")
	description, _ := cmd.Flags().GetString("description")
	location, _ := cmd.Flags().GetString("location")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	strengthsStr, _ := cmd.Flags().GetString("strengths")

	lifecycle, err := model.ParseEventLifecycle(statusStr)
	if err != nil {
		exitErr("event put", err)
	}

	var strengthIDs []string
	if cmd.Flags().Changed("strengths") {
		strengthIDs = splitList(strengthsStr)
		if strengthIDs == nil {
			strengthIDs = []string{}
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ev, err := s.PutEvent(cmd.Context(), store.PutEventParams{
		ID:          id,
		Name:        name,
		Date:        date,
		Lifecycle:   lifecycle,
		Description: description,
		Location:    location,
		StartTime:   start,
		EndTime:     end,
		StrengthIDs: strengthIDs,
	})
	if err != nil {
		exitErr("event put", err)
	}
	log.Info("stored event", "id", ev.ID)
	printJSON(cmd, ev)
}

func runEventGet(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ev, err := s.GetEvent(cmd.Context(), args[0])
	if err != nil {
		exitErr("event get", err)
	}
	printJSON(cmd, ev)
}

func runEventList(cmd *cobra.Command, args []string) {
	query, _ := cmd.Flags().GetString("query")
	past, _ := cmd.Flags().GetBool("past")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var events []model.Event
	if query != "" {
		events, err = s.SearchEvents(cmd.Context(), store.SearchParams{Query: query, Limit: limit})
	} else {
		p := store.ListEventsParams{Limit: limit}
		if past {
			p.Lifecycle = model.EventPast
		}
		events, err = s.ListEvents(cmd.Context(), p)
	}
	if err != nil {
		exitErr("event list", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	printJSON(cmd, events)
}

func runEventStudents(cmd *cobra.Command, args []string) {
	rel, _ := cmd.Flags().GetString("rel")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ids, err := s.EventStudents(cmd.Context(), args[0], rel)
	if err != nil {
		exitErr("event students", err)
	}
	if ids == nil {
		ids = []string{}
	}
	printJSON(cmd, ids)
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
