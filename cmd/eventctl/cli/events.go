package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"eventdesk/internal/events"
	"eventdesk/internal/filters"
	"eventdesk/internal/remote"

	"github.com/spf13/cobra"
)

func NewEventsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"ev"},
		Short:   "List, search and manage events",
	}

	cmd.AddCommand(NewEventsListCommand(app))
	cmd.AddCommand(NewEventsSearchCommand(app))
	cmd.AddCommand(NewEventsGetCommand(app))
	cmd.AddCommand(NewEventsDeleteCommand(app))

	return cmd
}

func NewEventsListCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}
			list, err := app.Client.ListEvents(cmd.Context(), token)
			if err != nil {
				return app.checkAuth(err)
			}
			return printEvents(cmd.OutOrStdout(), list, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func NewEventsSearchCommand(app *App) *cobra.Command {
	var in filters.Input
	var term string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search events with the listing filters",
		Long:  "Applies the same filter rules as the web listing. Without any constraint every event is listed. An end date without --to-time covers the whole day.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("term") {
				in.SearchTerm = filters.Term(term)
			}
			active, err := filters.Normalize(in)
			if err != nil {
				return err
			}

			token, err := app.token()
			if err != nil {
				return err
			}

			plan := filters.PlanFetch(active)
			var list []remote.Event
			if plan.Mode == filters.ModeSearch {
				app.Log.Debug("searching events", "query", plan.Query.Encode())
				list, err = app.Client.SearchEvents(cmd.Context(), token, plan.Query)
			} else {
				list, err = app.Client.ListEvents(cmd.Context(), token)
			}
			if err != nil {
				return app.checkAuth(err)
			}
			return printEvents(cmd.OutOrStdout(), list, asJSON)
		},
	}

	cmd.Flags().StringVarP(&term, "term", "q", "", "text to search for")
	cmd.Flags().StringVar(&in.StartDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.StartTime, "from-time", "", "start time (HH:MM)")
	cmd.Flags().StringVar(&in.EndDate, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.EndTime, "to-time", "", "end time (HH:MM)")
	cmd.Flags().StringVar(&in.MinPrice, "min-price", "", "minimum ticket price")
	cmd.Flags().StringVar(&in.MaxPrice, "max-price", "", "maximum ticket price")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func NewEventsGetCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}
			event, err := app.Client.GetEvent(cmd.Context(), token, args[0])
			if err != nil {
				return app.checkAuth(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, event)
			}
			fmt.Fprintf(out, "ID:          %s\n", event.ID)
			fmt.Fprintf(out, "Title:       %s\n", event.Title)
			fmt.Fprintf(out, "Date:        %s\n", events.FormatDate(*event))
			fmt.Fprintf(out, "Location:    %s\n", event.Location)
			fmt.Fprintf(out, "Capacity:    %s\n", events.FormatCapacity(event.Capacity))
			fmt.Fprintf(out, "Price:       %s\n", events.FormatPrice(event.TicketPrice))
			fmt.Fprintf(out, "Status:      %s\n", events.StatusOf(*event, time.Now()))
			fmt.Fprintf(out, "Description: %s\n", event.Description)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func NewEventsDeleteCommand(app *App) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event",
		Long:  "Deletes the event with the given id. Needs --yes as confirmation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to delete without --yes")
			}
			token, err := app.token()
			if err != nil {
				return err
			}
			if err := app.Client.DeleteEvent(cmd.Context(), token, args[0]); err != nil {
				return app.checkAuth(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "confirm the deletion")

	return cmd
}

func printEvents(out io.Writer, list []remote.Event, asJSON bool) error {
	if asJSON {
		return writeJSON(out, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No events found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDATE\tLOCATION\tCAPACITY\tPRICE")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.ID, e.Title, events.FormatDate(e), e.Location, e.Capacity, events.FormatPrice(e.TicketPrice))
	}
	return tw.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
