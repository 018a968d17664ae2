package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Event management commands",
	}

	cmd.AddCommand(newEventCreateCmd())
	cmd.AddCommand(newEventListCmd())
	cmd.AddCommand(newEventGetCmd())
	cmd.AddCommand(newEventUnlockCmd())
	cmd.AddCommand(newEventUpdateCmd())
	cmd.AddCommand(newEventArchiveCmd())
	cmd.AddCommand(newEventDeleteCmd())

	return cmd
}

func eventRequestBody(title, location, date, description, password string, showMap bool) map[string]any {
	req := map[string]any{
		"title":    title,
		"location": location,
		"date":     date,
	}
	if description != "" {
		req["description"] = description
	}
	if password != "" {
		req["password"] = password
	}
	if showMap {
		req["show_map"] = true
	}
	return req
}

func newEventCreateCmd() *cobra.Command {
	var title, location, date, description, password string
	var showMap bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new event",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := eventRequestBody(title, location, date, description, password, showMap)
			var result Event

			if err := client.Post("/api/v1/events", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&location, "location", "", "Event location (required)")
	cmd.Flags().StringVar(&date, "date", "", "Event date, RFC 3339 (required)")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	cmd.Flags().StringVar(&password, "password", "", "Gate password (makes the event private)")
	cmd.Flags().BoolVar(&showMap, "show-map", false, "Show a map for the location")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newEventListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List upcoming events",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Event

			if err := client.Get("/api/v1/events", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newEventGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <event-id>",
		Short: "Get event details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Event

			if err := client.Get(fmt.Sprintf("/api/v1/events/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newEventUnlockCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "unlock <event-id>",
		Short: "View a gated event with its password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"password": password}
			var result Event

			if err := client.Post(fmt.Sprintf("/api/v1/events/%s/verify-password", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Event password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newEventUpdateCmd() *cobra.Command {
	var title, location, date, description, password string
	var showMap bool

	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Update an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := eventRequestBody(title, location, date, description, password, showMap)
			var result Event

			if err := client.Put(fmt.Sprintf("/api/v1/events/%s", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&location, "location", "", "Event location (required)")
	cmd.Flags().StringVar(&date, "date", "", "Event date, RFC 3339 (required)")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	cmd.Flags().StringVar(&password, "password", "", "Gate password (empty removes the gate)")
	cmd.Flags().BoolVar(&showMap, "show-map", false, "Show a map for the location")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newEventArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <event-id>",
		Short: "Toggle the archived state of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Event

			if err := client.Post(fmt.Sprintf("/api/v1/events/%s/archive", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newEventDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event and its tables and game lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/events/%s", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted event %s", args[0]))
			return nil
		},
	}
}
