package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Sign-up table commands",
	}

	cmd.AddCommand(newTableCreateCmd())
	cmd.AddCommand(newTableListCmd())
	cmd.AddCommand(newTableGetCmd())
	cmd.AddCommand(newTableJoinCmd())
	cmd.AddCommand(newTableLeaveCmd())
	cmd.AddCommand(newTableDeleteCmd())

	return cmd
}

func newTableCreateCmd() *cobra.Command {
	var game, description string
	var minPlayers, maxPlayers int

	cmd := &cobra.Command{
		Use:   "create <event-id>",
		Short: "Open a sign-up table at an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"game_name":   game,
				"min_players": minPlayers,
				"max_players": maxPlayers,
			}
			if description != "" {
				req["description"] = description
			}
			var result Table

			if err := client.Post(fmt.Sprintf("/api/v1/events/%s/tables", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&game, "game", "", "Game name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Table description")
	cmd.Flags().IntVar(&minPlayers, "min", 2, "Minimum players")
	cmd.Flags().IntVar(&maxPlayers, "max", 4, "Maximum players")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}

func newTableListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-id>",
		Short: "List tables at an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Table

			if err := client.Get(fmt.Sprintf("/api/v1/events/%s/tables", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTableGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <table-id>",
		Short: "Get table details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Table

			if err := client.Get(fmt.Sprintf("/api/v1/tables/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTableJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <table-id>",
		Short: "Take a seat at a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Table

			if err := client.Post(fmt.Sprintf("/api/v1/tables/%s/join", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTableLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <table-id>",
		Short: "Give up a seat at a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Table

			if err := client.Post(fmt.Sprintf("/api/v1/tables/%s/leave", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTableDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table-id>",
		Short: "Delete a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/tables/%s", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted table %s", args[0]))
			return nil
		},
	}
}
