package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Community administration commands",
	}

	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminEventsCmd())
	cmd.AddCommand(newAdminTablesCmd())
	cmd.AddCommand(newAdminGamesCmd())
	cmd.AddCommand(newAdminApproveCmd())
	cmd.AddCommand(newAdminRoleCmd())
	cmd.AddCommand(newAdminBadgesCmd())
	cmd.AddCommand(newAdminDeleteUserCmd())
	cmd.AddCommand(newAdminStatsCmd())

	return cmd
}

func newAdminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []User

			if err := client.Get("/api/v1/admin/users", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List all events, including archived ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Event

			if err := client.Get("/api/v1/admin/events", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List all sign-up tables across every event",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Table

			if err := client.Get("/api/v1/admin/tables", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List all free-game lists across every event",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []GameList

			if err := client.Get("/api/v1/admin/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <user-id>",
		Short: "Approve a pending user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Post(fmt.Sprintf("/api/v1/admin/users/%s/approve", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminRoleCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "role <user-id>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"role": role}
			var result User

			if err := client.Patch(fmt.Sprintf("/api/v1/admin/users/%s/role", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "New role: member, admin (required)")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newAdminBadgesCmd() *cobra.Command {
	var badges []string

	cmd := &cobra.Command{
		Use:   "badges <user-id>",
		Short: "Replace a user's badges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"badges": badges}
			var result User

			if err := client.Put(fmt.Sprintf("/api/v1/admin/users/%s/badges", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&badges, "badge", nil, "Badge to assign (repeatable; none clears all)")

	return cmd
}

func newAdminDeleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <user-id>",
		Short: "Delete a user and everything they created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/admin/users/%s", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted user %s", args[0]))
			return nil
		},
	}
}

func newAdminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show community statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get("/api/v1/admin/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
