package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Free-game list commands",
	}

	cmd.AddCommand(newGamesCreateCmd())
	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesGetCmd())
	cmd.AddCommand(newGamesReplaceCmd())
	cmd.AddCommand(newGamesRemoveCmd())
	cmd.AddCommand(newGamesDeleteCmd())

	return cmd
}

// parseGameFlags turns repeated --game "Name:optional note" flags into entries
func parseGameFlags(games []string) []map[string]string {
	entries := make([]map[string]string, len(games))
	for i, g := range games {
		name, note, _ := strings.Cut(g, ":")
		entry := map[string]string{"name": strings.TrimSpace(name)}
		if note != "" {
			entry["note"] = strings.TrimSpace(note)
		}
		entries[i] = entry
	}
	return entries
}

func newGamesCreateCmd() *cobra.Command {
	var games []string

	cmd := &cobra.Command{
		Use:   "create <event-id>",
		Short: "Share a list of free games at an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"games": parseGameFlags(games)}
			var result GameList

			if err := client.Post(fmt.Sprintf("/api/v1/events/%s/games", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&games, "game", nil, `Game as "Name" or "Name:note" (repeatable, required)`)
	_ = cmd.MarkFlagRequired("game")

	return cmd
}

func newGamesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-id>",
		Short: "List free-game lists at an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []GameList

			if err := client.Get(fmt.Sprintf("/api/v1/events/%s/games", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <list-id>",
		Short: "Get a free-game list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameList

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamesReplaceCmd() *cobra.Command {
	var games []string

	cmd := &cobra.Command{
		Use:   "replace <list-id>",
		Short: "Replace the games in a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"games": parseGameFlags(games)}
			var result GameList

			if err := client.Put(fmt.Sprintf("/api/v1/games/%s", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&games, "game", nil, `Game as "Name" or "Name:note" (repeatable, required)`)
	_ = cmd.MarkFlagRequired("game")

	return cmd
}

func newGamesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <list-id> <index>",
		Short: "Remove one game from a list by position",
		Long:  "Remove one game from a list by position. Removing the last game deletes the list.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("index must be an integer")
			}

			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s/items/%s", args[0], args[1])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Removed game %s from list %s", args[1], args[0]))
			return nil
		},
	}
}

func newGamesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a free-game list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted list %s", args[0]))
			return nil
		},
	}
}
