package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/pinochle-score/internal/api/request"
	"github.com/mcoot/pinochle-score/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game and hand commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameStartHandCmd())
	cmd.AddCommand(newGameBidCmd())
	cmd.AddCommand(newGameTrumpCmd())
	cmd.AddCommand(newGameMeldCmd())
	cmd.AddCommand(newGameTricksCmd())
	cmd.AddCommand(newGameHandsCmd())
	cmd.AddCommand(newGameCurrentCmd())
	cmd.AddCommand(newGameTotalsCmd())

	return cmd
}

func gamePath(id string, parts ...string) string {
	path := "/api/v1/games/" + id
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

func printResult(cmd *cobra.Command, result any) {
	NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
}

func parseInts(args ...string) ([]int, error) {
	values := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		values[i] = v
	}
	return values, nil
}

func newGameNewCmd() *cobra.Command {
	var dealer string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new game",
		Long:  "Create a new game. Without --dealer the first dealer is picked at random.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Post(cmd.Context(), "/api/v1/games", request.CreateGameRequest{Dealer: dealer}, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dealer, "dealer", "", "First dealer: north, east, south or west")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameList
			if err := client.Get(cmd.Context(), "/api/v1/games", &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Get(cmd.Context(), gamePath(args[0]), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), gamePath(args[0])); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Game " + args[0] + " deleted")
			return nil
		},
	}
}

func newGameStartHandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-hand <id>",
		Short: "Deal the first hand of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Post(cmd.Context(), gamePath(args[0], "hands"), nil, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameBidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bid <id> <player> <amount>",
		Short: "Record the winning bid of the current hand",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseInts(args[2])
			if err != nil {
				return err
			}

			var result response.Game
			req := request.BidRequest{Player: args[1], Bid: amount[0]}
			if err := client.Post(cmd.Context(), gamePath(args[0], "bid"), req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameTrumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trump <id> <suit>",
		Short: "Declare trump, or no_marriage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			req := request.TrumpRequest{Trump: args[1]}
			if err := client.Post(cmd.Context(), gamePath(args[0], "trump"), req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameMeldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meld <id> <us> <them>",
		Short: "Record both teams' meld",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseInts(args[1], args[2])
			if err != nil {
				return err
			}

			var result response.Game
			req := request.MeldRequest{UsMeld: values[0], ThemMeld: values[1]}
			if err := client.Post(cmd.Context(), gamePath(args[0], "meld"), req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameTricksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tricks <id> <us> <them>",
		Short: "Record both teams' trick points",
		Long:  "Record both teams' trick points. A zero for one team is filled in from the other.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseInts(args[1], args[2])
			if err != nil {
				return err
			}

			var result response.Game
			req := request.TricksRequest{UsTricks: values[0], ThemTricks: values[1]}
			if err := client.Post(cmd.Context(), gamePath(args[0], "tricks"), req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameHandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hands <id>",
		Short: "List a game's completed hands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.HandList
			if err := client.Get(cmd.Context(), gamePath(args[0], "hands"), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current <id>",
		Short: "Show the hand in play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Hand
			if err := client.Get(cmd.Context(), gamePath(args[0], "hands", "current"), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newGameTotalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals <id>",
		Short: "Show running totals and the winner, if any",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Totals
			if err := client.Get(cmd.Context(), gamePath(args[0], "totals"), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}
