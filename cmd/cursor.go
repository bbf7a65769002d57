package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vitalya-dev/tickethub/internal/config"
	"github.com/vitalya-dev/tickethub/internal/cursor"
)

var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Inspect or set source watermarks",
}

var cursorShowCmd = &cobra.Command{
	Use:   "show <source>",
	Short: "Print the persisted watermark for a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		store := cursor.NewStore(cfg.Cursor.Dir)
		v, ok, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("%s: no cursor (next run bootstraps from the source's max id)\n", args[0])
			return nil
		}
		fmt.Printf("%s: %d\n", args[0], v)
		return nil
	},
}

var cursorSetCmd = &cobra.Command{
	Use:   "set <source> <id>",
	Short: "Overwrite the persisted watermark (replays rows above it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id < 0 {
			return fmt.Errorf("invalid id %q", args[1])
		}

		store := cursor.NewStore(cfg.Cursor.Dir)
		if err := store.Save(args[0], id); err != nil {
			return err
		}
		fmt.Printf("%s: %d\n", args[0], id)
		return nil
	},
}

func init() {
	cursorCmd.AddCommand(cursorShowCmd)
	cursorCmd.AddCommand(cursorSetCmd)
}
