// Command tilawa reads the Quran page by page in the terminal and recites
// it verse by verse.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tilawa",
		Short:         "Read and listen to the Quran in the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}
	root.Flags().IntP("page", "p", 0, "Open this page (1-604) instead of the last one read")
	root.Flags().IntP("reciter", "r", 0, "Recitation id (see 'tilawa reciters'); remembered for next time")
	root.Flags().BoolP("autoplay", "a", false, "Continue to the next page at the end of a page")

	root.AddCommand(newRecitersCmd())
	return root
}

func newRecitersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reciters",
		Short: "List the available recitations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reciters, err := newContentClient(cfg).Reciters(cmd.Context())
			if err != nil {
				return fmt.Errorf("list reciters: %w", err)
			}
			printReciters(cmd.OutOrStdout(), reciters, cfg.Reciter)
			return nil
		},
	}
}
