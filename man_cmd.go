package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generates manpages",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		page, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return fmt.Errorf("unable to create man page: %w", err)
		}

		page = page.WithSection("Braille", "Output uses the Unicode Braille Patterns block (U+2800..U+283F).\n"+
			"Characters without a Grade 1 cell are written as a literal question mark.")
		fmt.Println(page.Build(roff.NewDocument()))
		return nil
	},
}
