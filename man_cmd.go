package main

import (
	"fmt"
	"os"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man page",
	Args:   cobra.NoArgs,
	Hidden: true,
	RunE: func(*cobra.Command, []string) error {
		manPage, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return fmt.Errorf("unable to create man page: %w", err)
		}

		_, err = fmt.Fprint(os.Stdout, manPage.Build(roff.NewDocument()))
		if err != nil {
			return fmt.Errorf("unable to write man page: %w", err)
		}
		return nil
	},
}
