package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"payrollguard/preflight/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate the configuration file without running anything.

All validation problems are reported at once, each with its field path.

Examples:
  preflight validate --config preflight.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, err := config.Load(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("Configuration invalid: %d problem(s)\n", len(verr.Errors))
			for _, fe := range verr.Errors {
				fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return err
	}

	fmt.Printf("Configuration %s is valid\n", cfgFile)
	return nil
}
