package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/intentmap/pkg/catalog"
	"github.com/agentstation/intentmap/pkg/validate"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate [catalog.json]",
	Short: "Validate a catalog snapshot",
	Long: `Validate checks a catalog snapshot for structural problems:
malformed ids, dangling relationship endpoints, and missing required
fields. With --strict, extraction warnings and cross-repo id collisions
also fail the run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on warnings and collisions, not just errors")
}

func runValidate(_ *cobra.Command, args []string) error {
	path := "dist/catalog.json"
	if len(args) > 0 {
		path = args[0]
	}

	c, err := catalog.Load(path)
	if err != nil {
		return err
	}

	result := validate.Validate(c)
	fmt.Fprint(os.Stdout, result.String())

	if !result.IsValid() {
		return fmt.Errorf("validation failed with %d errors", len(result.Errors))
	}

	if validateStrict {
		if len(result.Warnings) > 0 {
			return fmt.Errorf("strict mode: %d warnings present", len(result.Warnings))
		}
		if collisions := validate.DetectCollisions(c); len(collisions) > 0 {
			for _, collision := range collisions {
				fmt.Fprintf(os.Stderr, "collision: %s %q in %v\n", collision.Type, collision.ID, collision.Repos)
			}
			return fmt.Errorf("strict mode: %d cross-repo id collisions", len(collisions))
		}
	}

	fmt.Fprintln(os.Stdout, "Catalog is valid")
	return nil
}
