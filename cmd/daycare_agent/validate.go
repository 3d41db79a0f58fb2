package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/daycare-finder/internal/config"
	"github.com/jonathan/daycare-finder/internal/places"
	"github.com/jonathan/daycare-finder/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long: "Validates a JSON file against one of the built-in schemas (" + strings.Join(schemas.Names(), ", ") +
		") or a JSON Schema file. Weights and discount lists are also checked semantically.",
	Example: `  daycare_agent validate --schema weights --json weights.json
  daycare_agent validate --schema ./my.schema.json --json data.json`,
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Built-in schema name or path to a JSON Schema file (required)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(validateJSON); err != nil {
		return fmt.Errorf("JSON file not found: %s", validateJSON)
	}

	var err error
	if isBuiltinSchema(validateSchema) {
		err = validateBuiltin(validateSchema, validateJSON)
	} else {
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	}
	if err != nil {
		//nolint:staticcheck // user-facing message
		return fmt.Errorf("Validation failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", validateJSON)
	return nil
}

// validateBuiltin runs the same loader the other commands use, so semantic
// errors (all-zero weights, blank discount entries, bad URLs) are reported along
// with schema violations. Weights and discount lists may be YAML.
func validateBuiltin(name, path string) error {
	switch name {
	case schemas.Weights:
		_, err := config.LoadWeights(path)
		return err
	case schemas.DiscountList:
		_, err := config.LoadDiscountList(path)
		return err
	case schemas.Providers:
		_, err := places.LoadProvidersFile(path)
		return err
	default:
		return schemas.ValidateFile(name, path)
	}
}

func isBuiltinSchema(name string) bool {
	for _, n := range schemas.Names() {
		if n == name {
			return true
		}
	}
	return false
}
