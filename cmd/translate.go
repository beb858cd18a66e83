package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mweigel/odrlint/internal/inference"
	"github.com/mweigel/odrlint/internal/odrl"
)

var (
	translateLeftOperand string
	translateOperator    string
	translateValue       string
	translateComment     string
	translateJSON        bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a single ODRL constraint into a Rego expression",
	Long: `Infers the semantic type of the constraint value and renders the matching
Rego boolean expression, e.g. a prefix match for hierarchical values or a
nanosecond comparison for temporal ones.`,
	Example: `  odrlint translate -l region -o isPartOf -v "eu"
  odrlint translate -l expiry -o lteq -v "2025-12-31T23:59:59Z"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		op := odrl.Operator(translateOperator)
		if !op.IsValid() {
			return fmt.Errorf("unknown operator '%s'", translateOperator)
		}

		value := parseValueArg(translateValue)

		engine := inference.New()
		result := engine.InferType(value, translateLeftOperand, translateComment)
		expression := engine.GenerateRegoExpression(translateLeftOperand, op, value, result)

		if translateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Result     inference.Result     `json:"inference"`
				Expression inference.Expression `json:"expression"`
			}{result, expression})
		}

		bold := color.New(color.Bold).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		fmt.Printf("%s %s (%s)\n", bold("Inferred type:"), result.InferredType, result.RegoType)
		fmt.Printf("%s %s\n", bold("Expression:  "), cyan(expression.Rego))
		fmt.Printf("%s %s\n", bold("Explanation: "), faint(expression.Explanation))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&translateLeftOperand, "left-operand", "l", "", "Constraint field name")
	translateCmd.Flags().StringVarP(&translateOperator, "operator", "o", "", "ODRL operator (eq, neq, lt, isAnyOf, ...)")
	translateCmd.Flags().StringVarP(&translateValue, "value", "v", "", "Right-operand value (JSON or plain string)")
	translateCmd.Flags().StringVar(&translateComment, "comment", "", "Descriptive annotation (context hint)")
	translateCmd.Flags().BoolVar(&translateJSON, "json", false, "Print inference result and expression as JSON")

	_ = translateCmd.MarkFlagRequired("left-operand")
	_ = translateCmd.MarkFlagRequired("operator")
	_ = translateCmd.MarkFlagRequired("value")
}
