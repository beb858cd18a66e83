package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mweigel/odrlint/internal/inference"
)

var (
	inferLeftOperand string
	inferComment     string
	inferJSON        bool
)

var inferCmd = &cobra.Command{
	Use:   "infer VALUE",
	Short: "Infer the semantic type of a constraint value",
	Long: `Classifies a right-operand value into one of the sixteen semantic types
and shows how a Rego code generator should treat it: the target primitive
type, the recommended functions, the valid ODRL operators, and whether the
value needs parsing before comparison.

The value is interpreted as JSON when possible ('[1,2]', 'true', '42'),
otherwise as a plain string.`,
	Example: `  odrlint infer "2024-01-15T10:00:00Z"
  odrlint infer '["1","2","3"]'
  odrlint infer engineering --left-operand department`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := parseValueArg(args[0])

		engine := inference.New()
		result := engine.InferType(value, inferLeftOperand, inferComment)

		if inferJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendRow(table.Row{"Inferred type", string(result.InferredType)})
		t.AppendRow(table.Row{"Rego type", result.RegoType})
		t.AppendRow(table.Row{"Value", fmt.Sprintf("%v", result.OriginalValue)})
		t.AppendRow(table.Row{"Recommended functions", fmt.Sprintf("%v", result.RecommendedFunctions)})
		t.AppendRow(table.Row{"ODRL operators", fmt.Sprintf("%v", result.ComparisonOperators)})
		t.AppendRow(table.Row{"Requires parsing", result.RequiresParsing})
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

// parseValueArg decodes the argument as JSON when possible so lists,
// numbers, and booleans keep their types; anything else stays a string.
func parseValueArg(arg string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(arg)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return arg
	}
	return v
}

func init() {
	rootCmd.AddCommand(inferCmd)

	inferCmd.Flags().StringVarP(&inferLeftOperand, "left-operand", "l", "", "Field name the value is compared against (context hint)")
	inferCmd.Flags().StringVar(&inferComment, "comment", "", "Descriptive annotation, e.g. an rdfs:comment (context hint)")
	inferCmd.Flags().BoolVar(&inferJSON, "json", false, "Print the result as JSON")
}
