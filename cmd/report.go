package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mweigel/odrlint/internal/odrl"
	"github.com/mweigel/odrlint/internal/resolver"
)

var reportCmd = &cobra.Command{
	Use:   "report FILE",
	Short: "Show which prohibition constraints duplicate permission constraints",
	Long: `Analyzes a policy document and prints every detected duplication without
modifying anything. Useful to review what a clean run would remove.`,
	Example: `  odrlint report policy.jsonld`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		doc, err := odrl.DecodeDocument(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}

		res := resolver.New()
		total := 0
		for i := range doc.Policies {
			total += printDuplications(&doc.Policies[i], res, i)
		}

		fmt.Println("---------------------------------------------------")
		if total == 0 {
			fmt.Printf("No duplications found in %s\n", args[0])
		} else {
			fmt.Printf("%d duplication(s) found in %s\n", total, args[0])
		}
		return nil
	},
}

func printDuplications(policy *odrl.Policy, res *resolver.Resolver, index int) int {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	policyID := policy.UID
	if policyID == "" {
		policyID = fmt.Sprintf("policy_%d", index)
	}

	duplications := res.FindDuplications(policy)

	fmt.Printf("\n%s %s\n", bold("Policy:"), bold(policyID))
	fmt.Println(faint("---------------------------------------------------"))

	if len(duplications) == 0 {
		fmt.Println(faint("  no duplications"))
		return 0
	}

	for _, dup := range duplications {
		kind := cyan("exact duplicate")
		if dup.Kind == resolver.KindLogicalInverse {
			kind = cyan("logical inverse")
		}

		fmt.Printf("  %s %s on %s\n", red("✖"), kind, bold(dup.PermConstraint.LeftOperand))
		fmt.Printf("      permission  #%d: %s %v\n",
			dup.PermissionIdx, dup.PermConstraint.Operator, dup.PermConstraint.RightOperand)
		fmt.Printf("      prohibition #%d: %s %v %s\n",
			dup.ProhibitionIdx, dup.ProhibConstraint.Operator, dup.ProhibConstraint.RightOperand,
			faint("(would be removed)"))
	}

	return len(duplications)
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
