package cmd

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mweigel/odrlint/internal/odrl"
)

var debugPolicyCmd = &cobra.Command{
	Use:   "policy FILE",
	Short: "Dump the parsed document model of a policy file",
	Long: `Decodes a JSON-LD policy document and dumps the resulting in-memory
model, which shows how envelope shapes and single-vs-array members were
canonicalized. No validation or cleanup is performed.`,
	Example: `  odrlint debug policy policy.jsonld`,
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

		log.Info().Msgf("envelope shape: %s, %d policy(ies)", doc.Shape, len(doc.Policies))
		spew.Dump(doc.Policies)
		return nil
	},
}

func init() {
	debugCmd.AddCommand(debugPolicyCmd)
}
