package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/nextitem/internal/corpus"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate and load a corpus bundle",
	Long: `Load items, ability estimates and response history from a JSON bundle.

Each (learning unit, activity type) corpus in the bundle replaces the stored
one. Use "-" to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Bool("dry-run", false, "Validate the bundle without writing it")
}

func runImport(cmd *cobra.Command, args []string) error {
	f := os.Stdin
	if args[0] != "-" {
		var err error
		if f, err = os.Open(args[0]); err != nil {
			return fmt.Errorf("open bundle: %w", err)
		}
		defer f.Close()
	}

	b, err := corpus.Parse(f)
	if err != nil {
		return err
	}
	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		fmt.Printf("bundle ok: %d items, %d abilities, %d events\n", len(b.Items), len(b.Abilities), len(b.Events))
		return nil
	}

	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	sum, err := corpus.NewImporter(rt.st).Import(cmd.Context(), b)
	if err != nil {
		return err
	}
	rt.log.Info("imported bundle", "corpora", sum.Corpora, "items", sum.Items, "abilities", sum.Abilities, "events", sum.Events)
	fmt.Printf("imported %d corpora (%d items), %d abilities, %d events\n", sum.Corpora, sum.Items, sum.Abilities, sum.Events)
	return nil
}
