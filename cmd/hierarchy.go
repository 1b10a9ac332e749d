package cmd

import (
	"encoding/json"
	"fmt"

	"bulkdozer/core/hierarchy"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportHierarchy bool

// hierarchyCmd represents the hierarchy command
var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy [campaign ids...]",
	Short: "Print the campaign tree",
	Long: `Fetches the campaigns listed in the Campaign table, plus any ids given as
arguments, and prints them as a campaign > group > placement > ad tree.
With --export the tree is uploaded to object storage as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		svc := a.bulkService()
		tree, err := svc.Hierarchy(ctx, args)
		if err != nil {
			return err
		}

		if exportHierarchy {
			if err := a.ensureBucket(ctx); err != nil {
				return err
			}
			name, err := svc.ExportHierarchy(ctx, tree)
			if err != nil {
				return err
			}
			a.logger.Info("Hierarchy exported", zap.String("bucket", a.cfg.Storage.Bucket), zap.String("object", name))
			return nil
		}

		printTree(tree)
		for _, o := range tree.Orphans {
			a.logger.Warn("Orphan", zap.String("kind", o.Kind), zap.String("id", o.ID),
				zap.String("parent_kind", o.ParentKind), zap.String("parent_id", o.ParentID))
		}
		return nil
	},
}

var hierarchyJSONCmd = &cobra.Command{
	Use:   "json [campaign ids...]",
	Short: "Print the campaign tree as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		tree, err := a.bulkService().Hierarchy(ctx, args)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	hierarchyCmd.Flags().BoolVar(&exportHierarchy, "export", false, "Upload the tree to object storage")
	hierarchyCmd.AddCommand(hierarchyJSONCmd)

	RootCmd.AddCommand(hierarchyCmd)
}

func printTree(tree *hierarchy.Tree) {
	for _, c := range tree.Campaigns {
		fmt.Printf("Campaign %s\n", label(c.Entity))
		for _, g := range c.PlacementGroups {
			fmt.Printf("  Group %s\n", label(g.Entity))
			for _, p := range g.Placements {
				printPlacement(p, "    ")
			}
		}
		for _, p := range c.Placements {
			printPlacement(p, "  ")
		}
	}
}

func printPlacement(p *hierarchy.Placement, indent string) {
	fmt.Printf("%sPlacement %s\n", indent, label(p.Entity))
	for _, ad := range p.Ads {
		fmt.Printf("%s  Ad %s\n", indent, label(ad.Entity))
		for _, ca := range ad.Creatives {
			if ca.Creative == nil {
				continue
			}
			fmt.Printf("%s    Creative %s\n", indent, label(ca.Creative))
		}
	}
}

func label(e remote.Entity) string {
	return fmt.Sprintf("%s (%s)", utils.ToString(e["name"]), remote.ID(e))
}
