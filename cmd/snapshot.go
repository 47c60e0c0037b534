package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/structgen/buildergen/pkg/action/snapshot"
	"github.com/structgen/buildergen/pkg/generator"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var (
		options               = generator.NewOptions()
		manifestPath          = "buildergen.manifest.yaml"
		snapName, snapVersion string
	)

	var snapCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "generate builders and record a snapshot",
		Long:  "Regenerate builders, record the output in the manifest, and keep current/previous versions for diffing",
		RunE: func(c *cobra.Command, args []string) error {
			applyConfig(options)
			_, err := snapshot.Generate(options, manifestPath, snapName, snapVersion)
			return err
		},
	}
	snapCmd.PersistentFlags().StringVarP(&options.InDir, "input-directory", "i", ".", "directory to scan")
	snapCmd.PersistentFlags().StringVarP(&options.OutDir, "output-directory", "o", "", "directory to write generated builders (defaults to the input directory)")
	snapCmd.PersistentFlags().StringVarP(&options.OutFile, "output-file", "f", "builders_gen.go", "output file where builders will be written")
	snapCmd.PersistentFlags().StringSliceVarP(&options.Types, "type", "t", []string{}, "struct names to generate builders for")
	snapCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "buildergen.manifest.yaml", "manifest file tracking snapshots")
	snapCmd.PersistentFlags().StringVarP(&snapName, "name", "n", "builders", "snapshot name")
	snapCmd.PersistentFlags().StringVarP(&snapVersion, "snapshot-version", "V", "", "snapshot version")

	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			out, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println("no changes")
				return nil
			}
			fmt.Print(out)
			return nil
		},
	}
	snapCmd.AddCommand(diffCmd)

	return snapCmd
}
