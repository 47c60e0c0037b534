package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/structgen/buildergen/pkg/action/generate"
	"github.com/structgen/buildergen/pkg/generator"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	options := generator.NewOptions()

	var genCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate builders",
		Long:  "Scan a package for annotated structs and write their builder types",
		RunE: func(c *cobra.Command, args []string) error {
			applyConfig(options)
			_, err := generate.Generate(options)
			return err
		},
	}
	genCmd.PersistentFlags().StringVarP(&options.InDir, "input-directory", "i", ".", "directory to scan")
	genCmd.PersistentFlags().StringVarP(&options.OutDir, "output-directory", "o", "", "directory to write generated builders (defaults to the input directory)")
	genCmd.PersistentFlags().StringVarP(&options.OutFile, "output-file", "f", "builders_gen.go", "output file where builders will be written")
	genCmd.PersistentFlags().StringVarP(&options.Suffix, "suffix", "s", "Builder", "suffix to append to generated builder types")
	genCmd.PersistentFlags().StringSliceVarP(&options.Types, "type", "t", []string{}, "struct names to generate builders for (default: marker-annotated structs)")

	return genCmd
}

// applyConfig overlays viper-provided settings onto flag defaults that the
// user did not set explicitly.
func applyConfig(o *generator.Options) {
	if o.InDir == "." && viper.IsSet("in_dir") {
		o.InDir = viper.GetString("in_dir")
	}
	if o.OutDir == "" && viper.IsSet("out_dir") {
		o.OutDir = viper.GetString("out_dir")
	}
	if o.OutFile == "builders_gen.go" && viper.IsSet("out_file") {
		o.OutFile = viper.GetString("out_file")
	}
	if o.Suffix == "Builder" && viper.IsSet("suffix") {
		o.Suffix = viper.GetString("suffix")
	}
	if len(o.Types) == 0 && viper.IsSet("types") {
		o.Types = viper.GetStringSlice("types")
	}
}
