package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"studyforge/cmd/studyforge/cmd/serve"
	"studyforge/cmd/studyforge/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studyforge",
	Short: "Service that turns uploaded media and documents into study content",
	Long: `Service that turns uploaded media and documents into study content.
- Clients upload files against presigned URLs and register them as projects
- A two phase pipeline transcribes the source, then fans out generation jobs
- Results land back through worker callbacks and stream to watchers live.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
