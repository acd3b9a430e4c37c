package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studentcatalog/catalog-web/pkg/logger"
)

var logLevel string

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Student and course catalog web front-end",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("LOG_LEVEL"), "debug|info|warn|error")

	root.AddCommand(serveCmd(), snapshotCmd(), fakeCmd())
	return root
}

func Execute() error {
	err := NewRoot().Execute()
	if err != nil {
		logger.Errorf("%v", err)
	}
	return err
}
