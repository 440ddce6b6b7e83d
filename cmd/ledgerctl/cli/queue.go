package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show background queue depth",
	RunE:  runQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, args []string) error {
	client := newJobsClient(redisAddr)
	defer func() { _ = client.Close() }()

	stats, err := client.QueueStats()
	if err != nil {
		return err
	}

	// Grouped digits keep big backlogs readable.
	p := message.NewPrinter(language.English)
	p.Fprintf(cmd.OutOrStdout(), "queue %s\n", stats.Queue)
	p.Fprintf(cmd.OutOrStdout(), "  pending   %d\n", stats.Pending)
	p.Fprintf(cmd.OutOrStdout(), "  active    %d\n", stats.Active)
	p.Fprintf(cmd.OutOrStdout(), "  scheduled %d\n", stats.Scheduled)
	p.Fprintf(cmd.OutOrStdout(), "  retry     %d\n", stats.Retry)
	p.Fprintf(cmd.OutOrStdout(), "  archived  %d\n", stats.Archived)
	return nil
}
