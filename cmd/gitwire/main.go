package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gitwire/internal/inspect"
	"gitwire/internal/progress"
	"gitwire/internal/wsstream"
	"gitwire/pkg/transport"

	"github.com/spf13/cobra"
)

var (
	protocolVersion string
	sideBand        bool
	failOnErrLines  bool
	digest          bool
	verbose         bool
	websocketURL    string
)

var rootCmd = &cobra.Command{
	Use:   "gitwire",
	Short: "gitwire - Packet line stream tools",
	Long:  `gitwire reads packet line streams of the smart transfer protocol and shows their structure.`,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the lines, side-band text and stops of a captured stream",
	Long: `Show the lines of a captured packet line stream, segment by segment.

The stream is read from file, from stdin when file is "-" or missing, or from
a WebSocket endpoint sending the stream as binary messages (--ws).

Every segment ends at a stop marker: flush for protocol v1, delimiter or
flush for protocol v2. After a stop, reading resumes with the next segment
until the stream ends or a response-end line arrives.

With --side-band, progress and error text is written to stderr and only
payload is listed.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := transport.ParseProtocol(protocolVersion)
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		in, closeInput, err := openInput(args)
		if err != nil {
			return err
		}
		defer closeInput()

		renderer := progress.NewRenderer(os.Stderr)
		segments, err := inspect.Run(in, cmd.OutOrStdout(), inspect.Options{
			Protocol:       version,
			SideBand:       sideBand,
			FailOnErrLines: failOnErrLines,
			Digest:         digest,
			Progress:       renderer.Handle,
			Logger:         logger,
		})
		renderer.Close()
		if dropped := renderer.Dropped(); dropped > 0 {
			logger.Warn("Dropped progress messages", "count", dropped)
		}
		if err != nil {
			return fmt.Errorf("inspect failed: %w", err)
		}

		for _, remote := range renderer.Summary() {
			logger.Debug("Remote progress", "action", remote.Action, "step", remote.Step, "max", remote.Max, "done", remote.Done)
		}
		logger.Debug("Inspected stream", "segments", len(segments))
		return nil
	},
}

// openInput returns the stream to inspect and a function releasing it.
func openInput(args []string) (io.Reader, func(), error) {
	if websocketURL != "" {
		if len(args) > 0 {
			return nil, nil, fmt.Errorf("--ws and a file argument are mutually exclusive")
		}
		r, conn, err := wsstream.Dial(websocketURL)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = conn.Close() }, nil
	}

	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stream: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func init() {
	inspectCmd.Flags().StringVarP(&protocolVersion, "protocol", "p", "v2", "Protocol version deciding the stop markers (v1 or v2)")
	inspectCmd.Flags().BoolVar(&sideBand, "side-band", false, "Decode side-band channels; progress and errors go to stderr")
	inspectCmd.Flags().BoolVar(&failOnErrLines, "fail-on-err-lines", false, "Fail on ERR lines sent by the remote")
	inspectCmd.Flags().BoolVar(&digest, "digest", false, "Print an xxhash digest of every segment's payload")
	inspectCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every reader operation to stderr")
	inspectCmd.Flags().StringVar(&websocketURL, "ws", "", "Read the stream from a WebSocket URL instead of a file")

	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
