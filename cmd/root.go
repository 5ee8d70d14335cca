package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/liamg/portprobe/scan"
	"github.com/liamg/portprobe/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var requestConfig = scan.DefaultRequestConfig()

var debug bool
var timeoutMS = int(scan.DefaultTimeout / time.Millisecond)
var parallelism int
var targetIP = requestConfig.FallbackIP.String()
var startPort = 1
var endPort = int(requestConfig.MaxPort)
var versionRequested bool

func init() {
	rootCmd.PersistentFlags().StringVarP(&targetIP, "ip", "a", targetIP, "IP address to scan")
	rootCmd.PersistentFlags().IntVarP(&startPort, "start", "s", startPort, "First port to scan. Must be greater than 0")
	rootCmd.PersistentFlags().IntVarP(&endPort, "end", "e", endPort, "Port to stop at (not scanned). Must be less than or equal to 65535")
	rootCmd.PersistentFlags().BoolVarP(&versionRequested, "version", "", versionRequested, "Output version information and exit")
	rootCmd.PersistentFlags().BoolVarP(&debug, "verbose", "v", debug, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVarP(&timeoutMS, "timeout-ms", "t", timeoutMS, "Connect timeout per port in MS, 0 uses the system default")
	rootCmd.PersistentFlags().IntVarP(&parallelism, "workers", "w", parallelism, "Maximum concurrent connection attempts, 0 for no limit")
}

var rootCmd = &cobra.Command{
	Use:   "portprobe",
	Short: "portprobe is a TCP port scanner",
	Long:  `A TCP connect scanner which reports the open ports of a single host.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {

		if versionRequested {
			v := version.Version
			if v == "" {
				v = "development version"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "portprobe %s\n", v)
			return
		}

		if err := run(context.Background(), cmd.OutOrStdout()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// run validates the parsed flags and scans the requested range.
func run(ctx context.Context, out io.Writer) error {

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	req, err := requestConfig.NewRequest(targetIP, startPort, endPort)
	if err != nil {
		return err
	}

	scanner := createScanner(time.Millisecond*time.Duration(timeoutMS), parallelism)

	return runScan(ctx, out, scanner, req)
}

func createScanner(timeout time.Duration, routines int) scan.Scanner {
	log.Debugf("Creating connect scanner with timeout %s and %d workers", timeout, routines)
	return scan.NewConnectScanner(timeout, routines)
}

func runScan(ctx context.Context, out io.Writer, scanner scan.Scanner, req scan.ScanRequest) error {
	result := scanner.Scan(ctx, req)
	return scanner.OutputResult(out, result)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
