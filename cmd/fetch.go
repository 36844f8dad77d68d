// =============================================================================
// Catalog Feed Converter - Fetch Command
// =============================================================================
//
// COMMAND USAGE:
//   catalogfeed fetch <url> [--header K=V]... [--param K=V]... [--timeout 3s]
//
// Prints the JSON body of a GET request, indented, to stdout. Failures are
// logged by the fetcher and the command exits non-zero.
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/catalog-feed/internal/fetcher"
)

var (
	fetchHeaders []string
	fetchParams  []string
	fetchTimeout time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "GET a JSON document and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringArrayVarP(&fetchHeaders, "header", "H", nil,
		"Request header as KEY=VALUE (repeatable)")
	fetchCmd.Flags().StringArrayVarP(&fetchParams, "param", "p", nil,
		"Query parameter as KEY=VALUE (repeatable)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 0,
		"Request timeout (overrides fetch.timeout)")
}

func runFetch(cmd *cobra.Command, url string) error {
	headers, err := parseKeyValues(fetchHeaders)
	if err != nil {
		return fmt.Errorf("--header: %w", err)
	}
	params, err := parseKeyValues(fetchParams)
	if err != nil {
		return fmt.Errorf("--param: %w", err)
	}

	timeout := appConfig.Fetch.Timeout
	if fetchTimeout > 0 {
		timeout = fetchTimeout
	}

	body := fetcher.New(nil).Get(cmd.Context(), url, fetcher.Options{
		Headers: headers,
		Params:  params,
		Timeout: timeout,
	})
	if body == nil {
		return fmt.Errorf("no result from %s", url)
	}

	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// parseKeyValues splits KEY=VALUE pairs. Only the first '=' separates.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", pair)
		}
		out[key] = value
	}
	return out, nil
}
