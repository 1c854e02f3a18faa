// Package main provides the CLI entry point for tfcdash.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/freshconn/tfcdash/internal/api"
	"github.com/freshconn/tfcdash/pkg/tfcdash"
	"github.com/freshconn/tfcdash/pkg/tfcdash/catalog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	outputPath   string
	pretty       bool
	catalogPath  string
	fetchTimeout time.Duration
	domains      []string

	serveAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tfcdash [source.xlsx|URL]",
		Short: "Extract Fresh Connection KPI tables from a spreadsheet export",
		Long: `tfcdash loads a Fresh Connection round export (local file or URL),
extracts the financial KPI table and the per-domain functional tables,
and outputs them as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML file overriding metric patterns and domain layouts")
	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "timeout", 0, "HTTP fetch timeout for URL sources")
	rootCmd.Flags().StringSliceVar(&domains, "domains", nil, "Restrict to the named functional domains")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboard tables over HTTP",
		Long: `serve runs the JSON API consumed by the dashboard frontend.
Settings come from flags or the environment (TFCDASH_ADDR,
TFCDASH_SOURCE, TFCDASH_ORIGINS); a .env file is loaded when present.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8080)")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildOptions() (tfcdash.Options, error) {
	opts := tfcdash.DefaultOptions()
	opts.FetchTimeout = fetchTimeout
	opts.Domains = domains
	if catalogPath != "" {
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return opts, err
		}
		opts.Catalog = cat
	}
	return opts, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	dash, err := tfcdash.Build(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	var data []byte
	if pretty {
		data, err = json.MarshalIndent(dash, "", "  ")
	} else {
		data, err = json.Marshal(dash)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(data))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	// Optional .env next to the binary; missing is fine.
	_ = godotenv.Load()

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = os.Getenv("TFCDASH_ADDR")
	}
	if addr == "" {
		addr = ":8080"
	}

	cfg := api.Config{
		Addr:          addr,
		DefaultSource: os.Getenv("TFCDASH_SOURCE"),
	}
	if origins := os.Getenv("TFCDASH_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	return api.New(cfg, opts).ListenAndServe()
}
