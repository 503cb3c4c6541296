// Package main implements propsearch, a CLI for trying caller phrases
// against a property inventory file.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/property-call-search/internal/logging"
	"github.com/denisok6893-rgb/property-call-search/internal/matching"
	"github.com/denisok6893-rgb/property-call-search/internal/storage"
)

var (
	propertiesPath string
	vocabularyPath string
	asJSON         bool
	logLevel       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "propsearch",
	Short: "Try natural-language property searches from the terminal",
	Long: `propsearch runs the same criteria extraction, matching and response
composition that the call webhook uses, against a JSON inventory file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vocabularyPath, "vocabulary", "", "JSON file overriding the built-in vocabulary")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")

	searchCmd.Flags().StringVar(&propertiesPath, "properties", "data/properties.json", "JSON inventory file")
	searchCmd.Flags().BoolVar(&asJSON, "json", false, "print criteria, matches and response as JSON")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(searchCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Print the criteria extracted from text",
	Long: `Print the criteria extracted from text.

Examples:
  propsearch parse "3 bedroom villa in Palm Jumeirah under 15 million AED"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search the inventory and print the spoken response",
	Long: `Search the inventory and print the response a voice agent would say.

Examples:
  propsearch search "2 bed apartment in Dubai Marina around 2 million AED"
  propsearch search --json --properties data/properties.json "offplan townhouse with garden"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func newEngine() (*matching.Engine, error) {
	if vocabularyPath == "" {
		return matching.NewEngine(matching.DefaultVocabulary()), nil
	}
	v, err := matching.LoadVocabularyFromFile(vocabularyPath)
	if err != nil {
		return nil, err
	}
	return matching.NewEngine(v), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), engine.ParseCriteria(strings.Join(args, " ")))
}

func runSearch(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	props, err := storage.LoadPropertiesFromFile(propertiesPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{Level: logLevel, Writer: cmd.ErrOrStderr(), Pretty: true})
	ctx := logging.WithLogger(cmd.Context(), logger)

	res, err := engine.RunSearch(ctx, strings.Join(args, " "), storage.NewMemoryInventory(props))
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if asJSON {
		return printJSON(cmd.OutOrStdout(), res)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Response)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
