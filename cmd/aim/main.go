package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aim/internal/gateway"
	"aim/internal/mapper"
	"aim/internal/usecase"
)

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aim",
	Short: "AIM - Actuarial Input Mapper",
	Long: `AIM ingests insurance-application data from CSV or JSON files,
maps fields to a product's actuarial naming scheme, stores the mapped
records with duplicate detection, and compares stored records against
calculator field definitions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a CSV or JSON input file for a product type",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

var compareCmd = &cobra.Command{
	Use:   "compare <record-id>",
	Short: "Compare a stored record against a calculator's field definitions",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	RunE:  runList,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the mapping specification summary for a product type",
	RunE:  runSummary,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record store statistics",
	RunE:  runStats,
}

var productType string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "aim.yaml", "Path to the mapping/calculator configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "aim_data.db", "Path to the SQLite record store")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	ingestCmd.Flags().StringVarP(&productType, "product", "p", "", "Product type (required)")
	_ = ingestCmd.MarkFlagRequired("product")
	compareCmd.Flags().StringVarP(&productType, "product", "p", "", "Product type (defaults to the record's)")
	listCmd.Flags().StringVarP(&productType, "product", "p", "", "Filter by product type")
	summaryCmd.Flags().StringVarP(&productType, "product", "p", "", "Product type (required)")
	_ = summaryCmd.MarkFlagRequired("product")

	rootCmd.AddCommand(ingestCmd, compareCmd, listCmd, summaryCmd, statsCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := gateway.LoadConfig(configPath, logger)
	if err != nil {
		return err
	}
	store, err := gateway.NewSQLiteRecordStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	path := args[0]
	source, err := recordSourceFor(path)
	if err != nil {
		return err
	}

	engine := mapper.New(logger)
	uc := usecase.NewIngestUseCase(cfg, store, engine, logger)

	report, err := uc.Ingest(cmd.Context(), source, path, productType)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func runCompare(cmd *cobra.Command, args []string) error {
	recordID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", args[0])
	}

	cfg, err := gateway.LoadConfig(configPath, logger)
	if err != nil {
		return err
	}
	store, err := gateway.NewSQLiteRecordStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	uc := usecase.NewCompareUseCase(cfg, store, mapper.New(logger), logger)
	report, err := uc.Compare(cmd.Context(), recordID, productType)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := gateway.NewSQLiteRecordStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), productType)
	if err != nil {
		return err
	}
	return printJSON(records)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := gateway.LoadConfig(configPath, logger)
	if err != nil {
		return err
	}
	store, err := gateway.NewSQLiteRecordStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	uc := usecase.NewCompareUseCase(cfg, store, mapper.New(logger), logger)
	summary, err := uc.MappingSummary(productType)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := gateway.NewSQLiteRecordStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(stats)
}

// recordSourceFor picks a reader by file extension.
func recordSourceFor(path string) (usecase.RecordSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return gateway.NewCSVRecordReader(), nil
	case ".json":
		return gateway.NewJSONRecordReader(), nil
	default:
		return nil, fmt.Errorf("unsupported input format %q (expected .csv or .json)", filepath.Ext(path))
	}
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
