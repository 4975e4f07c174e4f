// Package batch handles multi-file processing commands
package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"akazakov/snapstat/cmd/common"
	"akazakov/snapstat/cmd/root"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/pipeline"
)

var (
	inputDir  string
	outputDir string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Parse every screenshot and statement in a directory",
	Long: `Parse every supported file in a directory, writing one CSV per input
file. A failed file is reported and skipped, it never aborts the rest.`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input-dir", "d", "", "Directory with input files")
	Cmd.Flags().StringVarP(&outputDir, "output-dir", "t", "", "Directory for output CSV files")
}

func batchFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Batch process command called")
	if inputDir == "" {
		root.Log.Error("No input directory given, use --input-dir")
		os.Exit(1)
	}
	if outputDir == "" {
		outputDir = inputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		root.Log.WithError(err).Error("Failed to create output directory")
		os.Exit(1)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		root.Log.WithError(err).Error("Failed to read input directory")
		os.Exit(1)
	}

	ctx := context.Background()
	processed, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(inputDir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			root.Log.WithError(err).WithField("file", name).Error("Failed to read file")
			failed++
			continue
		}

		result, err := root.AppContainer.Processor.ProcessFile(ctx, root.SharedFlags.User,
			pipeline.BatchFile{Name: name, Content: content})
		if err != nil {
			root.Log.WithError(err).WithField("file", name).Error("File failed")
			failed++
			continue
		}

		outName := strings.TrimSuffix(name, filepath.Ext(name)) + ".csv"
		outPath := filepath.Join(outputDir, outName)
		if err := common.WriteTransactions(result.Transactions, outPath, root.Log); err != nil {
			root.Log.WithError(err).WithField("file", outName).Error("Failed to write output")
			failed++
			continue
		}
		processed++
	}

	root.Log.WithFields(
		logging.Field{Key: "processed", Value: processed},
		logging.Field{Key: "failed", Value: failed},
	).Info("Batch processing finished")
}
