// Package image handles screenshot parsing commands
package image

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"akazakov/snapstat/cmd/common"
	"akazakov/snapstat/cmd/root"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/parsererror"
	"akazakov/snapstat/internal/pipeline"
)

var single bool

// Cmd represents the image command
var Cmd = &cobra.Command{
	Use:   "image",
	Short: "Parse a bank-app screenshot",
	Long: `Parse a bank-app screenshot through the AI vision model, extract the
transactions or chart summary it shows and write them as CSV.`,
	Run: imageFunc,
}

func init() {
	Cmd.Flags().BoolVar(&single, "single", false, "Expect exactly one transaction in the screenshot")
}

func imageFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Image parse command called")
	content := common.ReadInput(root.SharedFlags.Input, root.Log)

	kind, mimeType := pipeline.Sniff(content, root.SharedFlags.Input)
	if kind != pipeline.KindImage {
		err := &parsererror.UnsupportedFileError{FilePath: root.SharedFlags.Input}
		root.Log.WithError(err).Error("Not a supported image")
		os.Exit(1)
	}
	if root.AppContainer.Image == nil {
		root.Log.Error("Image parsing requires an AI vision model, set GEMINI_API_KEY")
		os.Exit(1)
	}

	ctx := context.Background()
	var transactions []models.ParsedTransaction
	if single {
		tx, err := root.AppContainer.Image.ParseImageSingle(ctx, root.SharedFlags.User, content, mimeType)
		if err != nil {
			root.Log.WithError(err).Error("Image parse failed")
			os.Exit(1)
		}
		transactions = []models.ParsedTransaction{*tx}
	} else {
		result, err := root.AppContainer.Image.ParseImage(ctx, root.SharedFlags.User, content, mimeType)
		if err != nil {
			root.Log.WithError(err).Error("Image parse failed")
			os.Exit(1)
		}
		if result.Chart != nil {
			root.Log.WithField("total", result.Chart.Total).Info("Screenshot shows a chart summary, not a transaction list")
		}
		transactions = result.Transactions
	}

	if err := common.WriteTransactions(transactions, root.SharedFlags.Output, root.Log); err != nil {
		root.Log.WithError(err).Error("Failed to write output")
		os.Exit(1)
	}
	root.Log.Info("Image parsing completed successfully!")
}
