// Package common contains shared functionality for command handlers
package common

import (
	"os"

	"github.com/gocarina/gocsv"

	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
)

// WriteTransactions marshals transactions to CSV, into outputFile or
// stdout when no file is given.
func WriteTransactions(transactions []models.ParsedTransaction, outputFile string, log logging.Logger) error {
	if outputFile == "" {
		return gocsv.Marshal(&transactions, os.Stdout)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&transactions, f); err != nil {
		return err
	}
	log.WithFields(
		logging.Field{Key: "file", Value: outputFile},
		logging.Field{Key: "transactions", Value: len(transactions)},
	).Info("CSV written")
	return nil
}

// ReadInput loads the input file, exiting with a usage error when the
// flag is missing.
func ReadInput(inputFile string, log logging.Logger) []byte {
	if inputFile == "" {
		log.Error("No input file given, use --input")
		os.Exit(1)
	}
	content, err := os.ReadFile(inputFile)
	if err != nil {
		log.WithError(err).WithField("file", inputFile).Error("Failed to read input file")
		os.Exit(1)
	}
	return content
}
