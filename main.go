package main

import (
	"fmt"
	"os"

	"akazakov/snapstat/cmd/batch"
	"akazakov/snapstat/cmd/correct"
	"akazakov/snapstat/cmd/image"
	"akazakov/snapstat/cmd/root"
	"akazakov/snapstat/cmd/statement"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(image.Cmd)
	root.Cmd.AddCommand(statement.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(correct.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
