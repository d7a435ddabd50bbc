package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/timoncotraci/To-Do-List-Checker/cmd/todo/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "To-Do List Checker",
		Long:  `A single-user task list with a local registration/login gate, durable local state and backup import/export.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
