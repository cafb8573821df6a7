package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

// Command actions are vars so tests can stub them out.
var (
	bootstrapFn     = Bootstrap
	addRepoFn       = AddRepository
	addControllerFn = AddController
)

func NewRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "go-ctrl-boot",
		Short: "A CLI to bootstrap go-ctrl-boot HTTP service projects",
	}

	var bootstrapCmd = &cobra.Command{
		Use:   "bootstrap [project name]",
		Short: "Bootstrap a new go-ctrl-boot HTTP service project",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			CheckErr(bootstrapFn(args[0]))
		},
	}

	var addRepositoryCmd = &cobra.Command{
		Use:   "repository [dbModelName]",
		Short: "Add DB repository",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			CheckErr(addRepoFn(args[0]))
		},
	}

	var addControllerCmd = &cobra.Command{
		Use:   "controller [controllerName]",
		Short: "Add HTTP controller",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			CheckErr(addControllerFn(args[0]))
		},
	}

	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(addRepositoryCmd)
	rootCmd.AddCommand(addControllerCmd)
	return rootCmd
}

func main() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runGoModInit(projectName, folderName string) error {
	cmd := exec.Command("go", "mod", "init", projectName)
	cmd.Dir = filepath.Join(".", folderName) // Set the directory for the command
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
