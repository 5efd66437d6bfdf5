package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"jweber/bonscan/cmd/categorize"
	"jweber/bonscan/cmd/extract"
	"jweber/bonscan/cmd/mappings"
	"jweber/bonscan/cmd/root"
	"jweber/bonscan/cmd/scan"
)

func init() {
	// Load environment variables before cobra touches configuration
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(scan.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(mappings.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
