package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/speed-report/pkg/server"
	"github.com/de-tools/speed-report/pkg/store/client"
)

var apiKey string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for speed-report",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&apiKey, "key", "k", os.Getenv("SPEED_REPORT_KEY"),
		"Google API key (default is $SPEED_REPORT_KEY)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := loadEnv(); err != nil {
		return err
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		return fmt.Errorf("missing server configuration: SERVER_HOST and SERVER_PORT must be set")
	}

	addr := net.JoinHostPort(host, port)

	api := server.NewWebAPI(server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Analyzer: client.NewPageSpeed(),
			APIKey:   apiKey,
			Logger:   logger,
		},
	})

	return api.Start()
}

// loadEnv reads .env from the working directory when one exists. Variables
// already set in the environment take precedence.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}
