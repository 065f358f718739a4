package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tordrt/erd2prisma/internal/config"
)

var (
	configPath string
	envFiles   []string
)

var (
	warnFmt    = color.New(color.FgYellow).SprintfFunc()
	successFmt = color.New(color.FgGreen).SprintfFunc()
	errorFmt   = color.New(color.FgRed, color.Bold).SprintfFunc()
)

var rootCmd = &cobra.Command{
	Use:           "erd2prisma",
	Short:         "Compile ERD designs into Prisma schemas",
	Long:          `erd2prisma turns entity relationship designs (tables, fields, relations and enums) into a deterministic Prisma schema, and serves an HTTP API for editing designs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.config/erd2prisma/config.yaml)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Environment files to load (default: .env)")

	rootCmd.AddCommand(compileCmd, serveCmd, resetCmd)
}

// loadConfig layers the config file, env files and environment variables
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseList splits a comma-separated flag value
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	list := strings.Split(s, ",")
	out := list[:0]
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func warnf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, warnFmt("warning: "+format, args...))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, errorFmt("error: %v", err))
		os.Exit(1)
	}
}
