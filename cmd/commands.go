/*
SPDX-License-Identifier: GPL-3.0-or-later

Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com

This file is part of logcap.

logcap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

logcap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with logcap. If not, see https://www.gnu.org/licenses/.
*/

// cmd/commands.go - cobra command tree.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/devpospicha/logcap/internal/agent"
	"github.com/devpospicha/logcap/internal/bootstrap"
	"github.com/devpospicha/logcap/internal/config"
	"github.com/devpospicha/logcap/internal/logs/logcollector"
	"github.com/devpospicha/logcap/internal/logstore"
	"github.com/devpospicha/logcap/internal/publish"
	"github.com/devpospicha/logcap/internal/utils"
)

// cli carries the parsed flags and the config loaded from them.
type cli struct {
	overrides bootstrap.Overrides
	cfg       *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "logcap",
		Short:         "Capture system log buffers into dated, shareable files",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap.LoadConfig(c.overrides)
			if err != nil {
				return err
			}
			if err := bootstrap.SetupLogging(cfg); err != nil {
				return err
			}
			utils.Debug("Loaded config: root=%s state=%s", cfg.Storage.Root, cfg.Storage.StateDir)
			c.cfg = cfg
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Fprintf(cmd.OutOrStdout(), "logcap version %s\n", Version)
				return
			}
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.overrides.ConfigPath, "config", "", "Path to config file (env LOGCAP_CONFIG, default ./logcap.yaml)")
	pf.StringVar(&c.overrides.Root, "root", "", "Storage root; files go to <root>/Logs")
	pf.StringVar(&c.overrides.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&c.overrides.AppLogFile, "app-log", "", "Path to logcap's own log file")
	pf.StringVar(&c.overrides.ErrorLogFile, "error-log", "", "Path to logcap's error log file")
	pf.StringSliceVar(&c.overrides.Categories, "categories", nil, "Categories to register (default all)")

	rootCmd.AddCommand(
		c.newInitCmd(),
		c.newListCmd(),
		c.newCollectCmd(),
		c.newServeCmd(),
	)
	return rootCmd
}

func (c *cli) openStore() (*logstore.Store, error) {
	categories, err := agent.ParseCategories(c.cfg.Storage.Categories)
	if err != nil {
		return nil, err
	}
	return logstore.Open(c.cfg.Storage.Root,
		logstore.WithCategories(categories...),
		logstore.WithMinFreeBytes(c.cfg.Storage.MinFreeBytes),
	), nil
}

// layout computes today's paths without creating or sweeping anything.
func (c *cli) layout() (*logstore.Store, error) {
	categories, err := agent.ParseCategories(c.cfg.Storage.Categories)
	if err != nil {
		return nil, err
	}
	return logstore.Layout(c.cfg.Storage.Root, logstore.WithCategories(categories...)), nil
}

func (c *cli) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create today's log files and remove files from other days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Log directory: %s\n", store.Dir())
			for _, f := range store.Files() {
				fmt.Fprintf(out, "  %-10s %s\n", f.Category, f.Path)
			}
			return nil
		},
	}
}

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered categories and today's files (read-only)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.layout()
			if err != nil {
				return err
			}

			var data [][]string
			for _, f := range store.Files() {
				size, modified := "-", "-"
				if info, err := os.Stat(f.Path); err == nil {
					size = strconv.FormatInt(info.Size(), 10)
					modified = info.ModTime().Format(time.DateTime)
				}
				data = append(data, []string{f.Category.String(), filepath.Base(f.Path), size, modified})
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"CATEGORY", "FILE", "BYTES", "MODIFIED"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")
			table.AppendBulk(data)
			table.Render()
			return nil
		},
	}
}

func (c *cli) newCollectCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "collect [category]",
		Short: "Capture a category's buffer into today's file and print the handles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := logstore.CategoryDebug.String()
			if len(args) == 1 {
				name = args[0]
			}
			category, err := logstore.ParseCategory(name)
			if err != nil {
				return err
			}

			a, err := agent.NewAgent(cmd.Context(), c.cfg, Version)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			handles, res, err := a.CollectAndWait(ctx, category)
			if err != nil {
				return err
			}
			printResult(cmd, res, handles)
			if res.Err != nil {
				return res.Err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "wait", 0, "Give up waiting after this long (0 = no limit)")
	return cmd
}

func printResult(cmd *cobra.Command, res logcollector.Result, handles []publish.Handle) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Captured %s: %d lines, %d bytes in %s (%s)\n", res.Category, res.Lines, res.Bytes, res.Duration.Round(time.Millisecond), res.State)
	if res.ClearErr != nil {
		fmt.Fprintf(out, "Warning: buffer not cleared: %v\n", res.ClearErr)
	}

	data := make([][]string, 0, len(handles))
	for _, h := range handles {
		data = append(data, []string{h.Category.String(), h.Name, h.URI})
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"CATEGORY", "FILE", "URI"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve captures and captured files over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Handles must point at this server while it runs.
			c.cfg.Publish.Authority = c.cfg.Server.PublicURL

			a, err := agent.NewAgent(cmd.Context(), c.cfg, Version)
			if err != nil {
				return errors.Wrap(err, "failed to initialize agent")
			}
			defer a.Close()

			return a.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&c.overrides.Listen, "listen", "", "Listen address (env LOGCAP_LISTEN)")
	return cmd
}
