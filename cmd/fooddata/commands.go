// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	apiURL     string
	verbose    bool
	json       bool
}

// runFunc is the body of a command once its App is built.
type runFunc func(ctx context.Context, app *App, args []string) error

// newRootCmd builds the command tree.
//
// # Description
//
// Each invocation builds its own tree so tests can execute commands without
// sharing flag state.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "fooddata",
		Short: "Explore the food product catalog from the terminal",
		Long: `fooddata reads aggregate statistics and product data from the
food data service and renders them as reports or an interactive browser.`,
		Version:      version,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.fooddata/fooddata.yaml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "data service URL, overrides the config and FOODDATA_API_URL")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug details")
	pf.BoolVar(&flags.json, "json", false, "print results as JSON")

	root.AddCommand(
		newStatsCmd(flags),
		newProductsCmd(flags),
		newProductCmd(flags),
		newHealthCmd(flags),
		newBrowseCmd(flags),
		newThemeCmd(flags),
	)
	return root
}

// withApp wraps fn so it runs with a fresh App that is closed afterwards.
func withApp(flags *rootFlags, interactive bool, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		app, err := NewApp(cmd.Context(), appOptions{
			ConfigPath:  flags.configPath,
			APIURL:      flags.apiURL,
			Verbose:     flags.verbose,
			JSON:        flags.json,
			Interactive: interactive,
			Out:         cmd.OutOrStdout(),
			ErrOut:      cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()
		return fn(cmd.Context(), app, args)
	}
}

// writeJSON prints v indented.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
