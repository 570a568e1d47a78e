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
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/fooddata/pkg/prefs"
	"github.com/AleutianAI/fooddata/pkg/ux"
)

func newThemeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the colour theme",
		Long:      "Without an argument, theme prints the saved theme, or asks for one when run in a terminal.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(prefs.ThemeLight), string(prefs.ThemeDark), "toggle"},
		RunE:      withApp(flags, false, runTheme),
	}
}

func runTheme(_ context.Context, app *App, args []string) error {
	store, err := app.Prefs()
	if err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	current, err := store.Theme()
	if err != nil {
		return err
	}

	arg := ""
	if len(args) == 1 {
		arg = strings.ToLower(strings.TrimSpace(args[0]))
	} else if !app.JSON && ux.IsTerminal(os.Stdin) && ux.IsTerminal(os.Stdout) {
		picked, err := pickTheme(current)
		if err != nil {
			return err
		}
		arg = string(picked)
	}

	next := current
	switch arg {
	case "": // show only
	case "toggle":
		if next, err = store.Toggle(); err != nil {
			return err
		}
	default:
		t, err := prefs.ParseTheme(arg)
		if err != nil {
			return err
		}
		if err := store.SetTheme(t); err != nil {
			return err
		}
		next = t
	}

	if app.JSON {
		return writeJSON(app.Out(), map[string]string{"theme": string(next)})
	}
	if next != current {
		app.Printer.Success(fmt.Sprintf("theme set to %s", next))
	} else {
		app.Printer.Info(fmt.Sprintf("theme is %s", next))
	}
	return nil
}

func pickTheme(current prefs.Theme) (prefs.Theme, error) {
	choice := current
	err := huh.NewSelect[prefs.Theme]().
		Title("Colour theme").
		Options(
			huh.NewOption("Light", prefs.ThemeLight),
			huh.NewOption("Dark", prefs.ThemeDark),
		).
		Value(&choice).
		Run()
	if err != nil {
		return current, fmt.Errorf("theme picker: %w", err)
	}
	return choice, nil
}
