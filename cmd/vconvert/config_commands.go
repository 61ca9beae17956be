package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vconvert/internal/config"
)

func newConfigCommand(ctx *commandContext, configFlag *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configFlag
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists at %s", path)
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", path)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig(*configFlag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ctx.cfgFound {
				fmt.Fprintln(out, "No config file found; built-in defaults are active.")
				fmt.Fprintln(out, "Run \"vconvert config init\" to create one. Defaults:")
				fmt.Fprintln(out)
				fmt.Fprint(out, config.SampleConfig())
				return nil
			}
			contents, err := os.ReadFile(ctx.cfgPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s\n\n", ctx.cfgPath)
			fmt.Fprint(out, string(contents))
			return nil
		},
	})

	return configCmd
}
