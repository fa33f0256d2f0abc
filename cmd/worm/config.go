package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) configCmd() *cobra.Command {
	var showSource bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the effective configuration after merging defaults, config file, and environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showSource {
				if a.configPath != "" {
					fmt.Fprintf(out, "Config file: %s\n\n", a.configPath)
				} else {
					fmt.Fprint(out, "Config file: (none, using defaults)\n\n")
				}
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	show.Flags().BoolVar(&showSource, "source", false, "show config file source")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(show)
	return cmd
}
