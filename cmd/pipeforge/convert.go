package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Promptonauts/pipeforge/pkg/service"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		output string
		source string
		target string
		name   string
	)
	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Transpile a CI pipeline definition to a new target.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("source") {
				source = a.cfg.Source
			}
			if !cmd.Flags().Changed("target") {
				target = a.cfg.Target
			}

			input := args[0]
			info, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}
			if info.IsDir() {
				return fmt.Errorf("read %s: is a directory", input)
			}
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}

			svc, cleanup, err := a.newService(a.cfg.History.Enabled)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := svc.Convert(service.Request{Source: source, Target: target, Name: name, Input: data})
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(resp.Output)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create %s: %w", filepath.Dir(output), err)
			}
			if err := os.WriteFile(output, resp.Output, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s pipeline to %s\n", target, output)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "write the generated pipeline here instead of stdout")
	flags.StringVarP(&source, "source", "s", "", "source CI format (default from config: bamboo)")
	flags.StringVarP(&target, "target", "t", "", "target CI format (default from config: bitbucket)")
	flags.StringVar(&name, "name", "", "override the pipeline name inside the rendered file")
	return cmd
}
