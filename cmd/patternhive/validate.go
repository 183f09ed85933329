package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/patternhive/internal/validate"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check whether input would be accepted",
		Long: `Run the same checks the server applies before extraction, without
extracting anything. A file is checked for name, type and size; --text is
checked for length and unsafe markup.

Exits non-zero and prints the support code when the input is rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().StringP("text", "t", "", "Text to check")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	v := validate.New(cfg.Extract.MaxTextLength, cfg.Extract.MaxFileSize)

	switch {
	case len(args) > 0:
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := fileInfo(f, args[0])
		if err != nil {
			return err
		}
		if err := v.CheckFile(info); err != nil {
			return userError(err)
		}
		if !validate.IsSafeFilename(info.Filename) {
			return userError(fmt.Errorf("%w: unsafe filename %q", validate.ErrInvalidInput, info.Filename))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d bytes)\n", info.Filename, info.Size)

	case cmd.Flags().Changed("text"):
		text, err := cmd.Flags().GetString("text")
		if err != nil {
			return fmt.Errorf("failed to get text flag: %w", err)
		}
		if err := v.CheckText(text); err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok: text accepted")

	default:
		return userError(fmt.Errorf("%w: no file selected", validate.ErrInvalidInput))
	}
	return nil
}
