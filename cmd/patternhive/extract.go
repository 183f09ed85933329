package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/patternhive/internal/core"
	"github.com/JonMunkholm/patternhive/internal/format"
	"github.com/JonMunkholm/patternhive/internal/validate"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract emails, phone numbers and names",
		Long: `Extract entities from a document, from --text, or from standard input
when neither is given.

Examples:
  patternhive extract contacts.pdf
  patternhive extract --text "Call Jane Doe at (650) 253-0000" --format report
  cat notes.txt | patternhive extract --format csv > entities.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringP("text", "t", "", "Text to extract from")
	cmd.Flags().StringP("format", "f", format.JSONFormat, "Output format (json, csv, report)")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		return fmt.Errorf("failed to get text flag: %w", err)
	}
	outFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	if err := validate.CheckExportFormat(outFormat); err != nil {
		return userError(err)
	}
	if len(args) > 0 && cmd.Flags().Changed("text") {
		return fmt.Errorf("give either a file or --text, not both")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	service := core.NewService(cfg, nil)
	ctx := cmd.Context()

	var e *core.Extraction
	switch {
	case len(args) > 0:
		e, err = extractFile(ctx, service, args[0])
	case cmd.Flags().Changed("text"):
		e, err = service.ExtractText(ctx, text)
	default:
		e, err = extractStdin(ctx, service, cmd.InOrStdin(), cfg.Extract.MaxFileSize)
	}
	if err != nil {
		return userError(err)
	}

	out, err := service.Export(outFormat, e.SessionID)
	if err != nil {
		return userError(err)
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}

func extractFile(ctx context.Context, service *core.Service, path string) (*core.Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := fileInfo(f, path)
	if err != nil {
		return nil, err
	}
	return service.ExtractDocument(ctx, info, f)
}

func extractStdin(ctx context.Context, service *core.Service, r io.Reader, limit int64) (*core.Extraction, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: file too large (more than %d bytes on stdin)", validate.ErrInvalidInput, limit)
	}
	return service.ExtractText(ctx, string(data))
}

func fileInfo(f *os.File, path string) (validate.FileInfo, error) {
	st, err := f.Stat()
	if err != nil {
		return validate.FileInfo{}, err
	}
	return validate.FileInfo{Filename: filepath.Base(path), Size: st.Size()}, nil
}
