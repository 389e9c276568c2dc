package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/layergraph"
	"github.com/aretw0/layergraph/internal/logging"
	"github.com/aretw0/layergraph/pkg/adapters/file"
	"github.com/aretw0/layergraph/pkg/document"
)

// loadDocument resolves arg as a document file, falling back to a document
// id saved under --dir.
func loadDocument(cmd *cobra.Command, arg string) (*document.Document, error) {
	doc, err := document.LoadFile(arg)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return doc, err
	}
	dir, _ := cmd.Flags().GetString("dir")
	return file.New(dir).Load(cmd.Context(), arg)
}

// openDocument loads arg into a fresh editor.
func openDocument(cmd *cobra.Command, arg string) (*layergraph.Document, error) {
	doc, err := loadDocument(cmd, arg)
	if err != nil {
		return nil, err
	}
	editor := layergraph.New(layergraph.WithLogger(commandLogger(cmd)))
	return editor.Import(doc)
}

func commandLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	name, _ := cmd.Flags().GetString("log-format")
	format, err := logging.ParseFormat(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, using text\n", err)
		format = logging.FormatText
	}
	return logging.NewWithWriter(os.Stderr, format, level)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
