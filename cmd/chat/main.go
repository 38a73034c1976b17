package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/akolanti/ChatPDF/internal/bootstrap"
	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/telemetry"
	"github.com/akolanti/ChatPDF/internal/tui"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "chat [file1.pdf file2.pdf ...]",
		Short: "Chat with PDF documents in the terminal",
		Long: `Opens a chat session over the given PDF files. Inside the session,
"/upload a.pdf b.pdf" replaces the document set.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, args)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "optional yaml settings file")
	return cmd
}

func run(ctx context.Context, configPath string, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = godotenv.Load()
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs go to a file
	logOut, closeLog := openLog(settings.ScratchDir)
	defer closeLog()
	logger_i.InitWithWriter(logOut, settings.IsProd)

	shutdownTracing, err := telemetry.Init(ctx, settings.ServiceName, settings.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.WithoutCancel(ctx))

	app, err := bootstrap.Build(ctx, settings)
	if err != nil {
		return err
	}
	defer app.Close(context.WithoutCancel(ctx))

	s := app.Orchestrator.Sessions().Create()
	model := tui.New(ctx, app.Orchestrator, s.Id, files)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func openLog(dir string) (io.Writer, func()) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "chat.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}
