package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"zhread/internal/api"
	"zhread/internal/config"
	"zhread/internal/ingest"
	"zhread/internal/speech"
	"zhread/internal/state"
	"zhread/internal/ui"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Local overrides for ZHREAD_* variables; missing .env is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:            "zhread",
		Usage:           "terminal client for the graded-reader backend",
		Version:         version,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.StringFlag{Name: "api", Usage: "backend base `URL`, overrides configuration"},
		},
		Action: runRead,
		Commands: []*cli.Command{
			{
				Name:      "read",
				Usage:     "Open the reader, optionally jumping to a book and chapter",
				ArgsUsage: "[BOOK-ID [CHAPTER-ID]]",
				Action:    runRead,
			},
			{
				Name:   "books",
				Usage:  "List the books the backend serves",
				Action: runBooks,
			},
			{
				Name:      "import",
				Usage:     "Build a book from a local file or directory and upload it",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "book `ID` (derived from the title when absent)"},
					&cli.StringFlag{Name: "title", Usage: "book `TITLE` (derived from the file name when absent)"},
					&cli.BoolFlag{Name: "dry-run", Usage: "show what would be uploaded without uploading"},
				},
				Action: runImport,
			},
			{
				Name:  "lookup",
				Usage: "Look up the word at an offset in a piece of text",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "`TEXT` to segment", Required: true},
					&cli.IntFlag{Name: "offset", Usage: "rune `OFFSET` of the tapped character"},
				},
				Action: runLookup,
			},
			{
				Name:   "version",
				Usage:  "Print version information",
				Action: runVersion,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the shared client and logger.
func setup(cmd *cli.Command) (config.Config, *zap.Logger, *api.Client, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if v := cmd.String("api"); v != "" {
		cfg.APIURL = v
	}

	log, err := cfg.Logger()
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	client := api.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.Timeout}, log)
	return cfg, log, client, nil
}

func runRead(ctx context.Context, cmd *cli.Command) error {
	cfg, log, client, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := state.NewStore()
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	speaker, err := speech.New(cfg.SpeechCommand)
	if err != nil {
		return fmt.Errorf("configure speech: %w", err)
	}
	defer speaker.Stop()

	m := ui.New(ui.Options{
		Client:    client,
		Speaker:   speaker,
		Store:     store,
		Config:    cfg,
		Log:       log,
		BookID:    cmd.Args().Get(0),
		ChapterID: cmd.Args().Get(1),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run reader: %w", err)
	}
	return nil
}

func runBooks(ctx context.Context, cmd *cli.Command) error {
	_, log, client, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	books, err := client.Books(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Println("no books on the server")
		return nil
	}
	for _, b := range books {
		fmt.Printf("%-24s %s\n", b.ID, b.Title)
	}
	return nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().Get(0)
	if path == "" {
		return fmt.Errorf("import needs a path (supported: %s)", strings.Join(ingest.Supported(), "; "))
	}

	_, log, client, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	book, err := ingest.BuildBook(path, cmd.String("id"), cmd.String("title"))
	if err != nil {
		return fmt.Errorf("build book from %s: %w", path, err)
	}

	fmt.Printf("%s (%s), %d chapters:\n", book.Title, book.ID, len(book.Chapters))
	for _, ch := range book.Chapters {
		fmt.Printf("  %s  %s (%d chars)\n", ch.ID, ch.Title, len([]rune(ch.Text)))
	}

	if cmd.Bool("dry-run") {
		fmt.Println("dry run, nothing uploaded")
		return nil
	}
	if err := client.ImportBook(ctx, book); err != nil {
		return fmt.Errorf("upload book: %w", err)
	}
	fmt.Printf("uploaded to %s\n", client.BaseURL())
	return nil
}

func runLookup(ctx context.Context, cmd *cli.Command) error {
	_, log, client, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	result, err := client.LookupInText(ctx, cmd.String("text"), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	if result.Selected.Text == "" {
		fmt.Println("nothing selected at that offset")
		return nil
	}
	fmt.Printf("%s [%d,%d)\n", result.Selected.Text, result.Selected.Start, result.Selected.End)
	if result.Entry == nil {
		fmt.Println("no dictionary entry")
		return nil
	}
	if py := strings.Join(result.Entry.Pinyin, ", "); py != "" {
		fmt.Println(py)
	}
	for _, d := range result.Entry.Definitions {
		fmt.Println("- " + d)
	}
	return nil
}

func runVersion(ctx context.Context, cmd *cli.Command) error {
	fmt.Printf("zhread %s (commit: %s, built: %s)\n", version, commit, date)
	return nil
}
