// Copyright 2025 Sagedoc Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sagedoc/docchat"
	"github.com/sagedoc/docchat/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docchat",
		Usage: "Chat with documents: summaries, FAQs, and retrieval-grounded answers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"DOCCHAT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to session database directory (overrides config)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create a new session for a document",
				Action: createCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "doc",
						Usage:    "Path to the document",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Session ID (generated if omitted)",
					},
				},
			},
			{
				Name:   "process",
				Usage:  "Extract, summarize, and generate FAQs for a session's document",
				Action: processCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "session",
						Aliases:  []string{"s"},
						Usage:    "Session ID",
						Required: true,
					},
				},
			},
			{
				Name:   "ask",
				Usage:  "Ask a single question in a session",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "session",
						Aliases:  []string{"s"},
						Usage:    "Session ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "sources",
						Usage: "Print the retrieved sources with the answer",
					},
				},
			},
			{
				Name:   "refine",
				Usage:  "Refine a query against a session's document",
				Action: refineCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "session",
						Aliases:  []string{"s"},
						Usage:    "Session ID",
						Required: true,
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Start an interactive chat with a document",
				Action: chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "doc",
						Usage:    "Path to the document",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Resume an existing session instead of creating one",
					},
				},
			},
			{
				Name:   "sessions",
				Usage:  "List all sessions",
				Action: sessionsCommand,
			},
			{
				Name:   "delete",
				Usage:  "Delete a session",
				Action: deleteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "session",
						Aliases:  []string{"s"},
						Usage:    "Session ID",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newService builds a Service from the config file and CLI overrides.
func newService(c *cli.Context) (*docchat.Service, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath
	if c.String("db") != "" {
		dbPath = c.String("db")
	}

	return docchat.NewService(dbPath,
		docchat.WithAIConfig(cfg.AIConfig()),
		docchat.WithRetrievalTopK(cfg.Retrieval.TopK),
		docchat.WithMaxChunkChars(cfg.Chunking.MaxChars),
	)
}

func createCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	id := c.String("session")
	if id == "" {
		id = uuid.NewString()
	}

	record, err := service.CreateSession(context.Background(), id, c.String("doc"))
	if err != nil {
		return err
	}

	fmt.Println(record.Id)
	return nil
}

func processCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	record, err := service.ProcessDocument(context.Background(), c.String("session"))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processed %s: %d chunks, %d FAQs\n",
		record.DocumentRef, len(record.Chunks), len(record.FAQs))
	fmt.Println(record.Summary)
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	result, err := service.Ask(context.Background(), c.String("session"), question)
	if err != nil {
		return err
	}

	fmt.Println(result.Response)
	if c.Bool("sources") {
		fmt.Println()
		for i, source := range result.Sources {
			fmt.Printf("--- Source %d ---\n%s\n", i+1, source)
		}
	}
	return nil
}

func refineCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	result, err := service.RefineQuery(context.Background(), c.String("session"), query)
	if err != nil {
		return err
	}

	fmt.Printf("Spell-checked: %s\n\n", result.SpellChecked)
	fmt.Println("Sub-queries:")
	for _, q := range result.SubQueries {
		fmt.Printf("  - %s\n", q)
	}
	fmt.Println("\nHypotheses:")
	for _, h := range result.Hypotheses {
		fmt.Printf("  - %s\n", h)
	}
	fmt.Printf("\nImproved: %s\n", result.Improved)
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	id := c.String("session")
	if id == "" {
		id = uuid.NewString()
		if _, err := service.CreateSession(ctx, id, c.String("doc")); err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, "Processing document...")
		record, err := service.ProcessDocument(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "\nSummary:\n%s\n", record.Summary)
	}

	fmt.Fprintf(os.Stderr, "\nSession %s ready. Type a question, or /quit to exit.\n", id)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "/quit" || question == "/exit" {
			break
		}

		result, err := service.Ask(ctx, id, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", result.Response)
	}
	return scanner.Err()
}

func sessionsCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	ids, err := service.ListSessions(context.Background())
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	deleted, err := service.DeleteSession(context.Background(), c.String("session"))
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(os.Stderr, "no such session")
	}
	return nil
}

func setup(c *cli.Context) error {
	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	// The flag wins over the config file; the flag default is "info", so
	// an unset flag defers to whatever the file says.
	levelStr := strings.ToLower(c.String("log-level"))
	if !c.IsSet("log-level") {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		levelStr = strings.ToLower(cfg.LogLevel)
	}

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
