package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskmcp/internal/output"
	"taskmcp/internal/store"
	"taskmcp/internal/tools"
)

const shellPrompt = "> "

func (a *App) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Call tools interactively against an in-process store",
		Long: `Read commands from stdin, one per line:

  <tool-name> [json-arguments]   call a tool
  tasks                          list tasks
  help                           list tools
  quit                           exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, st, err := a.newDispatcher(cmd.Context())
			if err != nil {
				return err
			}
			return a.runShell(cmd.Context(), d, st)
		},
	}
}

func (a *App) runShell(ctx context.Context, d *tools.Dispatcher, st *store.Store) error {
	scanner := bufio.NewScanner(a.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if ctx.Err() != nil {
			return nil
		}
		if !a.cfg.Quiet {
			fmt.Fprint(a.out, shellPrompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		name, rest, _ := strings.Cut(line, " ")
		switch name {
		case "":
		case "quit", "exit":
			return nil
		case "help":
			output.FormatCatalog(a.out, d.Registry().Catalog())
		case "tasks":
			output.FormatTasks(a.out, st.List())
		default:
			a.shellCall(ctx, d, name, strings.TrimSpace(rest))
		}
	}
}

func (a *App) shellCall(ctx context.Context, d *tools.Dispatcher, name, args string) {
	var raw json.RawMessage
	if args != "" {
		raw = json.RawMessage(args)
	}

	result, err := d.CallJSON(ctx, name, raw)
	if err != nil {
		fmt.Fprintf(a.out, "error: %s\n", err)
		return
	}
	if err := a.writeJSON(result); err != nil {
		fmt.Fprintf(a.out, "error: %s\n", err)
	}
}
