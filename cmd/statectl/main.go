// Command statectl exports, imports and resets the persisted UI state of the
// configured storage backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/config"
	"github.com/ad-tracker/youtube-clone-state/internal/kv"
	"github.com/ad-tracker/youtube-clone-state/internal/snapshot"
	"github.com/ad-tracker/youtube-clone-state/internal/store"
	"github.com/ad-tracker/youtube-clone-state/internal/toast"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

const usage = `usage: statectl <command> [flags]

commands:
  export   write every state key to a TOML snapshot
  import   restore a TOML snapshot
  reset    restore one store to its defaults
  keys     list the stored state keys
`

var errUsage = errors.New("invalid usage")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.Logging.Level, ""); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	backend, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer backend.Close()

	if err := run(ctx, backend, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, backend kv.Backend, command string, args []string, out io.Writer) error {
	switch command {
	case "export":
		return runExport(ctx, backend, args, out)
	case "import":
		return runImport(ctx, backend, args, out)
	case "reset":
		return runReset(ctx, backend, args, out)
	case "keys":
		return runKeys(ctx, backend, out)
	default:
		return errUsage
	}
}

func runExport(ctx context.Context, backend kv.Backend, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	path := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	snap, err := snapshot.Export(ctx, backend, time.Now())
	if err != nil {
		return err
	}

	if *path == "" {
		return snap.Write(out)
	}

	f, err := os.Create(*path)
	if err != nil {
		return fmt.Errorf("create %s: %w", *path, err)
	}
	if err := snap.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %d entries to %s\n", len(snap.Entries), *path)
	return nil
}

func runImport(ctx context.Context, backend kv.Backend, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	path := fs.String("i", "", "snapshot file (default stdin)")
	replace := fs.Bool("replace", false, "remove existing state keys first")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var in io.Reader = os.Stdin
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			return fmt.Errorf("open %s: %w", *path, err)
		}
		defer f.Close()
		in = f
	}

	snap, err := snapshot.Read(in)
	if err != nil {
		return err
	}
	written, err := snapshot.Import(ctx, backend, snap, *replace)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d entries exported %s\n", written, humanize.Time(snap.ExportedAt))
	return nil
}

func runReset(ctx context.Context, backend kv.Backend, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	name := fs.String("store", "", "store to reset: "+strings.Join(store.ResettableStores, ", "))
	if err := fs.Parse(args); err != nil || *name == "" {
		return errUsage
	}

	recorder := toast.NewRecorder(1)
	state := store.NewState(store.Deps{
		Backend:  backend,
		Notifier: toast.NewDispatcher(recorder),
	})
	if !state.Reset(ctx, *name) {
		if last, ok := recorder.Last(); ok && last.Level == toast.LevelError {
			return fmt.Errorf("reset %s: %s", *name, last.Description)
		}
		return fmt.Errorf("reset %s: %w", *name, errUsage)
	}
	fmt.Fprintf(out, "%s reset to defaults\n", *name)
	return nil
}

func runKeys(ctx context.Context, backend kv.Backend, out io.Writer) error {
	keys, err := backend.Keys(ctx, store.KeyPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		value, ok, err := backend.Get(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%-48s %s\n", key, humanize.Bytes(uint64(len(value))))
	}
	return nil
}
