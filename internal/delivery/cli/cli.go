package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/storage"
	"github.com/pricelens/backend/internal/usecase"
)

const usage = `Usage: watchlist [--config path] [--ephemeral] <command> [args]

Commands:
  add <url>       start tracking a product
  list            show tracked products
  refresh [id]    re-check one product, or all of them
  remove <id>     stop tracking a product
  notify <id>     toggle price notifications
  history <id>    show the price history of a product

IDs may be shortened to any unique prefix. --ephemeral keeps the list in
memory for this run only, leaving saved data untouched.
`

// ErrUsage is returned when the command line cannot be understood
var ErrUsage = errors.New("usage error")

const timeLayout = "2006-01-02 15:04"

// App runs watchlist commands against a loaded watchlist
type App struct {
	watchlist *usecase.Watchlist
	out       io.Writer
}

// NewApp creates a CLI app writing to out
func NewApp(watchlist *usecase.Watchlist, out io.Writer) *App {
	return &App{watchlist: watchlist, out: out}
}

// Flags describes the global command-line flags
type Flags struct {
	ConfigPath string
	Ephemeral  bool
	Args       []string
}

// ParseFlags parses the global flags and returns the remaining command words.
// --help is turned into the help command.
func ParseFlags(args []string) (*Flags, error) {
	fs := pflag.NewFlagSet("watchlist", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	fs.Usage = func() {}

	flags := &Flags{}
	fs.StringVarP(&flags.ConfigPath, "config", "c", "", "path to a config file")
	fs.BoolVar(&flags.Ephemeral, "ephemeral", false, "keep the watchlist in memory only")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			flags.Args = []string{"help"}
			return flags, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	flags.Args = fs.Args()
	return flags, nil
}

// OpenStore returns the store the watchlist persists to: an in-memory store
// for ephemeral runs, otherwise a file store under dir.
func OpenStore(flags *Flags, dir string) (domain.KeyValueStore, error) {
	if flags.Ephemeral {
		return storage.NewMemoryStore(), nil
	}
	return storage.NewFileStore(dir)
}

// Run executes a single command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "add":
		if len(rest) != 1 {
			return a.usageError("add takes exactly one url")
		}
		return a.add(ctx, rest[0])
	case "list", "ls":
		return a.list()
	case "refresh":
		if len(rest) > 1 {
			return a.usageError("refresh takes at most one id")
		}
		if len(rest) == 0 {
			return a.refreshAll(ctx)
		}
		return a.refresh(ctx, rest[0])
	case "remove", "rm":
		if len(rest) != 1 {
			return a.usageError("remove takes exactly one id")
		}
		return a.remove(ctx, rest[0])
	case "notify":
		if len(rest) != 1 {
			return a.usageError("notify takes exactly one id")
		}
		return a.notify(ctx, rest[0])
	case "history":
		if len(rest) != 1 {
			return a.usageError("history takes exactly one id")
		}
		return a.history(rest[0])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return a.usageError(fmt.Sprintf("unknown command %q", command))
	}
}

func (a *App) usageError(msg string) error {
	fmt.Fprint(a.out, usage)
	return fmt.Errorf("%w: %s", ErrUsage, msg)
}

func (a *App) add(ctx context.Context, rawURL string) error {
	item, err := a.watchlist.Add(ctx, rawURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tracking %s\n  %s\n  %s (%s)\n", shortID(item.ID), item.Product.Name, item.Product.Price, stockLabel(item.Product.InStock))
	return nil
}

func (a *App) list() error {
	items := a.watchlist.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No tracked products. Add one with: watchlist add <url>")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tSELLER\tNOTIFY\tCHECKS")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			shortID(item.ID),
			truncate(item.Product.Name, 40),
			item.Product.Price,
			stockLabel(item.Product.InStock),
			item.Product.Seller,
			onOff(item.NotificationsEnabled),
			len(item.PriceHistory),
		)
	}
	return tw.Flush()
}

func (a *App) refresh(ctx context.Context, prefix string) error {
	id, err := a.watchlist.Resolve(prefix)
	if err != nil {
		return err
	}

	before, err := a.watchlist.Get(id)
	if err != nil {
		return err
	}
	changed, err := a.watchlist.Refresh(ctx, id)
	if err != nil {
		return err
	}
	after, err := a.watchlist.Get(id)
	if err != nil {
		return err
	}

	switch {
	case changed:
		fmt.Fprintf(a.out, "%s: %s -> %s\n", shortID(id), before.LastPrice(), after.LastPrice())
	case after.Product.ObservedAt.Equal(before.Product.ObservedAt):
		fmt.Fprintf(a.out, "%s: could not be checked, kept %s\n", shortID(id), after.LastPrice())
	default:
		fmt.Fprintf(a.out, "%s: unchanged at %s\n", shortID(id), after.LastPrice())
	}
	return nil
}

func (a *App) refreshAll(ctx context.Context) error {
	if len(a.watchlist.Items()) == 0 {
		fmt.Fprintln(a.out, "No tracked products.")
		return nil
	}

	report, err := a.watchlist.RefreshAll(ctx)
	fmt.Fprintf(a.out, "Checked %d, changed %d, failed %d\n", report.Checked, report.Changed, report.Failed)
	return err
}

func (a *App) remove(ctx context.Context, prefix string) error {
	id, err := a.watchlist.Resolve(prefix)
	if err != nil {
		return err
	}
	if err := a.watchlist.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %s\n", shortID(id))
	return nil
}

func (a *App) notify(ctx context.Context, prefix string) error {
	id, err := a.watchlist.Resolve(prefix)
	if err != nil {
		return err
	}
	enabled, err := a.watchlist.ToggleNotifications(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Notifications for %s: %s\n", shortID(id), onOff(enabled))
	return nil
}

func (a *App) history(prefix string) error {
	id, err := a.watchlist.Resolve(prefix)
	if err != nil {
		return err
	}
	item, err := a.watchlist.Get(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n%s\n\n", item.Product.Name, item.Product.URL)

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OBSERVED\tPRICE")
	for _, point := range item.PriceHistory {
		fmt.Fprintf(tw, "%s\t%s\n", point.ObservedAt.Local().Format(timeLayout), point.Price)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary, ok, err := a.watchlist.Summary(id)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(a.out, "\nLowest %s, highest %s, change %s%% since %s\n",
			summary.Lowest, summary.Highest, summary.ChangePercent.StringFixed(2), item.AddedAt.Local().Format(timeLayout))
	}
	return nil
}

// ExitCode maps a command error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

// Describe renders a command error for the terminal.
func (a *App) Describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyTracked):
		return "that product is already on the watchlist"
	case errors.Is(err, domain.ErrAmbiguousID):
		return "that id prefix matches more than one product, use more characters"
	case errors.Is(err, domain.ErrItemNotFound):
		return "no tracked product has that id"
	case errors.Is(err, domain.ErrValidation):
		return fmt.Sprintf("a valid %s product URL is required", a.watchlist.AllowedHost())
	case errors.Is(err, domain.ErrFetch):
		return "the product page could not be reached, try again later"
	case errors.Is(err, domain.ErrExtraction):
		return "product details could not be extracted"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "interrupted"
	default:
		return err.Error()
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func stockLabel(inStock bool) string {
	if inStock {
		return "in stock"
	}
	return "out of stock"
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
