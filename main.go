package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"itemlist/internal/config"
	"itemlist/internal/domain"
	"itemlist/internal/eventbus"
	"itemlist/internal/ui"
)

type options struct {
	configPath string
	title      string
	save       bool
	logPath    string
	items      []string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("itemlist", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", config.DefaultFileName, "Config file with the items to choose from")
	fs.StringVar(&opts.title, "title", "", "Title shown above the list")
	fs.BoolVar(&opts.save, "save", false, "Write the confirmed selection back to the config file")
	fs.StringVar(&opts.logPath, "log", "itemlist.log", "Log file")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.items = fs.Args()
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	// stdout belongs to the TUI and the final selection, so logs go to a file
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
	} else {
		defer logFile.Close()
		logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if err := run(opts, logger, os.Stdout); err != nil {
		logger.Error("itemlist failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger, out io.Writer) error {
	configSvc := config.NewService(opts.configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	if err := applyOptions(cfg, opts); err != nil {
		return err
	}
	logger.Info("config loaded", "path", configSvc.Path(), "items", len(cfg.Items), "selected", len(cfg.Selected))

	bus := eventbus.New(domain.ListEventTypes...).WithLogger(logger.With("component", "eventbus"))
	unsubscribe, err := logEvents(bus, logger)
	if err != nil {
		return err
	}
	defer unsubscribe()

	model, err := ui.NewModel(bus, cfg, logger)
	if err != nil {
		return err
	}
	defer model.Close()

	logger.Info("starting UI")
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info("UI exited", "confirmed", model.Confirmed())

	if !model.Confirmed() {
		return nil
	}

	selected := model.List().SelectedItems()
	if err := printSelection(out, selected); err != nil {
		return err
	}

	if opts.save {
		cfg.Items = cfg.Items[:0]
		for _, it := range model.List().Items() {
			cfg.Items = append(cfg.Items, config.ItemConfig{ID: it.ID, Label: it.Label})
		}
		cfg.SetSelected(selected)
		if err := configSvc.Save(cfg); err != nil {
			return err
		}
		logger.Info("config saved", "path", configSvc.Path())
	}
	return nil
}

// applyOptions layers the command line over the loaded config
func applyOptions(cfg *config.Config, opts options) error {
	if opts.title != "" {
		cfg.Title = opts.title
	}
	for _, arg := range opts.items {
		item, err := domain.ParseItem(arg)
		if err != nil {
			return fmt.Errorf("invalid item %q: %w", arg, err)
		}
		cfg.Items = append(cfg.Items, config.ItemConfig{ID: item.ID, Label: item.Label})
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid items: %w", err)
	}
	return nil
}

// logEvents records every list event, as an outside observer of the bus
func logEvents(bus eventbus.EventBus, logger *slog.Logger) (func(), error) {
	var unsubs []func()
	unsubscribeAll := func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}

	for _, name := range domain.ListEventTypes {
		unsub, err := bus.Subscribe(name, func(e eventbus.DomainEvent) {
			switch ev := e.(type) {
			case domain.ItemsArrayChangedEvent:
				logger.Debug("event", "type", ev.Type(), "items", domain.IDs(ev.List.Items()))
			case domain.SelectedItemsChangedEvent:
				logger.Debug("event", "type", ev.Type(), "selected", domain.IDs(ev.List.SelectedItems()), "pruned", domain.IDs(ev.Pruned))
			case domain.OKButtonClickEvent:
				logger.Debug("event", "type", ev.Type(), "selected", domain.IDs(ev.List.SelectedItems()))
			}
		})
		if err != nil {
			unsubscribeAll()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", name, err)
		}
		unsubs = append(unsubs, unsub)
	}
	return unsubscribeAll, nil
}

func printSelection(w io.Writer, items []domain.Item) error {
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", it.ID, it.Label); err != nil {
			return fmt.Errorf("failed to write selection: %w", err)
		}
	}
	return nil
}
