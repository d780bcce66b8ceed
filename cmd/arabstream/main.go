package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"github.com/arabstream/arabstream/internal/appflow"
	"github.com/arabstream/arabstream/internal/config"
	"github.com/arabstream/arabstream/internal/util"
	"github.com/arabstream/arabstream/internal/version"
	"github.com/arabstream/arabstream/pkg/arabstream"
)

func main() {
	versionFlag := flag.Bool("version", false, "show version information")
	debugFlag := flag.Bool("debug", false, "enable debug mode")
	perfFlag := flag.Bool("perf", false, "print a timing report on exit")
	helpFlag := flag.Bool("help", false, "show help message")
	altHelpFlag := flag.Bool("h", false, "show help message")
	configPath := flag.String("config", "", "path to the YAML configuration")
	provider := flag.String("provider", "", "provider to use")
	listFlag := flag.Bool("list", false, "list providers and categories")
	category := flag.String("category", "", "catalog category to print")
	page := flag.Int("page", 1, "catalog page")
	search := flag.String("search", "", "search query")
	load := flag.String("load", "", "detail page URL to load")
	links := flag.String("links", "", "movie or episode URL to resolve")

	flag.Parse()

	if *versionFlag || version.HasVersionArg() {
		version.ShowVersion()
		return
	}
	if *helpFlag || *altHelpFlag {
		util.ShowHelp()
		return
	}

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalln(util.ErrorHandler(err))
	}

	util.SetDebugMode(*debugFlag || cfg.Debug)
	util.InitLogger(cfg.LogFormat)
	util.PerfEnabled = *perfFlag
	util.Debug("Starting", "version", version.Version, "config", path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := arabstream.NewClient(cfg)
	err = run(ctx, client, action{
		provider: *provider,
		list:     *listFlag,
		category: *category,
		page:     *page,
		search:   *search,
		load:     *load,
		links:    *links,
	})

	if util.PerfEnabled {
		fmt.Println(util.GetPerfTracker().Report())
	}
	if err != nil {
		stop()
		log.Fatalln(util.ErrorHandler(err))
	}
}

// action holds the non-interactive flags; at most one of them is honoured
type action struct {
	provider string
	list     bool
	category string
	page     int
	search   string
	load     string
	links    string
}

func run(ctx context.Context, client *arabstream.Client, a action) error {
	switch {
	case a.list:
		printProviders(client)
		return nil

	case a.category != "":
		if a.provider == "" {
			return errors.New("-category requires -provider")
		}
		entries, err := appflow.Catalog(ctx, client, a.provider, a.category, a.page)
		if err != nil {
			return err
		}
		fmt.Print(appflow.RenderEntries(entries))
		return nil

	case a.search != "":
		query, err := util.ValidateQuery(a.search)
		if err != nil {
			return err
		}
		entries, err := appflow.Search(ctx, client, a.provider, query)
		if err != nil {
			return err
		}
		fmt.Print(appflow.RenderEntries(entries))
		return nil

	case a.load != "":
		if a.provider == "" {
			return errors.New("-load requires -provider")
		}
		detail, err := appflow.LoadDetail(ctx, client, a.provider, a.load)
		if err != nil {
			return err
		}
		fmt.Println(appflow.RenderDetail(detail))
		if detail.IsSeries() {
			for _, ep := range detail.Episodes {
				fmt.Printf("  %s  %s\n", ep.Label(), ep.URL)
			}
		} else {
			fmt.Println("  data:", detail.DataURL)
		}
		return nil

	case a.links != "":
		if a.provider == "" {
			return errors.New("-links requires -provider")
		}
		resolved, err := appflow.ResolveLinks(ctx, client, a.provider, a.links)
		if err != nil {
			return err
		}
		fmt.Print(appflow.RenderLinks(resolved))
		return nil
	}

	return appflow.Run(ctx, client, a.provider)
}

func printProviders(client *arabstream.Client) {
	for _, p := range client.Providers() {
		fmt.Println(p.Name)
		for _, c := range p.Categories {
			fmt.Printf("  %-16s %s\n", c.Key, c.Name)
		}
	}
}
