package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ninesl/offmeta"
)

var (
	cfgFile string
	filters offmeta.FilterState
	colors  string
	games   []string
	sortKey string
	order   string
	output  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "offmeta-demo [text]",
	Short: "Search Scryfall and rank the results by EDHREC popularity",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSearch,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file path")
	flags.StringVarP(&filters.Type, "type", "t", "", "card type, e.g. Creature")
	flags.StringVar(&filters.Subtypes, "subtypes", "", "comma separated subtypes")
	flags.Bool("all-subtypes", false, "require every subtype instead of any")
	flags.StringVar(&colors, "colors", "", "color letters, e.g. WU")
	flags.Bool("identity", false, "match color identity instead of card colors")
	flags.StringVarP(&filters.Rarity, "rarity", "r", "", "common, uncommon, rare or mythic")
	flags.StringVar(&filters.ManaValue, "mv", "", "mana value expression, e.g. <=2")
	flags.StringVar(&filters.PriceMin, "min-price", "", "minimum USD price")
	flags.StringVar(&filters.PriceMax, "max-price", "", "maximum USD price")
	flags.StringVarP(&filters.Format, "format", "f", "", "legal in format, e.g. commander")
	flags.StringSliceVar(&games, "game", nil, "available in: paper, mtgo, arena")
	flags.IntP("percentile", "p", offmeta.DefaultPercentile, "popularity percentile to keep (0-100)")
	flags.StringVarP(&sortKey, "sort", "s", string(offmeta.SortPopularity), "edhrec, name, released, usd, cmc, power, toughness")
	flags.StringVar(&order, "dir", "", "asc or desc, default depends on --sort")
	flags.StringVarP(&output, "output", "o", "table", "output format: json, table")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	_ = viper.BindPFlag("search.percentile", flags.Lookup("percentile"))
	_ = viper.BindPFlag("search.identity", flags.Lookup("identity"))
	_ = viper.BindPFlag("search.all_subtypes", flags.Lookup("all-subtypes"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("offmeta")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("OFFMETA")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("api.url", "https://api.scryfall.com")
	viper.SetDefault("api.user_agent", "OffMetaDemo/1.0")
	viper.SetDefault("api.max_pages", offmeta.DefaultMaxPages)
	viper.SetDefault("api.timeout", 30*time.Second)
	viper.SetDefault("search.percentile", offmeta.DefaultPercentile)

	_ = viper.ReadInConfig()
}

func runSearch(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	explorer, err := offmeta.NewWithConfig(offmeta.Config{
		APIURL:       viper.GetString("api.url"),
		AppUserAgent: viper.GetString("api.user_agent"),
		ProxyURL:     viper.GetString("api.proxy_url"),
		MaxPages:     viper.GetInt("api.max_pages"),
		Logger:       offmeta.NewTextLogger(level),
	})
	if err != nil {
		return err
	}

	filters.Query = strings.Join(args, " ")
	for _, c := range strings.ToUpper(colors) {
		filters.Colors = append(filters.Colors, offmeta.Color(c))
	}
	if viper.GetBool("search.identity") {
		filters.ColorMode = offmeta.ColorModeIdentity
	}
	if viper.GetBool("search.all_subtypes") {
		filters.SubtypeLogic = offmeta.SubtypeAnd
	}
	for _, g := range games {
		filters.Availability = append(filters.Availability, offmeta.Platform(strings.ToLower(g)))
	}

	key := offmeta.SortKey(sortKey)
	if !key.Valid() {
		return fmt.Errorf("unknown sort key %q", sortKey)
	}
	rank := offmeta.DefaultRankState().WithSortKey(key)
	rank.Percentile = viper.GetInt("search.percentile")
	if order != "" {
		rank.Direction = offmeta.Direction(order)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, viper.GetDuration("api.timeout"))
	defer cancel()

	fmt.Fprintf(os.Stderr, "query: %s\n", offmeta.CompileQuery(filters, rank))
	cards, err := explorer.Search(ctx, filters, rank)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "RANK\tNAME\tTYPE\tRELEASED\tUSD\n")
		for _, card := range cards {
			rankText := "-"
			if r, ok := card.Rank(); ok {
				rankText = fmt.Sprint(r)
			}
			price, _ := card.PriceUSD()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rankText, card.Name, card.TypeLine, card.ReleasedAt, price)
		}
		w.Flush()
		fmt.Printf("\nTotal: %d cards\n", len(cards))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
