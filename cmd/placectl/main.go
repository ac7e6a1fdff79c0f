// placectl is a debugging CLI for the resolution engine. It runs the same
// strategy builder, resolver, and route planner the server uses, against
// the live APIs configured through the environment.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/kakao"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/openweather"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/tmap"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/config"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/observability"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/trip"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/view"
)

var (
	routeMode    string
	watchResolve bool
)

var rootCmd = &cobra.Command{
	Use:   "placectl",
	Short: "inspect place resolution and route planning",
	Long: `
placectl runs the resolution engine from the command line. The resolve and
route commands call the live Kakao and Tmap APIs and need KAKAO_REST_KEY
(and TMAP_APP_KEY for routes) in the environment.
`,
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies <address> [name]",
	Short: "print the keyword plan for an input, without calling any API",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		address := args[0]
		name := ""
		if len(args) > 1 {
			name = args[1]
		}

		for i, keyword := range place.BuildStrategies(address, name, place.DefaultHeuristics()) {
			fmt.Printf("%d. %s\n", i+1, keyword)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <address> [name]",
	Short: "resolve an address and place name to coordinates",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := args[0]
		name := ""
		if len(args) > 1 {
			name = args[1]
		}

		env, err := newEnv()
		if err != nil {
			return err
		}

		if watchResolve {
			return watchResolution(cmd.Context(), env, address, name)
		}

		loc, err := env.resolver.Resolve(cmd.Context(), address, name)
		if err != nil {
			return err
		}
		return printJSON(loc)
	},
}

var routeCmd = &cobra.Command{
	Use:   "route <origin> <destination>",
	Short: "plan a route between two places",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}

		var weather trip.WeatherSource
		if env.cfg.OpenWeatherKey != "" {
			weather = openweather.NewClient(env.cfg.OpenWeatherKey, env.cfg.TmapTimeout, env.logger)
		}
		routes := tmap.NewClient(env.cfg.TmapAppKey, env.cfg.TmapTimeout, env.logger)
		service := trip.NewService(env.resolver, nil, env.metrics, env.logger)
		directions := trip.NewDirections(service, routes, weather, env.metrics, env.logger)

		info := directions.Plan(cmd.Context(), args[0], args[1], routeMode)
		return printJSON(info)
	},
}

type cliEnv struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	resolver *place.Resolver
}

func newEnv() (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	heuristics := place.DefaultHeuristics()
	if cfg.HeuristicsPath != "" {
		heuristics, err = place.LoadHeuristics(cfg.HeuristicsPath)
		if err != nil {
			return nil, err
		}
	}

	client := kakao.NewClient(cfg.KakaoRESTKey, cfg.KakaoTimeout, metrics, logger)
	provider := kakao.NewCachedProvider(client, cfg.KakaoCacheSize, metrics)
	resolver := place.NewResolver(provider, heuristics, cfg.KakaoTimeout, logger)

	return &cliEnv{cfg: cfg, logger: logger, metrics: metrics, resolver: resolver}, nil
}

// watchResolution drives the resolution through a map-view session and
// prints each view replacement, the way a map frontend would consume it.
func watchResolution(ctx context.Context, env *cliEnv, address, name string) error {
	session := view.NewSession(env.resolver, env.logger, func(v view.MapView) {
		switch {
		case v.Pending:
			fmt.Printf("pending   %s\n", v.Label)
		case v.Marker:
			fmt.Printf("resolved  %s (%f, %f)\n", v.Label, v.Center.Lat, v.Center.Lng)
		default:
			fmt.Printf("unresolved  %s\n", v.Label)
		}
	})

	session.Resolve(ctx, address, name)
	return session.Wait(ctx)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func main() {
	resolveCmd.Flags().BoolVar(&watchResolve, "watch", false, "print view updates instead of the final JSON")
	routeCmd.Flags().StringVar(&routeMode, "mode", trip.ModeCar, "travel mode: car, transit, or walk")

	rootCmd.AddCommand(strategiesCmd, resolveCmd, routeCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
