package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/liiist/backend/config"
	"github.com/liiist/backend/internal/domain"
	"github.com/liiist/backend/internal/usecase"
	"github.com/spf13/cobra"
)

// positionFlags holds the shopper coordinates shared by the one-shot commands
type positionFlags struct {
	lat float64
	lon float64
}

func (p *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.lat, "lat", 0, "Shopper latitude (required)")
	cmd.Flags().Float64Var(&p.lon, "lon", 0, "Shopper longitude (required)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func (p *positionFlags) request() domain.PositionRequest {
	lat, lon := p.lat, p.lon
	return domain.PositionRequest{Latitude: &lat, Longitude: &lon}
}

var searchPosition positionFlags

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search products near a position and print JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var cheapestPosition positionFlags

var cheapestStoreCmd = &cobra.Command{
	Use:   "cheapest-store <item>...",
	Short: "Pick the single store covering a shopping list at the lowest total",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheapestStore,
}

func init() {
	searchPosition.register(searchCmd)
	cheapestPosition.register(cheapestStoreCmd)
	rootCmd.AddCommand(searchCmd, cheapestStoreCmd)
}

// productSearcher is the part of the search usecase the one-shot commands use
type productSearcher interface {
	Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error)
	FindCheapestStore(ctx context.Context, request *domain.ShoppingListRequest) (*domain.CoverageResult, error)
}

func withSearchService(run func(searcher productSearcher) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	service, memoryCache := newSearchService(cfg)
	defer memoryCache.Close()
	return run(service)
}

func runSearch(cmd *cobra.Command, args []string) error {
	return withSearchService(func(searcher productSearcher) error {
		return searchAndPrint(cmd.Context(), searcher, strings.Join(args, " "), searchPosition, cmd.OutOrStdout())
	})
}

func runCheapestStore(cmd *cobra.Command, args []string) error {
	return withSearchService(func(searcher productSearcher) error {
		return cheapestStoreAndPrint(cmd.Context(), searcher, args, cheapestPosition, cmd.OutOrStdout())
	})
}

func searchAndPrint(ctx context.Context, searcher productSearcher, query string, position positionFlags, out io.Writer) error {
	resp, err := searcher.Search(ctx, &domain.SearchRequest{
		Query:           query,
		PositionRequest: position.request(),
	})
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

// cheapestStoreAndPrint prints the chosen store, or null when no store offers any item
func cheapestStoreAndPrint(ctx context.Context, searcher productSearcher, items []string, position positionFlags, out io.Writer) error {
	result, err := searcher.FindCheapestStore(ctx, &domain.ShoppingListRequest{
		Products: items,
		Position: position.request(),
	})
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var _ productSearcher = (*usecase.SearchService)(nil)
