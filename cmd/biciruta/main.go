// Command biciruta plans cultural trips and tours over the Valenbisi
// network from the terminal.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jvilanova/biciruta/internal/bikes"
	"github.com/jvilanova/biciruta/internal/catalog"
	"github.com/jvilanova/biciruta/internal/config"
	"github.com/jvilanova/biciruta/internal/geo"
	"github.com/jvilanova/biciruta/internal/geocode"
	"github.com/jvilanova/biciruta/internal/routing"
	"github.com/jvilanova/biciruta/internal/tour"
	"github.com/jvilanova/biciruta/internal/trip"
	"github.com/jvilanova/biciruta/internal/weather"
)

var rootCmd = &cobra.Command{
	Use:   "biciruta",
	Short: "Cultural trip planning over the Valenbisi bike-share network",
	Long:  `Plan walking or bike-assisted trips to Valencia's cultural facilities, and chain them into multi-stop tours.`,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip from an address to a facility or address",
	Run:   runPlan,
}

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List Valenbisi stations near a coordinate",
	Run:   runStations,
}

var poisCmd = &cobra.Command{
	Use:   "pois",
	Short: "List the cultural facility catalog",
	Run:   runPois,
}

var suggestionCmd = &cobra.Command{
	Use:   "suggestion",
	Short: "Show the facility suggestion of the day",
	Run:   runSuggestion,
}

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Plan and walk through a multi-stop tour",
	Run:   runTour,
}

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show current conditions in Valencia",
	Run:   runWeather,
}

var (
	fromAddress string
	toName      string
	toAddress   string
	lat, lon    float64
	minBikes    int
	minDocks    int
	limit       int
	byDocks     bool
	category    string
	tourStops   []string
)

func init() {
	planCmd.Flags().StringVar(&fromAddress, "from", "", "Start address")
	planCmd.Flags().StringVar(&toName, "to-name", "", "Destination facility name")
	planCmd.Flags().StringVar(&toAddress, "to", "", "Destination address")
	planCmd.Flags().IntVar(&minBikes, "min-bikes", 1, "Bikes required at the pickup station")
	planCmd.Flags().IntVar(&minDocks, "min-docks", 1, "Free docks required at the drop-off station")

	stationsCmd.Flags().Float64Var(&lat, "lat", geo.CityCenter.Lat, "Latitude")
	stationsCmd.Flags().Float64Var(&lon, "lon", geo.CityCenter.Lon, "Longitude")
	stationsCmd.Flags().IntVar(&limit, "limit", 5, "Number of stations")
	stationsCmd.Flags().BoolVar(&byDocks, "docks", false, "Search by free docks instead of bikes")

	poisCmd.Flags().StringVar(&category, "category", "", "Filter by category")

	tourCmd.Flags().StringVar(&fromAddress, "from", "", "Start address")
	tourCmd.Flags().StringArrayVar(&tourStops, "stop", nil, "Facility name to visit (repeatable)")
	tourCmd.Flags().IntVar(&minBikes, "min-bikes", 1, "Bikes required at pickup stations")
	tourCmd.Flags().IntVar(&minDocks, "min-docks", 1, "Free docks required at drop-off stations")

	rootCmd.AddCommand(planCmd, stationsCmd, poisCmd, suggestionCmd, tourCmd, weatherCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// services bundles everything the commands need, built once per invocation.
type services struct {
	cfg       *config.Config
	stations  *bikes.StationService
	catalog   *catalog.Service
	geocoder  *geocode.Service
	assembler *trip.Assembler
	weather   *weather.Service
}

func buildServices() *services {
	cfg := config.Load()
	stations := bikes.NewStationService(bikes.NewFeedClient(cfg.HTTPTimeout), cfg.StationTTL)
	router := routing.NewOSRMClient(cfg.HTTPTimeout, cfg.RouteTTL)
	return &services{
		cfg:       cfg,
		stations:  stations,
		catalog:   catalog.NewService(cfg.CatalogPath, cfg.CatalogTTL),
		geocoder:  geocode.New(cfg.OpenCageKey, cfg.HTTPTimeout),
		assembler: trip.NewAssembler(stations, router, cfg.CO2GramsPerKm),
		weather:   weather.New(cfg.OpenWeatherKey, cfg.WeatherTTL, cfg.HTTPTimeout),
	}
}

func (s *services) resolveStart(ctx context.Context, address string) geo.Coordinate {
	if address == "" {
		log.Fatal("--from is required")
	}
	res, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Fatalf("Could not geocode %q: %v", address, err)
	}
	if res.Relaxed {
		fmt.Printf("⚠️  %q matched outside the city, using best guess\n", address)
	}
	return geo.Coordinate{Lat: res.Lat, Lon: res.Lon}
}

func (s *services) resolveDestination(ctx context.Context) (geo.Coordinate, string) {
	switch {
	case toName != "":
		poi, found, err := s.catalog.Find(toName)
		if err != nil {
			log.Fatalf("Catalog error: %v", err)
		}
		if !found {
			log.Fatalf("No facility named %q in the catalog", toName)
		}
		return poi.Coordinate, poi.Name
	case toAddress != "":
		return s.resolveStart(ctx, toAddress), toAddress
	default:
		log.Fatal("--to-name or --to is required")
		return geo.Coordinate{}, ""
	}
}

func runPlan(cmd *cobra.Command, args []string) {
	svcs := buildServices()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := svcs.resolveStart(ctx, fromAddress)
	end, label := svcs.resolveDestination(ctx)

	planned, err := svcs.assembler.Assemble(ctx, start, end, minBikes, minDocks)
	if err != nil {
		log.Fatalf("Could not plan trip: %v", err)
	}

	fmt.Printf("Trip to %s\n", label)
	printTrip(planned)
}

func printTrip(t trip.Trip) {
	switch planned := t.(type) {
	case *trip.DirectWalk:
		fmt.Printf("  🚶 Walk %.2f km (%.0f min), destination is close enough\n",
			planned.Walk.DistanceKm, planned.Walk.DurationMin)
	case *trip.BikeAssisted:
		fmt.Printf("  🚶 Walk %.2f km to station %s (%d bikes)\n",
			planned.WalkToOrigin.DistanceKm, planned.OriginStation.Name, planned.OriginStation.BikesAvailable)
		fmt.Printf("  🚲 Ride %.2f km (%.0f min)\n", planned.Bike.DistanceKm, planned.Bike.DurationMin)
		fmt.Printf("  🚶 Walk %.2f km from station %s (%d free docks)\n",
			planned.WalkToDestination.DistanceKm, planned.DestinationStation.Name, planned.DestinationStation.DocksFree)
		fmt.Printf("  🌍 %.3f kg CO2 avoided (%.1f tree-days), %.0f kcal\n",
			planned.CO2AvoidedKg,
			trip.TreeDayEquivalent(planned.CO2AvoidedKg),
			trip.CaloriesBurned(planned.Bike.DistanceKm, planned.Bike.DurationMin))
	}
	fmt.Printf("  Total: %.2f km, %.0f min\n", t.TotalDistanceKm(), t.TotalDurationMin())
}

func runStations(cmd *cobra.Command, args []string) {
	svcs := buildServices()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	criterion := bikes.BikesAvailable
	if byDocks {
		criterion = bikes.DocksFree
	}
	found := svcs.stations.NearestN(ctx, geo.Coordinate{Lat: lat, Lon: lon}, 1, criterion, limit)
	if len(found) == 0 {
		fmt.Println("No open stations found (feed may be unavailable)")
		return
	}
	for _, st := range found {
		fmt.Printf("%4.0f m  #%d %s  🚲 %d  🅿 %d\n",
			st.DistanceMeters, st.Number, st.Name, st.BikesAvailable, st.DocksFree)
	}
}

func runPois(cmd *cobra.Command, args []string) {
	svcs := buildServices()

	var (
		pois []catalog.PointOfInterest
		err  error
	)
	if category == "" {
		pois, err = svcs.catalog.All()
	} else {
		pois, err = svcs.catalog.ByCategory(category)
	}
	if err != nil {
		log.Fatalf("Catalog error: %v", err)
	}
	for _, p := range pois {
		fmt.Printf("%-40s  %s\n", p.Name, p.Category)
	}
	fmt.Printf("%d facilities\n", len(pois))
}

func runSuggestion(cmd *cobra.Command, args []string) {
	svcs := buildServices()
	poi, err := svcs.catalog.SuggestionOfDay(time.Now())
	if err != nil {
		log.Fatalf("Catalog error: %v", err)
	}
	fmt.Printf("🌟 Today's suggestion: %s (%s)\n", poi.Name, poi.Category)
	if poi.InfoLink != "" {
		fmt.Printf("   %s\n", poi.InfoLink)
	}
}

func runWeather(cmd *cobra.Command, args []string) {
	svcs := buildServices()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := svcs.weather.Current(ctx)
	if err != nil {
		log.Fatalf("Weather unavailable: %v", err)
	}
	fmt.Printf("🌦  %s, %.1f°C (feels like %.1f°C), wind %.1f m/s\n",
		report.Description, report.TempC, report.FeelsLikeC, report.WindSpeed)
}

func runTour(cmd *cobra.Command, args []string) {
	svcs := buildServices()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := tour.Stop{Name: fromAddress, Coordinate: svcs.resolveStart(ctx, fromAddress)}

	var stops []tour.Stop
	for _, name := range tourStops {
		poi, found, err := svcs.catalog.Find(name)
		if err != nil {
			log.Fatalf("Catalog error: %v", err)
		}
		if !found {
			log.Fatalf("No facility named %q in the catalog", name)
		}
		stops = append(stops, tour.Stop{Name: poi.Name, Coordinate: poi.Coordinate})
	}

	nav := tour.NewNavigator(svcs.assembler)
	ordered, err := nav.Plan(start, stops)
	if err != nil {
		log.Fatalf("Could not plan tour: %v", err)
	}

	fmt.Println("Tour order:")
	for i, s := range ordered {
		marker := "  "
		if s.IsStart {
			marker = "🏁"
		}
		fmt.Printf("%s %d. %s\n", marker, i, s.Name)
	}

	if err := nav.Begin(); err != nil {
		log.Fatalf("Could not begin tour: %v", err)
	}

	for nav.State() == tour.Navigating {
		progress := nav.Progress()
		leg, err := nav.Advance(ctx, minBikes, minDocks)
		if err != nil {
			log.Fatalf("Leg to %s failed: %v", progress.NextStop.Name, err)
		}
		fmt.Printf("\n➡️  %s\n", progress.NextStop.Name)
		printTrip(leg)
	}

	stats := nav.Progress().Stats
	fmt.Printf("\n✅ Tour complete: %.2f km in %.0f min across %d legs\n",
		stats.TotalDistanceKm, stats.TotalDurationMin, stats.LegsCompleted)
	if stats.BikeLegs > 0 {
		fmt.Printf("   🚲 %.2f km ridden, %.3f kg CO2 avoided (%.1f tree-days), %.0f kcal\n",
			stats.BikeDistanceKm, stats.CO2AvoidedKg, stats.TreeDays, stats.Calories)
	}
}
