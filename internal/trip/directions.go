package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/openweather"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/tmap"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/observability"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
)

// Travel modes accepted by Directions.Plan.
const (
	ModeCar     = "car"
	ModeTransit = "transit"
	ModeWalk    = "walk"
)

// Walking speed assumed when estimating a walk from the driving distance.
const walkSpeedKmh = 4.0

var modeKo = map[string]string{
	"WALK":       "도보",
	"BUS":        "버스",
	"SUBWAY":     "지하철",
	"EXPRESSBUS": "고속버스",
	"TRAIN":      "기차",
	"FERRY":      "해운",
}

// RoutePlanner finds routes between two coordinates.
type RoutePlanner interface {
	CarRoute(ctx context.Context, from, to place.Coordinates) (tmap.CarRoute, error)
	TransitRoute(ctx context.Context, from, to place.Coordinates) (tmap.TransitRoute, error)
}

// WeatherSource reports current conditions at a coordinate.
type WeatherSource interface {
	Current(ctx context.Context, coord place.Coordinates) (openweather.Weather, error)
}

// WeatherInfo is the destination weather attached to a route response.
type WeatherInfo struct {
	Name string  `json:"name"`
	Temp float64 `json:"temp"`
	Desc string  `json:"desc"`
}

// CarInfo summarizes a driving route.
type CarInfo struct {
	TimeMin    int     `json:"time_min"`
	DistanceKm float64 `json:"distance_km"`
}

// TransitInfo summarizes the best transit itinerary.
type TransitInfo struct {
	TotalTimeMin    int     `json:"total_time_min"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	TransferCount   int     `json:"transfer_count"`
	PathType        int     `json:"path_type"`
}

// TransitStep is one leg of a transit itinerary, with a display summary.
type TransitStep struct {
	Order   int    `json:"order"`
	Mode    string `json:"mode"`
	ModeKo  string `json:"mode_ko"`
	Summary string `json:"summary"`
}

// RouteRaw carries everything gathered while planning, for debugging and
// client-side extensions.
type RouteRaw struct {
	Departure    string              `json:"departure"`
	Destination  string              `json:"destination"`
	Mode         string              `json:"mode"`
	Weather      *WeatherInfo        `json:"weather"`
	CarInfo      *CarInfo            `json:"car_info"`
	TransitInfo  *TransitInfo        `json:"transit_info"`
	CarPath      []place.Coordinates `json:"car_path"`
	TransitSteps []TransitStep       `json:"transit_steps"`
	Errors       []string            `json:"errors"`
}

// RouteInfo is the route response shape the frontend renders. Duration and
// Distance are empty when no route could be planned.
type RouteInfo struct {
	Duration string   `json:"duration"`
	Distance string   `json:"distance"`
	Steps    []string `json:"steps"`
	Raw      RouteRaw `json:"raw"`
}

// Directions plans routes between two user-entered places.
type Directions struct {
	resolver Resolver
	routes   RoutePlanner
	weather  WeatherSource // nil when no API key is configured
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewDirections creates a route planner. weather may be nil.
func NewDirections(resolver Resolver, routes RoutePlanner, weather WeatherSource, metrics *observability.Metrics, logger *slog.Logger) *Directions {
	return &Directions{
		resolver: resolver,
		routes:   routes,
		weather:  weather,
		metrics:  metrics,
		logger:   logger,
	}
}

// Plan resolves both endpoints and builds a route for the requested mode.
// Failures along the way degrade the response instead of failing it: each
// is recorded in Raw.Errors and the route fields stay empty.
func (d *Directions) Plan(ctx context.Context, origin, destination, mode string) RouteInfo {
	if mode == "" {
		mode = ModeCar
	}

	info := RouteInfo{
		Steps: []string{},
		Raw: RouteRaw{
			Departure:    origin,
			Destination:  destination,
			Mode:         mode,
			CarPath:      []place.Coordinates{},
			TransitSteps: []TransitStep{},
			Errors:       []string{},
		},
	}

	if origin == "" || destination == "" {
		info.Raw.Errors = append(info.Raw.Errors, "출발지와 도착지가 필요합니다.")
		d.metrics.RouteRequests.WithLabelValues(mode, "error").Inc()
		return info
	}

	from, fromOK := d.locate(ctx, origin, &info.Raw)
	to, toOK := d.locate(ctx, destination, &info.Raw)
	if !fromOK || !toOK {
		d.metrics.RouteRequests.WithLabelValues(mode, "error").Inc()
		return info
	}

	d.fetchWeather(ctx, to, &info.Raw)

	switch mode {
	case ModeCar:
		if car, ok := d.carRoute(ctx, from, to, &info.Raw); ok {
			info.Duration = fmt.Sprintf("약 %d분", car.TimeMin)
			info.Distance = fmt.Sprintf("%.1f km", car.DistanceKm)
			info.Steps = []string{
				origin + "에서 출발",
				fmt.Sprintf("Tmap 자동차 경로를 따라 이동 (약 %.1fkm)", car.DistanceKm),
				destination + " 도착",
			}
		}
	case ModeTransit:
		if tr, ok := d.transitRoute(ctx, from, to, &info.Raw); ok {
			info.Duration = fmt.Sprintf("약 %d분", tr.TotalTimeMin)
			info.Distance = fmt.Sprintf("%.1f km", tr.TotalDistanceKm)
			for _, step := range info.Raw.TransitSteps {
				info.Steps = append(info.Steps, step.Summary)
			}
		}
	case ModeWalk:
		// No walking API, so estimate from the driving distance.
		if car, ok := d.carRoute(ctx, from, to, &info.Raw); ok {
			walkMinutes := int(car.DistanceKm / walkSpeedKmh * 60)
			info.Duration = fmt.Sprintf("약 %d분", walkMinutes)
			info.Distance = fmt.Sprintf("%.1f km", car.DistanceKm)
			info.Steps = []string{
				origin + "에서 도보 출발",
				fmt.Sprintf("약 %.1fkm 도보 이동", car.DistanceKm),
				destination + " 도착",
			}
		}
	}

	if info.Duration == "" {
		info.Raw.Errors = append(info.Raw.Errors, "적절한 경로를 찾지 못했습니다.")
		d.metrics.RouteRequests.WithLabelValues(mode, "error").Inc()
		return info
	}

	d.metrics.RouteRequests.WithLabelValues(mode, "ok").Inc()
	return info
}

func (d *Directions) locate(ctx context.Context, query string, raw *RouteRaw) (place.Coordinates, bool) {
	loc, err := d.resolver.Resolve(ctx, query, "")
	if err != nil {
		d.logger.Warn("failed to locate route endpoint", "query", query, "error", err)
		raw.Errors = append(raw.Errors, fmt.Sprintf("'%s' 좌표 변환 실패", query))
		return place.Coordinates{}, false
	}
	return loc.Coord, true
}

func (d *Directions) fetchWeather(ctx context.Context, at place.Coordinates, raw *RouteRaw) {
	if d.weather == nil {
		return
	}
	w, err := d.weather.Current(ctx, at)
	if err != nil {
		d.logger.Warn("failed to fetch destination weather", "error", err)
		raw.Errors = append(raw.Errors, "날씨 정보 조회 실패")
		return
	}
	raw.Weather = &WeatherInfo{
		Name: w.Location,
		Temp: w.TempC,
		Desc: w.Description,
	}
}

func (d *Directions) carRoute(ctx context.Context, from, to place.Coordinates, raw *RouteRaw) (CarInfo, bool) {
	route, err := d.routes.CarRoute(ctx, from, to)
	if errors.Is(err, tmap.ErrNoRoute) {
		return CarInfo{}, false
	}
	if err != nil {
		d.logger.Warn("car route lookup failed", "error", err)
		raw.Errors = append(raw.Errors, "자동차 경로 조회 실패")
		return CarInfo{}, false
	}

	info := CarInfo{
		TimeMin:    route.TotalSeconds / 60,
		DistanceKm: roundKm(route.TotalMeters),
	}
	raw.CarInfo = &info
	if len(route.Path) > 0 {
		raw.CarPath = route.Path
	}
	return info, true
}

func (d *Directions) transitRoute(ctx context.Context, from, to place.Coordinates, raw *RouteRaw) (TransitInfo, bool) {
	route, err := d.routes.TransitRoute(ctx, from, to)
	if errors.Is(err, tmap.ErrNoRoute) {
		return TransitInfo{}, false
	}
	if err != nil {
		d.logger.Warn("transit route lookup failed", "error", err)
		raw.Errors = append(raw.Errors, "대중교통 경로 조회 실패")
		return TransitInfo{}, false
	}

	info := TransitInfo{
		TotalTimeMin:    route.TotalSeconds / 60,
		TotalDistanceKm: roundKm(route.TotalMeters),
		TransferCount:   route.TransferCount,
		PathType:        route.PathType,
	}
	raw.TransitInfo = &info

	for i, leg := range route.Legs {
		ko, ok := modeKo[leg.Mode]
		if !ok {
			ko = leg.Mode
		}
		step := TransitStep{
			Order:  i + 1,
			Mode:   leg.Mode,
			ModeKo: ko,
			Summary: fmt.Sprintf("%s → %s (%s) 약 %d분",
				leg.StartName, leg.EndName, ko, leg.SectionSecs/60),
		}
		raw.TransitSteps = append(raw.TransitSteps, step)
	}
	return info, true
}

func roundKm(meters int) float64 {
	return math.Round(float64(meters)/100) / 10
}
