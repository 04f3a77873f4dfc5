package catalog

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/dhconnelly/rtreego"

	"github.com/jvilanova/biciruta/internal/geo"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	rtreePointTol    = 1e-7
	earthRadiusKm    = 6371.0
)

type spatialPOI struct {
	poi  PointOfInterest
	rect *rtreego.Rect
}

func (s *spatialPOI) Bounds() *rtreego.Rect { return s.rect }

// Service serves catalog queries over a periodically reloaded CSV snapshot.
// Proximity queries go through an r-tree rebuilt on each reload.
type Service struct {
	path string
	ttl  time.Duration

	mu       sync.RWMutex
	pois     []PointOfInterest
	tree     *rtreego.Rtree
	loadedAt time.Time
}

// NewService creates a catalog service over the CSV at path, reloading it
// after ttl. The first query triggers the initial load.
func NewService(path string, ttl time.Duration) *Service {
	return &Service{path: path, ttl: ttl}
}

func (s *Service) ensureLoaded() error {
	s.mu.RLock()
	fresh := s.tree != nil && time.Since(s.loadedAt) < s.ttl
	s.mu.RUnlock()
	if fresh {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree != nil && time.Since(s.loadedAt) < s.ttl {
		return nil
	}

	pois, err := LoadFile(s.path)
	if err != nil {
		if s.tree != nil {
			// Stale data beats no data.
			slog.Warn("catalog reload failed, keeping previous snapshot", "error", err)
			s.loadedAt = time.Now()
			return nil
		}
		return err
	}

	tree := rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren)
	for i := range pois {
		p := rtreego.Point{pois[i].Coordinate.Lat, pois[i].Coordinate.Lon}
		rect, err := rtreego.NewRect(p, []float64{rtreePointTol, rtreePointTol})
		if err != nil {
			return fmt.Errorf("indexing %q: %w", pois[i].Name, err)
		}
		tree.Insert(&spatialPOI{poi: pois[i], rect: rect})
	}

	s.pois = pois
	s.tree = tree
	s.loadedAt = time.Now()
	slog.Info("catalog loaded", "pois", len(pois), "path", s.path)
	return nil
}

// All returns every catalog entry.
func (s *Service) All() ([]PointOfInterest, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PointOfInterest, len(s.pois))
	copy(out, s.pois)
	return out, nil
}

// ByCategory returns the entries of one category, in catalog order.
func (s *Service) ByCategory(category string) ([]PointOfInterest, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []PointOfInterest
	for _, p := range s.pois {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// Find looks up one entry by its normalized name.
func (s *Service) Find(name string) (PointOfInterest, bool, error) {
	if err := s.ensureLoaded(); err != nil {
		return PointOfInterest{}, false, err
	}
	want := NormalizeName(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pois {
		if p.Name == want {
			return p, true, nil
		}
	}
	return PointOfInterest{}, false, nil
}

// Nearby returns entries within radiusKm of center, nearest first. An entry
// named exclude is left out, so a destination does not suggest itself.
func (s *Service) Nearby(center geo.Coordinate, radiusKm float64, exclude string) ([]POIWithDistance, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Longitude degrees shrink with latitude, so the east-west half-width
	// needs the cos(lat) correction or edge POIs get cut before the
	// distance check.
	latDeg := radiusKm / earthRadiusKm * 180 / math.Pi
	lonDeg := latDeg / math.Cos(center.Lat*math.Pi/180)
	bounds, err := rtreego.NewRect(
		rtreego.Point{center.Lat - latDeg, center.Lon - lonDeg},
		[]float64{2 * latDeg, 2 * lonDeg},
	)
	if err != nil {
		return nil, fmt.Errorf("radius query: %w", err)
	}

	var out []POIWithDistance
	for _, hit := range s.tree.SearchIntersect(bounds) {
		sp := hit.(*spatialPOI)
		if sp.poi.Name == exclude {
			continue
		}
		dist := geo.HaversineKm(center, sp.poi.Coordinate)
		if dist <= radiusKm {
			out = append(out, POIWithDistance{PointOfInterest: sp.poi, DistanceKm: dist})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// SuggestionOfDay picks one entry deterministically for a calendar day, so
// everyone asking on the same day sees the same suggestion.
func (s *Service) SuggestionOfDay(day time.Time) (PointOfInterest, error) {
	if err := s.ensureLoaded(); err != nil {
		return PointOfInterest{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pois) == 0 {
		return PointOfInterest{}, fmt.Errorf("catalog: empty")
	}
	seed := int64(day.Year()*1000 + day.YearDay())
	rng := rand.New(rand.NewSource(seed))
	return s.pois[rng.Intn(len(s.pois))], nil
}
