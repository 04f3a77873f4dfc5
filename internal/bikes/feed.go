package bikes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jvilanova/biciruta/internal/geo"
)

// DefaultFeedURL is the Valenbisi availability dataset on the Valencia
// open-data portal (opendatasoft explore API v2.1).
const DefaultFeedURL = "https://valencia.opendatasoft.com/api/explore/v2.1/catalog/datasets/valenbisi-disponibilitat-valenbisi-dsiponibilidad/records"

const (
	feedPageSize   = 100
	feedMaxRecords = 400
)

// FeedClient fetches the live station snapshot from the open-data portal.
type FeedClient struct {
	baseURL string
	client  *http.Client
}

// NewFeedClient creates a feed client with the given request timeout.
func NewFeedClient(timeout time.Duration) *FeedClient {
	return &FeedClient{
		baseURL: DefaultFeedURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewFeedClientWithURL is used by tests to point the client at a fake feed.
func NewFeedClientWithURL(baseURL string, timeout time.Duration) *FeedClient {
	return &FeedClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type feedRecord struct {
	Name    string `json:"name"`
	Number  int    `json:"number"`
	Address string `json:"address"`
	Geo     *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geo_point_2d"`
	Available int       `json:"available"`
	Free      int       `json:"free"`
	Total     int       `json:"total"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type feedPage struct {
	Results []feedRecord `json:"results"`
}

// FetchStations retrieves the full station snapshot, paging through the feed.
// A failure on the first page is an error; a failure mid-pagination returns
// the records collected so far.
func (c *FeedClient) FetchStations(ctx context.Context) ([]Station, error) {
	var stations []Station

	for offset := 0; offset < feedMaxRecords; offset += feedPageSize {
		records, err := c.fetchPage(ctx, offset)
		if err != nil {
			if offset == 0 {
				return nil, fmt.Errorf("fetching station feed: %w", err)
			}
			break
		}
		if len(records) == 0 {
			break
		}
		for _, rec := range records {
			if s, ok := recordToStation(rec); ok {
				stations = append(stations, s)
			}
		}
	}

	return stations, nil
}

func (c *FeedClient) fetchPage(ctx context.Context, offset int) ([]feedRecord, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", feedPageSize))
	params.Set("offset", fmt.Sprintf("%d", offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting page at offset %d: %w", offset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d at offset %d", resp.StatusCode, offset)
	}

	var page feedPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parsing feed page: %w", err)
	}
	return page.Results, nil
}

// recordToStation normalizes a raw feed record. Records without coordinates
// are dropped; everything downstream assumes a valid position.
func recordToStation(rec feedRecord) (Station, bool) {
	if rec.Geo == nil {
		return Station{}, false
	}

	name := rec.Name
	if name == "" {
		if rec.Number > 0 {
			name = fmt.Sprintf("Estación %d", rec.Number)
		} else {
			name = "Estación desconocida"
		}
	}

	return Station{
		Number:         rec.Number,
		Name:           name,
		Address:        rec.Address,
		Coordinate:     geo.Coordinate{Lat: rec.Geo.Lat, Lon: rec.Geo.Lon},
		BikesAvailable: rec.Available,
		DocksFree:      rec.Free,
		CapacityTotal:  rec.Total,
		Status:         rec.Status,
		UpdatedAt:      rec.UpdatedAt,
	}, true
}
