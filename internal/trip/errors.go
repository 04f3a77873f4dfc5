package trip

import (
	"errors"
	"fmt"
)

// ErrRouteUnavailable means the routing collaborator failed for one of the
// trip's legs. Partial results are discarded; the caller may retry.
var ErrRouteUnavailable = errors.New("trip: route unavailable")

// StationRole says which end of the trip a station search served.
type StationRole string

const (
	RoleOrigin      StationRole = "origin"
	RoleDestination StationRole = "destination"
)

// NoStationError reports that no station met the capacity floor near one end
// of the trip. Recoverable by loosening the minimum quantity.
type NoStationError struct {
	Role        StationRole
	MinQuantity int
}

func (e *NoStationError) Error() string {
	what := "bikes available"
	if e.Role == RoleDestination {
		what = "free docks"
	}
	return fmt.Sprintf("trip: no %s station with at least %d %s", e.Role, e.MinQuantity, what)
}
