package domain

// Reserved id of the user's starting point. At most one entry in a
// Selection carries it and it is kept first.
const StartingLocationID = "starting-location"

const (
	TagName      = "name"
	TagNameVI    = "name:vi"
	TagPlaceType = "place-type"

	PlaceTypeStartingPoint = "starting-point"
)

// Represents a point of interest chosen by the user.
// Tags follow OpenStreetMap conventions; the localized "name:vi"
// takes precedence over "name" when resolving the display name.
type Place struct {
	ID   string
	Lat  float64
	Lon  float64
	Tags map[string]string
}

// DisplayName returns the localized name if present, else the default name.
func (p Place) DisplayName() string {
	if n := p.Tags[TagNameVI]; n != "" {
		return n
	}
	return p.Tags[TagName]
}

func (p Place) Coordinates() Coordinates {
	return Coordinates{Lon: p.Lon, Lat: p.Lat}
}

func (p Place) clone() Place {
	tags := make(map[string]string, len(p.Tags))
	for k, v := range p.Tags {
		tags[k] = v
	}
	p.Tags = tags
	return p
}
