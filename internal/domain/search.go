package domain

// One autocomplete hit. RefID resolves to a PlaceDetail.
type Suggestion struct {
	RefID   string
	Display string
	Address string
}

// Coordinates and names resolved for a suggestion reference id.
type PlaceDetail struct {
	RefID   string
	Lat     float64
	Lng     float64
	Name    string
	Display string
}

// Severity of a user-facing notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// A user-facing notification emitted by the core; rendering is up to the client.
type Notice struct {
	Message  string
	Severity Severity
}
