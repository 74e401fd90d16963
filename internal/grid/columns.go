package grid

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vault-md/launchdeck/internal/spacex"
)

// DateLayout is how launch dates are shown, always in UTC.
const DateLayout = "2006-01-02 15:04"

// DescriptionLimit is the display width a rocket description is cut to.
const DescriptionLimit = 150

// LaunchRow is a launch with its resolved rocket name.
type LaunchRow struct {
	spacex.Launch
	RocketName string
}

// LaunchRows pairs each launch with its rocket name. A launch whose rocket is
// not in names gets an empty name.
func LaunchRows(launches []spacex.Launch, names map[string]string) []LaunchRow {
	out := make([]LaunchRow, 0, len(launches))
	for _, l := range launches {
		out = append(out, LaunchRow{Launch: l, RocketName: names[l.Rocket]})
	}
	return out
}

// NewLaunchGrid returns the launches grid.
func NewLaunchGrid() *Grid[LaunchRow] {
	return newGrid(
		column[LaunchRow]{field: "flight", header: "Flight", cell: func(r LaunchRow) string {
			if r.FlightNumber == 0 {
				return ""
			}
			return strconv.Itoa(r.FlightNumber)
		}},
		column[LaunchRow]{field: "name", header: "Name", cell: func(r LaunchRow) string { return r.Name }},
		column[LaunchRow]{field: "date", header: "Date", cell: func(r LaunchRow) string { return FormatDate(r.Launch) }},
		column[LaunchRow]{field: "rocket", header: "Rocket", cell: func(r LaunchRow) string { return r.RocketName }},
		column[LaunchRow]{field: "status", header: "Status", cell: func(r LaunchRow) string { return r.Status() }},
		column[LaunchRow]{field: "details", header: "Details", flex: true, cell: func(r LaunchRow) string { return oneLine(r.Details) }},
	)
}

// NewRocketGrid returns the rockets grid.
func NewRocketGrid() *Grid[spacex.Rocket] {
	return newGrid(
		column[spacex.Rocket]{field: "name", header: "Name", cell: func(r spacex.Rocket) string { return r.Name }},
		column[spacex.Rocket]{field: "type", header: "Type", cell: func(r spacex.Rocket) string { return r.Type }},
		column[spacex.Rocket]{field: "stages", header: "Stages", cell: func(r spacex.Rocket) string { return strconv.Itoa(r.Stages) }},
		column[spacex.Rocket]{field: "active", header: "Active", cell: func(r spacex.Rocket) string { return yesNo(r.Active) }},
		column[spacex.Rocket]{field: "description", header: "Description", flex: true, cell: func(r spacex.Rocket) string {
			return TruncateDescription(r.Description)
		}},
	)
}

// NewPayloadGrid returns the payloads grid.
func NewPayloadGrid() *Grid[spacex.Payload] {
	return newGrid(
		column[spacex.Payload]{field: "name", header: "Name", cell: func(p spacex.Payload) string { return p.Name }},
		column[spacex.Payload]{field: "type", header: "Type", cell: func(p spacex.Payload) string { return p.Type }},
		column[spacex.Payload]{field: "orbit", header: "Orbit", cell: func(p spacex.Payload) string { return p.Orbit }},
		column[spacex.Payload]{field: "mass", header: "Mass (kg)", cell: func(p spacex.Payload) string { return FormatMass(p.MassKg) }},
		column[spacex.Payload]{field: "customers", header: "Customers", flex: true, cell: func(p spacex.Payload) string {
			return strings.Join(p.Customers, ", ")
		}},
	)
}

// FormatDate renders the launch date in UTC. Unparseable dates are shown as
// served.
func FormatDate(l spacex.Launch) string {
	if l.Date.IsZero() {
		return l.DateUTC
	}
	return l.Date.UTC().Format(DateLayout)
}

// FormatMass renders a payload mass, or "" when absent.
func FormatMass(kg *float64) string {
	if kg == nil {
		return ""
	}
	return strconv.FormatFloat(*kg, 'f', -1, 64)
}

// TruncateDescription cuts s to DescriptionLimit display cells, ending in
// "..." when shortened.
func TruncateDescription(s string) string {
	return runewidth.Truncate(oneLine(s), DescriptionLimit, "...")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
