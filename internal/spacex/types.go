package spacex

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Launch is one historical or scheduled launch.
type Launch struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	FlightNumber int       `json:"flight_number" yaml:"flight_number"`
	DateUTC      string    `json:"date_utc" yaml:"date_utc"`
	Date         time.Time `json:"-" yaml:"-"`
	Success      *bool     `json:"success" yaml:"success"`
	Upcoming     bool      `json:"upcoming" yaml:"upcoming"`
	Details      string    `json:"details,omitempty" yaml:"details,omitempty"`
	Rocket       string    `json:"rocket" yaml:"rocket"`
	Payloads     []string  `json:"payloads" yaml:"payloads"`
}

// Status returns "success", "failure", "upcoming" or "unknown".
func (l Launch) Status() string {
	switch {
	case l.Success != nil && *l.Success:
		return "success"
	case l.Success != nil:
		return "failure"
	case l.Upcoming:
		return "upcoming"
	default:
		return "unknown"
	}
}

// Year returns the UTC calendar year of the launch date, or "" when the date
// is missing or unparseable.
func (l Launch) Year() string {
	if l.Date.IsZero() {
		return ""
	}
	return l.Date.UTC().Format("2006")
}

// Rocket is static descriptive data about a vehicle type.
type Rocket struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Type         string   `json:"type" yaml:"type"`
	Active       bool     `json:"active" yaml:"active"`
	Stages       int      `json:"stages" yaml:"stages"`
	Description  string   `json:"description" yaml:"description"`
	FlickrImages []string `json:"flickr_images" yaml:"flickr_images"`
}

// Payload is cargo carried on a launch. MassKg is nil when the API omits it.
type Payload struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	Orbit     string   `json:"orbit" yaml:"orbit"`
	MassKg    *float64 `json:"mass_kg" yaml:"mass_kg"`
	Customers []string `json:"customers" yaml:"customers"`
}

// wire shapes; only the fields the dashboard reads are declared, the rest of
// the document is ignored.

type launchJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	FlightNumber int      `json:"flight_number"`
	DateUTC      string   `json:"date_utc"`
	Success      *bool    `json:"success"`
	Upcoming     bool     `json:"upcoming"`
	Details      string   `json:"details"`
	Rocket       string   `json:"rocket"`
	Payloads     []string `json:"payloads"`
}

func (j launchJSON) record() Launch {
	l := Launch{
		ID:           j.ID,
		Name:         j.Name,
		FlightNumber: j.FlightNumber,
		DateUTC:      j.DateUTC,
		Success:      j.Success,
		Upcoming:     j.Upcoming,
		Details:      j.Details,
		Rocket:       j.Rocket,
		Payloads:     j.Payloads,
	}
	if t, err := time.Parse(time.RFC3339, j.DateUTC); err == nil {
		l.Date = t.UTC()
	}
	if l.Payloads == nil {
		l.Payloads = []string{}
	}
	return l
}

type rocketJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Active       bool     `json:"active"`
	Stages       int      `json:"stages"`
	Description  string   `json:"description"`
	FlickrImages []string `json:"flickr_images"`
}

func (j rocketJSON) record() Rocket {
	r := Rocket(j)
	if r.FlickrImages == nil {
		r.FlickrImages = []string{}
	}
	return r
}

type payloadJSON struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Orbit     string   `json:"orbit"`
	MassKg    *float64 `json:"mass_kg"`
	Customers []string `json:"customers"`
}

func (j payloadJSON) record() Payload {
	p := Payload(j)
	if p.Customers == nil {
		p.Customers = []string{}
	}
	return p
}

// checkObject verifies body is a JSON object carrying a non-empty string id.
func checkObject(operation string, body []byte) error {
	if !gjson.ValidBytes(body) {
		return newDecodeError(operation, "invalid JSON", nil)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return newDecodeError(operation, "expected a JSON object", nil)
	}
	return checkID(operation, doc, -1)
}

// checkArray verifies body is a JSON array whose elements all carry an id.
func checkArray(operation string, body []byte) error {
	if !gjson.ValidBytes(body) {
		return newDecodeError(operation, "invalid JSON", nil)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return newDecodeError(operation, "expected a JSON array", nil)
	}

	var err error
	idx := 0
	doc.ForEach(func(_, elem gjson.Result) bool {
		if !elem.IsObject() {
			err = newDecodeError(operation, "expected array of objects", nil)
			return false
		}
		if err = checkID(operation, elem, idx); err != nil {
			return false
		}
		idx++
		return true
	})
	return err
}

func checkID(operation string, doc gjson.Result, idx int) error {
	id := doc.Get("id")
	if id.Type == gjson.String && id.Str != "" {
		return nil
	}
	if idx >= 0 {
		return newDecodeError(operation, "record "+strconv.Itoa(idx)+" has no string id", nil)
	}
	return newDecodeError(operation, "record has no string id", nil)
}

func decodeOne[W any, R any](operation string, body []byte, conv func(W) R) (R, error) {
	var zero R
	if err := checkObject(operation, body); err != nil {
		return zero, err
	}
	var w W
	if err := json.Unmarshal(body, &w); err != nil {
		return zero, newDecodeError(operation, "unexpected field type", err)
	}
	return conv(w), nil
}

func decodeList[W any, R any](operation string, body []byte, conv func(W) R) ([]R, error) {
	if err := checkArray(operation, body); err != nil {
		return nil, err
	}
	var ws []W
	if err := json.Unmarshal(body, &ws); err != nil {
		return nil, newDecodeError(operation, "unexpected field type", err)
	}
	out := make([]R, 0, len(ws))
	for _, w := range ws {
		out = append(out, conv(w))
	}
	return out, nil
}
