// Package view holds the dashboard's view state and derives the displayed
// page of launches from it.
package view

import (
	"fmt"
	"strings"
)

// Fixed user-facing failure messages.
const (
	MsgLaunchesFailed = "Failed to load launches"
	MsgRocketsFailed  = "Failed to load rockets"
	MsgPayloadsFailed = "Failed to load payloads"
)

// DefaultPageSize is used until SetPageSize is called.
const DefaultPageSize = 10

// Mode selects which launch listing is shown.
type Mode string

const (
	ModePast     Mode = "past"
	ModeUpcoming Mode = "upcoming"
)

// ParseMode parses "past" or "upcoming".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePast, ModeUpcoming:
		return m, nil
	default:
		return "", fmt.Errorf("unknown view mode %q (expected past or upcoming)", s)
	}
}

// Status is the launch outcome filter.
type Status string

const (
	StatusAll     Status = "all"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// ParseStatus parses a status filter. The empty string means all.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatusAll, nil
	case StatusAll, StatusSuccess, StatusFailure:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q (expected all, success or failure)", s)
	}
}

// SortKey is the column the displayed set is ordered by.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByName   SortKey = "name"
	SortByRocket SortKey = "rocket"
)

// ParseSortKey parses a sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByDate, SortByName, SortByRocket:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (expected date, name or rocket)", s)
	}
}

// Phase is the load state of a view.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is everything that decides which launches are displayed.
type State struct {
	Mode     Mode
	Year     string // empty means no year filter
	Status   Status
	SortKey  SortKey
	SortAsc  bool
	PageSize int
	Page     int
	// Total is the number of records left after filtering, before paging.
	Total int
}

// DefaultState returns the state of a freshly opened dashboard.
func DefaultState() State {
	return State{
		Mode:     ModePast,
		Status:   StatusAll,
		SortKey:  SortByDate,
		SortAsc:  true,
		PageSize: DefaultPageSize,
		Page:     1,
	}
}

// TotalPages returns ceil(Total/PageSize), at least 1.
func (s State) TotalPages() int {
	if s.PageSize < 1 || s.Total == 0 {
		return 1
	}
	return (s.Total + s.PageSize - 1) / s.PageSize
}
