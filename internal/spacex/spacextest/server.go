// Package spacextest serves a small, fixed copy of the SpaceX v4 API for
// tests.
package spacextest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const (
	pastLaunches = `[
  {"id":"l1","name":"FalconSat","flight_number":1,"date_utc":"2006-03-24T22:30:00.000Z","success":false,
   "upcoming":false,"details":"Engine failure at 33 seconds and loss of vehicle","rocket":"r1","payloads":["p1"]},
  {"id":"l2","name":"RatSat","flight_number":4,"date_utc":"2008-09-28T23:15:00.000Z","success":true,
   "upcoming":false,"details":"Ratsat was carried to orbit on the first successful orbital launch","rocket":"r1","payloads":[]},
  {"id":"l3","name":"CRS-1","flight_number":19,"date_utc":"2012-10-08T00:35:00.000Z","success":true,
   "upcoming":false,"details":null,"rocket":"r2","payloads":["p2","p3"]}
]`
	upcomingLaunches = `[
  {"id":"l9","name":"Crew-12","flight_number":210,"date_utc":"2030-02-01T00:00:00.000Z","success":null,
   "upcoming":true,"rocket":"r2","payloads":[]}
]`
	rocketR1 = `{"id":"r1","name":"Falcon 1","type":"rocket","active":false,"stages":2,
  "description":"The Falcon 1 was an expendable launch system privately developed and manufactured by SpaceX.",
  "flickr_images":["https://imgur.com/DaCfMsj.jpg"]}`
	rocketR2 = `{"id":"r2","name":"Falcon 9","type":"rocket","active":true,"stages":2,
  "description":"Falcon 9 is a two-stage rocket designed and manufactured by SpaceX.","flickr_images":[]}`
	payloadP1 = `{"id":"p1","name":"FalconSAT-2","type":"Satellite","orbit":"LEO","mass_kg":20,"customers":["DARPA"]}`
	payloadP2 = `{"id":"p2","name":"Dragon 1.1","type":"Dragon 1.0","orbit":"ISS","mass_kg":4700,"customers":["NASA (CRS)"]}`
	payloadP3 = `{"id":"p3","name":"Orbcomm-OG2","type":"Satellite","orbit":"LEO","mass_kg":null,"customers":["Orbcomm"]}`
)

var (
	launchesByID = map[string]string{
		"l1": `{"id":"l1","name":"FalconSat","flight_number":1,"date_utc":"2006-03-24T22:30:00.000Z","success":false,"rocket":"r1","payloads":["p1"]}`,
		"l2": `{"id":"l2","name":"RatSat","flight_number":4,"date_utc":"2008-09-28T23:15:00.000Z","success":true,"rocket":"r1","payloads":[]}`,
		"l3": `{"id":"l3","name":"CRS-1","flight_number":19,"date_utc":"2012-10-08T00:35:00.000Z","success":true,"rocket":"r2","payloads":["p2","p3"]}`,
	}
	rocketsByID  = map[string]string{"r1": rocketR1, "r2": rocketR2}
	payloadsByID = map[string]string{"p1": payloadP1, "p2": payloadP2, "p3": payloadP3}
)

// Server is a fake API. Fail marks a path as returning 500.
type Server struct {
	*httptest.Server

	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

// NewServer starts a fake API closed when t finishes. Its API root is
// Server.URL + "/v4".
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{fail: make(map[string]bool), calls: make(map[string]int)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v4/launches/past", s.static(pastLaunches))
	mux.HandleFunc("GET /v4/launches/upcoming", s.static(upcomingLaunches))
	mux.HandleFunc("GET /v4/launches/{id}", s.byID(launchesByID))
	mux.HandleFunc("GET /v4/rockets", s.static("["+rocketR1+","+rocketR2+"]"))
	mux.HandleFunc("GET /v4/rockets/{id}", s.byID(rocketsByID))
	mux.HandleFunc("GET /v4/payloads", s.static("["+payloadP1+","+payloadP2+","+payloadP3+"]"))
	mux.HandleFunc("GET /v4/payloads/{id}", s.byID(payloadsByID))

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root.
func (s *Server) BaseURL() string {
	return s.URL + "/v4"
}

// Fail makes requests for path (for example "/v4/rockets/r1") return 500.
func (s *Server) Fail(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[path] = true
}

// Calls returns how many requests hit path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *Server) enter(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[r.URL.Path]++
	if s.fail[r.URL.Path] {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return false
	}
	return true
}

func (s *Server) static(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.enter(w, r) {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func (s *Server) byID(docs map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.enter(w, r) {
			return
		}
		body, ok := docs[r.PathValue("id")]
		if !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}
