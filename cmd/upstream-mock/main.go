package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
)

// mockData mirrors the two upstreams this app talks to: a flat-query
// metadata catalog and a path-based extended catalog.
type mockData struct {
	Searches map[string]json.RawMessage `json:"searches"`
	Movies   map[string]json.RawMessage `json:"movies"`
	Find     map[string]json.RawMessage `json:"find"`
	Videos   map[string]json.RawMessage `json:"videos"`
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		data    = flag.String("data", "mock-upstream.json", "path to mock data file")
		verbose = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var payload mockData
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	writeJSON := func(w http.ResponseWriter, body json.RawMessage) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/omdb", func(w http.ResponseWriter, r *http.Request) {
		if *verbose {
			log.Printf("omdb %s", r.URL.RawQuery)
		}
		if id := r.URL.Query().Get("i"); id != "" {
			if entry, ok := payload.Movies[id]; ok {
				writeJSON(w, entry)
				return
			}
			writeJSON(w, json.RawMessage(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
			return
		}
		query := strings.ToLower(r.URL.Query().Get("s"))
		if entry, ok := payload.Searches[query]; ok {
			writeJSON(w, entry)
			return
		}
		writeJSON(w, json.RawMessage(`{"Response":"False","Error":"Movie not found!"}`))
	})

	mux.HandleFunc("/tmdb/", func(w http.ResponseWriter, r *http.Request) {
		resource := strings.TrimPrefix(r.URL.Path, "/tmdb/")
		if *verbose {
			log.Printf("tmdb %s", resource)
		}
		switch {
		case strings.HasPrefix(resource, "find/"):
			id := strings.TrimPrefix(resource, "find/")
			if entry, ok := payload.Find[id]; ok {
				writeJSON(w, entry)
				return
			}
			writeJSON(w, json.RawMessage(`{"movie_results":[]}`))
		case strings.HasPrefix(resource, "movie/") && strings.HasSuffix(resource, "/videos"):
			id := strings.TrimSuffix(strings.TrimPrefix(resource, "movie/"), "/videos")
			if entry, ok := payload.Videos[id]; ok {
				writeJSON(w, entry)
				return
			}
			writeJSON(w, json.RawMessage(`{"results":[]}`))
		default:
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		}
	})

	addr := ":" + *port
	log.Printf("mock upstream listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
