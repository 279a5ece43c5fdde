// Command validate runs the ingestion validation rules against a portfolio
// file offline, reporting which rows would be accepted or dropped by the API
// without calling the hazard provider.
//
// Usage:
//
//	go run ./cmd/validate -portfolio portfolio.json
//
// The file holds the same shape the analyze endpoint consumes:
//
//	{"factories": [{"name": "...", "lat": ..., "lon": ..., "asset_value": ..., "type": "industry"}, ...]}
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

type portfolio struct {
	Factories []domain.AssetRow `json:"factories"`
}

func main() {
	path := flag.String("portfolio", "", "path to a portfolio JSON file")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*path))
}

func run(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read portfolio: %v\n", err)
		return 1
	}

	var p portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		fmt.Fprintf(os.Stderr, "parse portfolio: %v\n", err)
		return 1
	}

	assets, rejected := domain.ParseAssets(p.Factories)

	for _, a := range assets {
		fmt.Printf("OK   #%-4d %-30s lat=%9.4f lon=%9.4f value=%.2f class=%s\n",
			a.ID, a.Name, a.Lat, a.Lon, a.Value, a.Class)
	}
	for _, r := range rejected {
		name := r.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("DROP row %-4d %-30s %s\n", r.Index, name, r.Reason)
	}

	fmt.Printf("\n%d accepted, %d rejected of %d rows\n", len(assets), len(rejected), len(p.Factories))

	if len(assets) == 0 {
		fmt.Fprintln(os.Stderr, "portfolio has no valid assets; the analyze endpoint would reject it")
		return 1
	}
	return 0
}
