// Command report-export fetches institutional publications and writes the
// quarterly report workbook to a file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"research-metrics-api/config"
	"research-metrics-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		year    int
		out     string
		roster  string
		timeout time.Duration
	)

	flag.IntVar(&year, "year", time.Now().Year(), "publication year to report on")
	flag.StringVar(&out, "out", "", "output .xlsx path (default publications-report-<year>.xlsx)")
	flag.StringVar(&roster, "roster", "", "optional roster .xlsx; when set the database is not used")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "overall fetch timeout")
	flag.Parse()

	if out == "" {
		out = services.ReportFileName(year)
	}

	settings := config.LoadSettings()
	if settings.ScopusAPIKey == "" {
		log.Fatal("SCOPUS_API_KEY is required")
	}

	var repo services.FacultyRepository
	if roster != "" {
		data, err := os.ReadFile(roster)
		if err != nil {
			log.Fatalf("read roster file: %v", err)
		}
		records, err := services.ParseFacultyRoster(data)
		if err != nil {
			log.Fatalf("parse roster: %v", err)
		}
		repo = services.StaticRoster(records)
		log.Printf("Using %d roster records from %s", len(records), roster)
	} else {
		config.InitDB()
		repo = services.NewFacultyService(config.DB)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	scopusSvc := services.NewScopusService(nil, nil, settings.ScopusAPIKey)
	openAlexSvc := services.NewOpenAlexService(nil, nil, settings.OpenAlexMailto)

	scopusResult, err := scopusSvc.FetchInstitution(ctx, services.InstitutionQuery{
		AffiliationID:   settings.ScopusAffiliationID,
		AffiliationName: settings.InstitutionName,
		Year:            year,
	})
	if err != nil {
		log.Fatalf("scopus fetch: %v", err)
	}
	log.Printf("Fetched %d Scopus publications (degraded=%v)", len(scopusResult.Publications), scopusResult.Degraded)

	var openalex []*services.Publication
	if settings.OpenAlexInstitutionID != "" {
		oaResult, err := openAlexSvc.FetchInstitutionWorks(ctx, settings.OpenAlexInstitutionID, year, 0)
		if err != nil {
			log.Fatalf("openalex fetch: %v", err)
		}
		openalex = oaResult.Publications
		log.Printf("Fetched %d OpenAlex works", len(openalex))
	}

	dois := make([]string, 0, len(scopusResult.Publications))
	for _, p := range scopusResult.Publications {
		if doi := p.NormalizedDOI(); doi != "" {
			dois = append(dois, doi)
		}
	}
	byDOI, err := openAlexSvc.FetchWorksByDOIs(ctx, dois)
	if err != nil {
		log.Fatalf("openalex doi lookup: %v", err)
	}
	openalex = services.DedupPublications(append(openalex, byDOI...))

	pubs := services.ReconcilePublications(scopusResult.Publications, openalex)
	log.Printf("Reconciled into %d publications", len(pubs))

	records, err := repo.ListAll(ctx)
	if err != nil {
		log.Fatalf("load roster: %v", err)
	}
	attribution := services.AttributePublications(pubs, records, settings.MatchThreshold)
	log.Printf("Matched %d publications to %d faculty", attribution.TotalMatched, len(records))

	report, err := services.BuildPublicationReport(attribution.MatchedPublications, year)
	if err != nil {
		log.Fatalf("build report: %v", err)
	}

	if err := os.WriteFile(out, report, 0o644); err != nil {
		log.Fatalf("write report: %v", err)
	}
	log.Printf("Wrote %s (%d bytes)", out, len(report))
}
