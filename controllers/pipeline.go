// controllers/pipeline.go - Shared fetch/reconcile/attribute pipeline
package controllers

import (
	"context"
	"fmt"
	"sync"

	"research-metrics-api/config"
	"research-metrics-api/services"
)

var (
	scopusSvc      *services.ScopusService
	openAlexSvc    *services.OpenAlexService
	facultySvc     *services.FacultyService
	facultyRepo    services.FacultyRepository
	settings       *config.Settings
	collegeMapping *config.CollegeMapping
)

// Init wires the controller layer. The faculty repository is fixed here for
// the lifetime of the process.
func Init(scopus *services.ScopusService, openAlex *services.OpenAlexService, faculty *services.FacultyService, repo services.FacultyRepository, s *config.Settings, colleges *config.CollegeMapping) {
	scopusSvc = scopus
	openAlexSvc = openAlex
	facultySvc = faculty
	facultyRepo = repo
	settings = s
	collegeMapping = colleges
}

// Source selection policies for publication listings.
const (
	PolicyMix              = "mix"
	PolicyScopus           = "scopus"
	PolicyOpenAlex         = "openalex"
	PolicyOpenAlexFiltered = "openalex_filtered_by_scopus"
)

type pipelineResult struct {
	Publications []*services.Publication
	Attribution  *services.AttributionResult
	Degraded     bool
}

// fetchPublications runs the two source fetches concurrently, joins them, and
// reconciles per policy.
func fetchPublications(ctx context.Context, year int, policy string) (*pipelineResult, error) {
	var (
		wg           sync.WaitGroup
		scopusResult *services.FetchResult
		scopusErr    error
		oaResult     *services.FetchResult
		oaErr        error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		scopusResult, scopusErr = scopusSvc.FetchInstitution(ctx, services.InstitutionQuery{
			AffiliationID:   settings.ScopusAffiliationID,
			AffiliationName: settings.InstitutionName,
			Year:            year,
		})
	}()

	if policy != PolicyScopus && settings.OpenAlexInstitutionID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			oaResult, oaErr = openAlexSvc.FetchInstitutionWorks(ctx, settings.OpenAlexInstitutionID, year, 0)
		}()
	}
	wg.Wait()

	switch policy {
	case PolicyOpenAlex:
		if oaErr != nil {
			return nil, fmt.Errorf("openalex fetch failed: %w", oaErr)
		}
		if oaResult == nil {
			return nil, fmt.Errorf("openalex institution id is not configured")
		}
		return &pipelineResult{Publications: services.DedupPublications(oaResult.Publications)}, nil

	case PolicyScopus:
		if scopusErr != nil {
			return nil, fmt.Errorf("scopus fetch failed: %w", scopusErr)
		}
		return &pipelineResult{
			Publications: scopusResult.Publications,
			Degraded:     scopusResult.Degraded,
		}, nil

	default: // mix and openalex_filtered_by_scopus
		if scopusErr != nil {
			return nil, fmt.Errorf("scopus fetch failed: %w", scopusErr)
		}
		if oaErr != nil {
			return nil, fmt.Errorf("openalex fetch failed: %w", oaErr)
		}

		var openalex []*services.Publication
		if oaResult != nil {
			openalex = oaResult.Publications
		}

		// resolve scopus DOIs that the institution listing missed
		dois := make([]string, 0, len(scopusResult.Publications))
		for _, p := range scopusResult.Publications {
			if doi := p.NormalizedDOI(); doi != "" {
				dois = append(dois, doi)
			}
		}
		byDOI, err := openAlexSvc.FetchWorksByDOIs(ctx, dois)
		if err != nil {
			return nil, fmt.Errorf("openalex doi lookup failed: %w", err)
		}
		openalex = services.DedupPublications(append(openalex, byDOI...))

		var pubs []*services.Publication
		if policy == PolicyOpenAlexFiltered {
			pubs = services.FilterByScopus(openalex, scopusResult.Publications)
		} else {
			pubs = services.ReconcilePublications(scopusResult.Publications, openalex)
		}
		return &pipelineResult{
			Publications: pubs,
			Degraded:     scopusResult.Degraded,
		}, nil
	}
}

// fetchAndAttribute runs the pipeline and matches the roster over the result.
func fetchAndAttribute(ctx context.Context, year int, policy string) (*pipelineResult, error) {
	result, err := fetchPublications(ctx, year, policy)
	if err != nil {
		return nil, err
	}

	roster, err := facultyRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load faculty roster: %w", err)
	}
	result.Attribution = services.AttributePublications(result.Publications, roster, settings.MatchThreshold)
	return result, nil
}
