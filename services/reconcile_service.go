// services/reconcile_service.go - Cross-source publication reconciliation
//
// Matching runs in tiers: normalized DOI first, then normalized title plus
// year, then normalized title alone but only when that title occurs exactly
// once in the set being matched against. Lower tiers never override a
// higher one.
package services

import (
	"strconv"
	"strings"
)

// Match provenance values recorded on merged records.
const (
	MatchedByDOI         = "doi"
	MatchedByTitleYear   = "title_year"
	MatchedByUniqueTitle = "title_only"
	MatchedByScopusOnly  = "scopus_only"
)

// DedupPublications drops later duplicates of the same OpenAlex ID or
// normalized DOI. The first occurrence wins; records carrying neither key are
// always kept.
func DedupPublications(pubs []*Publication) []*Publication {
	seenID := make(map[string]struct{}, len(pubs))
	seenDOI := make(map[string]struct{}, len(pubs))

	out := make([]*Publication, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		if id := strings.TrimSpace(p.OpenAlexID); id != "" {
			if _, ok := seenID[id]; ok {
				continue
			}
			seenID[id] = struct{}{}
		}
		if doi := p.NormalizedDOI(); doi != "" {
			if _, ok := seenDOI[doi]; ok {
				continue
			}
			seenDOI[doi] = struct{}{}
		}
		out = append(out, p)
	}
	return out
}

// FilterByScopus keeps only the OpenAlex records that match some Scopus
// record under the same tiers ReconcilePublications uses, annotating each
// kept record with the matched Scopus identifier. Unmatched records are
// dropped.
func FilterByScopus(openalex, scopus []*Publication) []*Publication {
	openalex = DedupPublications(openalex)
	spIndex := indexPublications(scopus)

	var out []*Publication
	for _, p := range openalex {
		sp, tier := spIndex.match(p)
		if sp == nil {
			continue
		}
		kept := *p
		kept.ScopusID = sp.ScopusID
		kept.Indexing = "Scopus"
		kept.MatchedBy = tier
		out = append(out, &kept)
	}
	return out
}

type publicationIndex struct {
	byDOI       map[string]*Publication
	byTitleYear map[string]*Publication
	byTitle     map[string]*Publication
	titleCounts map[string]int
}

func indexPublications(pubs []*Publication) *publicationIndex {
	idx := &publicationIndex{
		byDOI:       make(map[string]*Publication, len(pubs)),
		byTitleYear: make(map[string]*Publication, len(pubs)),
		byTitle:     make(map[string]*Publication, len(pubs)),
		titleCounts: make(map[string]int, len(pubs)),
	}
	for _, p := range pubs {
		if doi := p.NormalizedDOI(); doi != "" {
			if _, ok := idx.byDOI[doi]; !ok {
				idx.byDOI[doi] = p
			}
		}
		title := p.NormalizedTitle()
		if title == "" {
			continue
		}
		idx.titleCounts[title]++
		if _, ok := idx.byTitle[title]; !ok {
			idx.byTitle[title] = p
		}
		key := titleYearKey(title, p.Year)
		if _, ok := idx.byTitleYear[key]; !ok {
			idx.byTitleYear[key] = p
		}
	}
	return idx
}

// titleYearKey treats a missing year as its own value, so two records that
// both lack one can still pair at the title-year tier.
func titleYearKey(normTitle string, year *int) string {
	if year == nil {
		return normTitle + "|"
	}
	return normTitle + "|" + strconv.Itoa(*year)
}

// match finds the counterpart for p, reporting which tier matched. The
// title-only tier requires the title to be unique within the indexed set,
// the one being matched against.
func (idx *publicationIndex) match(p *Publication) (*Publication, string) {
	if doi := p.NormalizedDOI(); doi != "" {
		if hit, ok := idx.byDOI[doi]; ok {
			return hit, MatchedByDOI
		}
	}

	title := p.NormalizedTitle()
	if title == "" {
		return nil, ""
	}
	if hit, ok := idx.byTitleYear[titleYearKey(title, p.Year)]; ok {
		return hit, MatchedByTitleYear
	}
	if idx.titleCounts[title] == 1 {
		if hit, ok := idx.byTitle[title]; ok {
			return hit, MatchedByUniqueTitle
		}
	}
	return nil, ""
}

// ReconcilePublications merges the Scopus and OpenAlex views of an
// institution's output. Each Scopus record yields exactly one result: a
// merged record when an OpenAlex counterpart exists, the Scopus record alone
// otherwise. Scopus ordering is preserved.
func ReconcilePublications(scopus, openalex []*Publication) []*Publication {
	openalex = DedupPublications(openalex)
	oaIndex := indexPublications(openalex)

	out := make([]*Publication, 0, len(scopus))
	for _, sp := range scopus {
		oa, tier := oaIndex.match(sp)
		if oa == nil {
			merged := *sp
			merged.MatchedBy = MatchedByScopusOnly
			out = append(out, &merged)
			continue
		}
		out = append(out, mergePublications(sp, oa, tier))
	}
	return out
}

// mergePublications combines a matched pair. The OpenAlex record is the base,
// so its citation count and identifiers survive, and Scopus metadata
// overrides field by field where Scopus has a value.
func mergePublications(sp, oa *Publication, tier string) *Publication {
	merged := *oa

	if sp.Title != "" && sp.Title != "Untitled Publication" {
		merged.Title = sp.Title
	}
	if sp.Authors != "" {
		merged.Authors = sp.Authors
	}
	if sp.AuthorsMatching != "" {
		merged.AuthorsMatching = sp.AuthorsMatching
	}
	if sp.Year != nil {
		merged.Year, merged.Month, merged.Day = sp.Year, sp.Month, sp.Day
		merged.Date = sp.Date
	}
	if merged.Venue == "" {
		merged.Venue = sp.Venue
	}
	if merged.Publisher == "" {
		merged.Publisher = sp.Publisher
	}
	if merged.Link == "" {
		merged.Link = sp.Link
	}
	if doi := sp.NormalizedDOI(); doi != "" {
		merged.DOI = doi
	}
	if sp.Affiliation != "" {
		merged.Affiliation = sp.Affiliation
	}
	if len(sp.SubjectAreas) > 0 {
		merged.SubjectAreas = sp.SubjectAreas
	}
	if sp.Subtype != "" {
		merged.Subtype = sp.Subtype
	}
	if sp.SubtypeCode != "" {
		merged.SubtypeCode = sp.SubtypeCode
	}
	if sp.AggregationType != "" {
		merged.AggregationType = sp.AggregationType
	}
	if sp.DocumentType != "" {
		merged.DocumentType = sp.DocumentType
	}
	if sp.ScopusID != "" {
		merged.ScopusID = sp.ScopusID
	}

	merged.Source = "openalex"
	merged.Indexing = "Scopus"
	merged.MatchedBy = tier
	return &merged
}
