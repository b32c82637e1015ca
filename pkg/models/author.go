package models

import "github.com/pario-ai/oars/pkg/codec"

type AuthorIDs struct {
	OpenAlex  string  `json:"openalex"`
	ORCID     *string `json:"orcid,omitempty"`
	Scopus    *string `json:"scopus,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Wikipedia *string `json:"wikipedia,omitempty"`
}

// Author is a person who creates works.
type Author struct {
	ID                      string                  `json:"id"`
	ORCID                   *string                 `json:"orcid,omitempty"`
	DisplayName             string                  `json:"display_name"`
	DisplayNameAlternatives []string                `json:"display_name_alternatives"`
	WorksCount              int                     `json:"works_count"`
	CitedByCount            int                     `json:"cited_by_count"`
	SummaryStats            SummaryStats            `json:"summary_stats"`
	IDs                     AuthorIDs               `json:"ids"`
	Affiliations            []Affiliation           `json:"affiliations"`
	LastKnownInstitutions   []DehydratedInstitution `json:"last_known_institutions"`
	XConcepts               []DehydratedConcept     `json:"x_concepts,omitempty"`
	CountsByYear            []CountByYear           `json:"counts_by_year"`
	WorksAPIURL             string                  `json:"works_api_url"`
	UpdatedDate             string                  `json:"updated_date"`
	CreatedDate             string                  `json:"created_date"`
}

func (a *Author) EntityID() string { return a.ID }

func (a *Author) Deflate(kind codec.Kind) (codec.Deflated, error) { return codec.Deflate(a, kind) }
