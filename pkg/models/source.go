package models

import "github.com/pario-ai/oars/pkg/codec"

type SourceIDs struct {
	OpenAlex string   `json:"openalex"`
	ISSNL    *string  `json:"issn_l,omitempty"`
	ISSN     []string `json:"issn,omitempty"`
	MAG      *string  `json:"mag,omitempty"`
	Fatcat   *string  `json:"fatcat,omitempty"`
	Wikidata *string  `json:"wikidata,omitempty"`
}

// Source is where works are hosted: journals, repositories, conferences.
type Source struct {
	ID                      string              `json:"id"`
	ISSNL                   *string             `json:"issn_l,omitempty"`
	ISSN                    []string            `json:"issn,omitempty"`
	DisplayName             string              `json:"display_name"`
	AbbreviatedTitle        *string             `json:"abbreviated_title,omitempty"`
	AlternateTitles         []string            `json:"alternate_titles"`
	HostOrganization        *string             `json:"host_organization,omitempty"`
	HostOrganizationName    *string             `json:"host_organization_name,omitempty"`
	HostOrganizationLineage []string            `json:"host_organization_lineage"`
	WorksCount              int                 `json:"works_count"`
	CitedByCount            int                 `json:"cited_by_count"`
	SummaryStats            SummaryStats        `json:"summary_stats"`
	IsOA                    bool                `json:"is_oa"`
	IsInDOAJ                bool                `json:"is_in_doaj"`
	IDs                     SourceIDs           `json:"ids"`
	HomepageURL             *string             `json:"homepage_url,omitempty"`
	APCPrices               []APCPrice          `json:"apc_prices,omitempty"`
	APCUSD                  *int                `json:"apc_usd,omitempty"`
	CountryCode             *string             `json:"country_code,omitempty"`
	Societies               []Society           `json:"societies"`
	Type                    string              `json:"type"`
	XConcepts               []DehydratedConcept `json:"x_concepts,omitempty"`
	CountsByYear            []CountByYear       `json:"counts_by_year"`
	WorksAPIURL             string              `json:"works_api_url"`
	UpdatedDate             string              `json:"updated_date"`
	CreatedDate             string              `json:"created_date"`
}

func (s *Source) EntityID() string { return s.ID }

func (s *Source) Deflate(kind codec.Kind) (codec.Deflated, error) { return codec.Deflate(s, kind) }
