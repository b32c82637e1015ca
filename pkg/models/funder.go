package models

import "github.com/pario-ai/oars/pkg/codec"

type FunderIDs struct {
	OpenAlex string  `json:"openalex"`
	ROR      *string `json:"ror,omitempty"`
	Wikidata *string `json:"wikidata,omitempty"`
	Crossref *string `json:"crossref,omitempty"`
	DOI      *string `json:"doi,omitempty"`
}

// Funder is an organization that funds research.
type Funder struct {
	ID                string        `json:"id"`
	DisplayName       string        `json:"display_name"`
	AlternateTitles   []string      `json:"alternate_titles"`
	CountryCode       *string       `json:"country_code,omitempty"`
	Description       *string       `json:"description,omitempty"`
	HomepageURL       *string       `json:"homepage_url,omitempty"`
	ImageURL          *string       `json:"image_url,omitempty"`
	ImageThumbnailURL *string       `json:"image_thumbnail_url,omitempty"`
	GrantsCount       int           `json:"grants_count"`
	WorksCount        int           `json:"works_count"`
	CitedByCount      int           `json:"cited_by_count"`
	SummaryStats      SummaryStats  `json:"summary_stats"`
	IDs               FunderIDs     `json:"ids"`
	Roles             []Role        `json:"roles"`
	CountsByYear      []CountByYear `json:"counts_by_year"`
	UpdatedDate       string        `json:"updated_date"`
	CreatedDate       string        `json:"created_date"`
}

func (f *Funder) EntityID() string { return f.ID }

func (f *Funder) Deflate(kind codec.Kind) (codec.Deflated, error) { return codec.Deflate(f, kind) }
