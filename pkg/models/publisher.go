package models

import "github.com/pario-ai/oars/pkg/codec"

type PublisherIDs struct {
	OpenAlex string  `json:"openalex"`
	ROR      *string `json:"ror,omitempty"`
	Wikidata *string `json:"wikidata,omitempty"`
}

// Publisher is a company or organization that publishes sources.
type Publisher struct {
	ID                string        `json:"id"`
	DisplayName       string        `json:"display_name"`
	AlternateTitles   []string      `json:"alternate_titles"`
	HierarchyLevel    int           `json:"hierarchy_level"`
	ParentPublisher   *string       `json:"parent_publisher,omitempty"`
	Lineage           []string      `json:"lineage"`
	CountryCodes      []string      `json:"country_codes"`
	HomepageURL       *string       `json:"homepage_url,omitempty"`
	ImageURL          *string       `json:"image_url,omitempty"`
	ImageThumbnailURL *string       `json:"image_thumbnail_url,omitempty"`
	WorksCount        int           `json:"works_count"`
	CitedByCount      int           `json:"cited_by_count"`
	SummaryStats      SummaryStats  `json:"summary_stats"`
	IDs               PublisherIDs  `json:"ids"`
	Roles             []Role        `json:"roles"`
	CountsByYear      []CountByYear `json:"counts_by_year"`
	SourcesAPIURL     string        `json:"sources_api_url"`
	UpdatedDate       string        `json:"updated_date"`
	CreatedDate       string        `json:"created_date"`
}

func (p *Publisher) EntityID() string { return p.ID }

func (p *Publisher) Deflate(kind codec.Kind) (codec.Deflated, error) { return codec.Deflate(p, kind) }
