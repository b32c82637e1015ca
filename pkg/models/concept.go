package models

import "github.com/pario-ai/oars/pkg/codec"

type ConceptIDs struct {
	OpenAlex  string   `json:"openalex"`
	Wikidata  *string  `json:"wikidata,omitempty"`
	Wikipedia *string  `json:"wikipedia,omitempty"`
	MAG       *int64   `json:"mag,omitempty"`
	UMLSCUI   []string `json:"umls_cui,omitempty"`
	UMLSAUI   []string `json:"umls_aui,omitempty"`
}

// Concept is a legacy Wikidata-backed tag, superseded by Topic.
type Concept struct {
	ID                string              `json:"id"`
	Wikidata          string              `json:"wikidata"`
	DisplayName       string              `json:"display_name"`
	Level             int                 `json:"level"`
	Description       *string             `json:"description,omitempty"`
	WorksCount        int                 `json:"works_count"`
	CitedByCount      int                 `json:"cited_by_count"`
	SummaryStats      SummaryStats        `json:"summary_stats"`
	IDs               ConceptIDs          `json:"ids"`
	ImageURL          *string             `json:"image_url,omitempty"`
	ImageThumbnailURL *string             `json:"image_thumbnail_url,omitempty"`
	International     *International      `json:"international,omitempty"`
	Ancestors         []DehydratedConcept `json:"ancestors"`
	RelatedConcepts   []DehydratedConcept `json:"related_concepts"`
	CountsByYear      []CountByYear       `json:"counts_by_year"`
	WorksAPIURL       string              `json:"works_api_url"`
	UpdatedDate       string              `json:"updated_date"`
	CreatedDate       string              `json:"created_date"`
}

func (c *Concept) EntityID() string { return c.ID }

func (c *Concept) Deflate(kind codec.Kind) (codec.Deflated, error) { return codec.Deflate(c, kind) }
