package models

import "github.com/pario-ai/oars/pkg/codec"

type TopicIDs struct {
	OpenAlex  string  `json:"openalex"`
	Wikipedia *string `json:"wikipedia,omitempty"`
}

// Topic is a research area assigned to works.
type Topic struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"display_name"`
	Description  string   `json:"description"`
	Keywords     []string `json:"keywords"`
	IDs          TopicIDs `json:"ids"`
	Subfield     Taxon    `json:"subfield"`
	Field        Taxon    `json:"field"`
	Domain       Taxon    `json:"domain"`
	Siblings     []Taxon  `json:"siblings,omitempty"`
	WorksCount   int      `json:"works_count"`
	CitedByCount int      `json:"cited_by_count"`
	UpdatedDate  string   `json:"updated_date"`
	CreatedDate  string   `json:"created_date"`
}

func (t *Topic) EntityID() string { return t.ID }

func (t *Topic) Deflate(kind codec.Kind) (codec.Deflated, error) { return codec.Deflate(t, kind) }
