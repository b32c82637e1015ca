package models

import "github.com/pario-ai/oars/pkg/codec"

type InstitutionIDs struct {
	OpenAlex  string  `json:"openalex"`
	ROR       *string `json:"ror,omitempty"`
	GRID      *string `json:"grid,omitempty"`
	MAG       *string `json:"mag,omitempty"`
	Wikipedia *string `json:"wikipedia,omitempty"`
	Wikidata  *string `json:"wikidata,omitempty"`
}

// Institution is a university or other organization authors are affiliated with.
type Institution struct {
	ID                      string                  `json:"id"`
	ROR                     string                  `json:"ror"`
	DisplayName             string                  `json:"display_name"`
	CountryCode             *string                 `json:"country_code,omitempty"`
	Type                    *string                 `json:"type,omitempty"`
	TypeID                  *string                 `json:"type_id,omitempty"`
	Lineage                 []string                `json:"lineage"`
	HomepageURL             *string                 `json:"homepage_url,omitempty"`
	ImageURL                *string                 `json:"image_url,omitempty"`
	ImageThumbnailURL       *string                 `json:"image_thumbnail_url,omitempty"`
	DisplayNameAcronyms     []string                `json:"display_name_acronyms"`
	DisplayNameAlternatives []string                `json:"display_name_alternatives"`
	Repositories            []Repository            `json:"repositories"`
	WorksCount              int                     `json:"works_count"`
	CitedByCount            int                     `json:"cited_by_count"`
	SummaryStats            SummaryStats            `json:"summary_stats"`
	IDs                     InstitutionIDs          `json:"ids"`
	Geo                     Geo                     `json:"geo"`
	International           *International          `json:"international,omitempty"`
	AssociatedInstitutions  []AssociatedInstitution `json:"associated_institutions"`
	Roles                   []Role                  `json:"roles"`
	XConcepts               []DehydratedConcept     `json:"x_concepts,omitempty"`
	CountsByYear            []CountByYear           `json:"counts_by_year"`
	WorksAPIURL             string                  `json:"works_api_url"`
	UpdatedDate             string                  `json:"updated_date"`
	CreatedDate             string                  `json:"created_date"`
}

func (i *Institution) EntityID() string { return i.ID }

func (i *Institution) Deflate(kind codec.Kind) (codec.Deflated, error) { return codec.Deflate(i, kind) }
