package models

import "github.com/pario-ai/oars/pkg/codec"

type WorkIDs struct {
	OpenAlex string  `json:"openalex"`
	DOI      *string `json:"doi,omitempty"`
	MAG      *string `json:"mag,omitempty"`
	PMID     *string `json:"pmid,omitempty"`
	PMCID    *string `json:"pmcid,omitempty"`
}

type PercentileYear struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Work is a scholarly document: article, book, dataset, preprint and so on.
type Work struct {
	ID                          string              `json:"id"`
	DOI                         *string             `json:"doi,omitempty"`
	Title                       *string             `json:"title,omitempty"`
	DisplayName                 *string             `json:"display_name,omitempty"`
	PublicationYear             *int                `json:"publication_year,omitempty"`
	PublicationDate             *string             `json:"publication_date,omitempty"`
	IDs                         WorkIDs             `json:"ids"`
	Language                    *string             `json:"language,omitempty"`
	PrimaryLocation             *Location           `json:"primary_location,omitempty"`
	BestOALocation              *Location           `json:"best_oa_location,omitempty"`
	Locations                   []Location          `json:"locations"`
	LocationsCount              int                 `json:"locations_count"`
	Type                        string              `json:"type"`
	TypeCrossref                *string             `json:"type_crossref,omitempty"`
	IndexedIn                   []string            `json:"indexed_in"`
	OpenAccess                  OpenAccess          `json:"open_access"`
	Authorships                 []Authorship        `json:"authorships"`
	CorrespondingAuthorIDs      []string            `json:"corresponding_author_ids"`
	CorrespondingInstitutionIDs []string            `json:"corresponding_institution_ids"`
	CountriesDistinctCount      int                 `json:"countries_distinct_count"`
	InstitutionsDistinctCount   int                 `json:"institutions_distinct_count"`
	APCList                     *APC                `json:"apc_list,omitempty"`
	APCPaid                     *APC                `json:"apc_paid,omitempty"`
	HasFulltext                 bool                `json:"has_fulltext"`
	FulltextOrigin              *string             `json:"fulltext_origin,omitempty"`
	CitedByCount                int                 `json:"cited_by_count"`
	CitedByPercentileYear       *PercentileYear     `json:"cited_by_percentile_year,omitempty"`
	Biblio                      *Biblio             `json:"biblio,omitempty"`
	IsRetracted                 bool                `json:"is_retracted"`
	IsParatext                  bool                `json:"is_paratext"`
	PrimaryTopic                *DehydratedTopic    `json:"primary_topic,omitempty"`
	Topics                      []DehydratedTopic   `json:"topics,omitempty"`
	Keywords                    []Keyword           `json:"keywords,omitempty"`
	Concepts                    []DehydratedConcept `json:"concepts"`
	Mesh                        []MeshTag           `json:"mesh,omitempty"`
	SustainableDevelopmentGoals []SDG               `json:"sustainable_development_goals,omitempty"`
	Grants                      []Grant             `json:"grants"`
	ReferencedWorksCount        *int                `json:"referenced_works_count,omitempty"`
	ReferencedWorks             []string            `json:"referenced_works,omitempty"`
	RelatedWorks                []string            `json:"related_works,omitempty"`
	NgramsURL                   *string             `json:"ngrams_url,omitempty"`
	AbstractInvertedIndex       map[string][]int    `json:"abstract_inverted_index,omitempty"`
	CitedByAPIURL               string              `json:"cited_by_api_url"`
	CountsByYear                []YearCount         `json:"counts_by_year"`
	Versions                    []string            `json:"versions,omitempty"`
	UpdatedDate                 *string             `json:"updated_date,omitempty"`
	CreatedDate                 *string             `json:"created_date,omitempty"`
}

func (w *Work) EntityID() string { return w.ID }

func (w *Work) Deflate(kind codec.Kind) (codec.Deflated, error) { return codec.Deflate(w, kind) }
