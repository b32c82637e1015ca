package models

// Shared shapes embedded in several OpenAlex entities. Optional fields are
// pointers or omitempty so partial documents survive a round trip.

// AuthorPosition is an author's place in the byline.
type AuthorPosition string

const (
	PositionFirst  AuthorPosition = "first"
	PositionMiddle AuthorPosition = "middle"
	PositionLast   AuthorPosition = "last"
)

// DehydratedAuthor is the short author form embedded in works.
type DehydratedAuthor struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	ORCID       *string `json:"orcid,omitempty"`
}

// DehydratedInstitution is the short institution form.
type DehydratedInstitution struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	ROR         *string  `json:"ror,omitempty"`
	CountryCode *string  `json:"country_code,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Lineage     []string `json:"lineage,omitempty"`
}

// AssociatedInstitution is a DehydratedInstitution with its relationship.
type AssociatedInstitution struct {
	DehydratedInstitution
	Relationship string `json:"relationship"`
}

// Authorship ties an author to a work.
type Authorship struct {
	Author                DehydratedAuthor        `json:"author"`
	AuthorPosition        AuthorPosition          `json:"author_position"`
	Countries             []string                `json:"countries"`
	Institutions          []DehydratedInstitution `json:"institutions"`
	IsCorresponding       bool                    `json:"is_corresponding"`
	RawAffiliationStrings []string                `json:"raw_affiliation_strings"`
	RawAuthorName         string                  `json:"raw_author_name"`
}

// DehydratedSource is the short source form embedded in locations.
type DehydratedSource struct {
	ID                   *string  `json:"id,omitempty"`
	DisplayName          *string  `json:"display_name,omitempty"`
	ISSNL                *string  `json:"issn_l,omitempty"`
	ISSN                 []string `json:"issn,omitempty"`
	IsOA                 bool     `json:"is_oa"`
	IsInDOAJ             bool     `json:"is_in_doaj"`
	HostOrganization     *string  `json:"host_organization,omitempty"`
	HostOrganizationName *string  `json:"host_organization_name,omitempty"`
	Type                 string   `json:"type"`
}

// Location is where a work is hosted.
type Location struct {
	IsOA           bool              `json:"is_oa"`
	IsAccepted     bool              `json:"is_accepted"`
	IsPublished    bool              `json:"is_published"`
	LandingPageURL *string           `json:"landing_page_url,omitempty"`
	PDFURL         *string           `json:"pdf_url,omitempty"`
	License        *string           `json:"license,omitempty"`
	Version        *string           `json:"version,omitempty"`
	Source         *DehydratedSource `json:"source,omitempty"`
}

// OpenAccess summarizes a work's OA status.
type OpenAccess struct {
	IsOA                     bool    `json:"is_oa"`
	OAStatus                 string  `json:"oa_status"`
	OAURL                    *string `json:"oa_url,omitempty"`
	AnyRepositoryHasFulltext bool    `json:"any_repository_has_fulltext"`
}

type APC struct {
	Value      int     `json:"value"`
	Currency   string  `json:"currency"`
	ValueUSD   *int    `json:"value_usd,omitempty"`
	Provenance *string `json:"provenance,omitempty"`
}

type APCPrice struct {
	Price    int    `json:"price"`
	Currency string `json:"currency"`
}

type Biblio struct {
	Volume    *string `json:"volume,omitempty"`
	Issue     *string `json:"issue,omitempty"`
	FirstPage *string `json:"first_page,omitempty"`
	LastPage  *string `json:"last_page,omitempty"`
}

// YearCount is a work's citations in one year.
type YearCount struct {
	Year         int `json:"year"`
	CitedByCount int `json:"cited_by_count"`
}

// CountByYear is an entity's works and citations in one year.
type CountByYear struct {
	Year         int `json:"year"`
	WorksCount   int `json:"works_count"`
	CitedByCount int `json:"cited_by_count"`
}

type DehydratedConcept struct {
	ID          string  `json:"id"`
	Wikidata    *string `json:"wikidata,omitempty"`
	DisplayName string  `json:"display_name"`
	Level       int     `json:"level"`
	Score       float64 `json:"score"`
}

// Taxon is a node of the topic hierarchy (domain, field, subfield).
type Taxon struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type DehydratedTopic struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Score       *float64 `json:"score,omitempty"`
	Subfield    *Taxon   `json:"subfield,omitempty"`
	Field       *Taxon   `json:"field,omitempty"`
	Domain      *Taxon   `json:"domain,omitempty"`
}

type Grant struct {
	Funder            string  `json:"funder"`
	FunderDisplayName string  `json:"funder_display_name"`
	AwardID           *string `json:"award_id,omitempty"`
}

type Keyword struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

type MeshTag struct {
	DescriptorUI   string  `json:"descriptor_ui"`
	DescriptorName string  `json:"descriptor_name"`
	QualifierUI    *string `json:"qualifier_ui,omitempty"`
	QualifierName  *string `json:"qualifier_name,omitempty"`
	IsMajorTopic   bool    `json:"is_major_topic"`
}

type SDG struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

type SummaryStats struct {
	TwoYearMeanCitedness float64 `json:"2yr_mean_citedness"`
	HIndex               int     `json:"h_index"`
	I10Index             int     `json:"i10_index"`
}

type Affiliation struct {
	Institution DehydratedInstitution `json:"institution"`
	Years       []int                 `json:"years"`
}

// Role links one organization across entity types.
type Role struct {
	Role       string `json:"role"`
	ID         string `json:"id"`
	WorksCount int    `json:"works_count"`
}

type Society struct {
	URL          string `json:"url"`
	Organization string `json:"organization"`
}

type Geo struct {
	City           string  `json:"city"`
	GeonamesCityID string  `json:"geonames_city_id"`
	Region         *string `json:"region,omitempty"`
	CountryCode    string  `json:"country_code"`
	Country        string  `json:"country"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

type Repository struct {
	ID                      string   `json:"id"`
	DisplayName             string   `json:"display_name"`
	HostOrganization        string   `json:"host_organization"`
	HostOrganizationName    string   `json:"host_organization_name"`
	HostOrganizationLineage []string `json:"host_organization_lineage"`
}

// International holds display names keyed by language code.
type International struct {
	DisplayName map[string]string `json:"display_name"`
}
