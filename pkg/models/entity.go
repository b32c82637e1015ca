package models

import "github.com/pario-ai/oars/pkg/codec"

// Entity is implemented by every top-level OpenAlex resource.
type Entity interface {
	EntityID() string
	Deflate(kind codec.Kind) (codec.Deflated, error)
}

var (
	_ Entity = (*Work)(nil)
	_ Entity = (*Author)(nil)
	_ Entity = (*Source)(nil)
	_ Entity = (*Institution)(nil)
	_ Entity = (*Topic)(nil)
	_ Entity = (*Funder)(nil)
	_ Entity = (*Publisher)(nil)
	_ Entity = (*Concept)(nil)
)
