// Package metadata builds and validates NFT token metadata in the
// OpenSea-compatible JSON schema. Building is pure and synchronous; the
// encoded bytes are what gets handed to the IPFS client for upload.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Errors returned by metadata validation.
var (
	ErrMissingName     = errors.New("metadata: name is required")
	ErrEmptyTraitType  = errors.New("metadata: attribute trait type must not be empty")
	ErrInvalidAssetURI = errors.New("metadata: asset URI must be http(s), ipfs or a data URI")
	ErrDuplicateTrait  = errors.New("metadata: duplicate attribute trait type")
)

// Attribute is one trait displayed alongside the token.
type Attribute struct {
	TraitType string `json:"trait_type"`
	// Value is a string or a number depending on the trait.
	Value interface{} `json:"value"`
	// DisplayType hints how marketplaces render numeric traits, e.g.
	// "number", "boost_percentage", "date". Empty for plain traits.
	DisplayType string `json:"display_type,omitempty"`
}

// Metadata is the token metadata document stored at the token URI.
type Metadata struct {
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	Image           string      `json:"image,omitempty"`
	AnimationURL    string      `json:"animation_url,omitempty"`
	ExternalURL     string      `json:"external_url,omitempty"`
	BackgroundColor string      `json:"background_color,omitempty"`
	Attributes      []Attribute `json:"attributes,omitempty"`
}

// Validate checks the document against the schema rules the marketplaces
// actually enforce: a name, well-formed asset URIs and unique trait types.
func (m *Metadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrMissingName
	}

	for _, uri := range []string{m.Image, m.AnimationURL, m.ExternalURL} {
		if err := validateAssetURI(uri); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(m.Attributes))
	for _, attr := range m.Attributes {
		if strings.TrimSpace(attr.TraitType) == "" {
			return ErrEmptyTraitType
		}
		if seen[attr.TraitType] {
			return fmt.Errorf("%w: %s", ErrDuplicateTrait, attr.TraitType)
		}
		seen[attr.TraitType] = true
	}

	return nil
}

// Encode validates the document and returns its canonical JSON encoding,
// ready for upload.
func (m *Metadata) Encode() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func validateAssetURI(uri string) error {
	if uri == "" {
		return nil
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAssetURI, uri)
	}
	switch parsed.Scheme {
	case "http", "https", "ipfs", "ar", "data":
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAssetURI, uri)
	}
}
