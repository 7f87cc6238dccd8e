package metadata

// Builder accumulates token metadata fields fluently. Zero value is not
// usable; start with NewBuilder.
type Builder struct {
	meta Metadata
}

// NewBuilder starts a metadata document with the given display name.
func NewBuilder(name string) *Builder {
	return &Builder{meta: Metadata{Name: name}}
}

// Description sets the long-form description.
func (b *Builder) Description(description string) *Builder {
	b.meta.Description = description
	return b
}

// Image sets the primary asset URI (http(s), ipfs:// or data URI).
func (b *Builder) Image(uri string) *Builder {
	b.meta.Image = uri
	return b
}

// AnimationURL sets the animated/interactive asset URI.
func (b *Builder) AnimationURL(uri string) *Builder {
	b.meta.AnimationURL = uri
	return b
}

// ExternalURL sets the off-marketplace link shown with the token.
func (b *Builder) ExternalURL(uri string) *Builder {
	b.meta.ExternalURL = uri
	return b
}

// BackgroundColor sets the six-character hex background color, without "#".
func (b *Builder) BackgroundColor(hexColor string) *Builder {
	b.meta.BackgroundColor = hexColor
	return b
}

// Attribute appends a plain string trait.
func (b *Builder) Attribute(traitType, value string) *Builder {
	b.meta.Attributes = append(b.meta.Attributes, Attribute{TraitType: traitType, Value: value})
	return b
}

// NumericAttribute appends a numeric trait with an optional display type.
func (b *Builder) NumericAttribute(traitType string, value float64, displayType string) *Builder {
	b.meta.Attributes = append(b.meta.Attributes, Attribute{
		TraitType:   traitType,
		Value:       value,
		DisplayType: displayType,
	})
	return b
}

// Build validates the accumulated document and returns it.
func (b *Builder) Build() (*Metadata, error) {
	meta := b.meta
	// Detach the attributes slice so further builder use cannot alias it.
	meta.Attributes = append([]Attribute(nil), b.meta.Attributes...)
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}
