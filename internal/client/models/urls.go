package models

// URLs holds one URL per variant. Empty fields mean the variant has no URL.
type URLs struct {
	Original     string `json:"original,omitempty"`
	Small        string `json:"small,omitempty"`
	Medium       string `json:"medium,omitempty"`
	Large        string `json:"large,omitempty"`
	VideoPreview string `json:"video_preview,omitempty"`
}

func (u *URLs) field(v Variant) *string {
	switch v {
	case VariantOriginal:
		return &u.Original
	case VariantSmall:
		return &u.Small
	case VariantMedium:
		return &u.Medium
	case VariantLarge:
		return &u.Large
	case VariantVideoPreview:
		return &u.VideoPreview
	default:
		return nil
	}
}

// Get returns the URL for v, or "" for unknown variants.
func (u URLs) Get(v Variant) string {
	if p := u.field(v); p != nil {
		return *p
	}
	return ""
}

// Set stores url for v. Unknown variants are ignored.
func (u *URLs) Set(v Variant, url string) {
	if p := u.field(v); p != nil {
		*p = url
	}
}

// URLsFromMap builds URLs from a wire map keyed by variant name.
func URLsFromMap(m map[string]string) URLs {
	var u URLs
	for k, v := range m {
		u.Set(Variant(k), v)
	}
	return u
}

// Map returns the non-empty URLs keyed by variant name.
func (u URLs) Map() map[string]string {
	m := make(map[string]string)
	for _, v := range []Variant{VariantOriginal, VariantSmall, VariantMedium, VariantLarge, VariantVideoPreview} {
		if s := u.Get(v); s != "" {
			m[string(v)] = s
		}
	}
	return m
}
