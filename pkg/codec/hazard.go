package codec

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/m8pack/pkg/mapping"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

// Hazard kinds. Each names a way a document can fall outside the lossless
// round trip even though it encodes without error.
const (
	// HazardAliasCode: an opening tag already contains a whitespace-anchored
	// alias code (" c=" etc.), in an attribute name or inside a value. The
	// decoder will expand it to the long attribute name.
	HazardAliasCode = "alias-code-in-attributes"

	// HazardCodeLikeTag: an unmapped tag is named like an assigned code, so
	// the decoder will turn it into the coded tag.
	HazardCodeLikeTag = "unmapped-tag-named-like-code"

	// HazardCaseFolded: a mapped tag is not written in lower case. It decodes
	// to the lower-case name, which renders the same but differs byte-wise.
	HazardCaseFolded = "tag-case-folded"
)

// Hazard is one finding of Hazards.
type Hazard struct {
	Kind   string `json:"kind" yaml:"kind"`
	Offset int    `json:"offset" yaml:"offset"`
	Detail string `json:"detail" yaml:"detail"`
}

func (h Hazard) String() string {
	return fmt.Sprintf("%s at byte %d: %s", h.Kind, h.Offset, h.Detail)
}

// Hazards lists the places where decode(encode(markup)) will not reproduce
// the whitespace-collapsed markup byte for byte. Offsets refer to the
// collapsed markup. An empty result means the round trip is exact.
func Hazards(markup string, m *mapping.Mapping) []Hazard {
	collapsed := CollapseWhitespace(markup)
	var out []Hazard
	for _, tok := range (tagscan.Pattern{}).Find(collapsed) {
		_, mapped := m.Code(tok.Name)
		switch {
		case mapped && tok.Name != strings.ToLower(tok.Name):
			out = append(out, Hazard{
				Kind:   HazardCaseFolded,
				Offset: tok.Start,
				Detail: fmt.Sprintf("<%s> decodes as <%s>", tok.Name, strings.ToLower(tok.Name)),
			})
		case !mapped:
			if tag, ok := m.Tag(tok.Name); ok {
				out = append(out, Hazard{
					Kind:   HazardCodeLikeTag,
					Offset: tok.Start,
					Detail: fmt.Sprintf("tag %q decodes as <%s>", tok.Name, tag),
				})
			}
		}

		if tok.Kind != tagscan.Open {
			continue
		}
		for _, loc := range decodeAttrRE.FindAllStringIndex(tok.Attrs, -1) {
			found := tok.Attrs[loc[0]+1 : loc[1]]
			out = append(out, Hazard{
				Kind:   HazardAliasCode,
				Offset: tok.AttrStart + loc[0] + 1,
				Detail: fmt.Sprintf("%q decodes as %q", found, codeToName[found[:len(found)-1]]+"="),
			})
		}
	}
	return out
}
