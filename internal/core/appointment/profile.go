package appointment

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/example/lessonbook/internal/core/fault"
)

// NormalizeProfile canonicalises the free-text profile fields: NFC form,
// trimmed, inner whitespace collapsed. Name and specialty are required.
func NormalizeProfile(p Profile) (Profile, error) {
	out := Profile{
		CandidateName: canonical(p.CandidateName),
		Specialty:     canonical(p.Specialty),
		Contact:       canonical(p.Contact),
	}
	if out.CandidateName == "" {
		return Profile{}, fault.Validation("candidate name is required")
	}
	if out.Specialty == "" {
		return Profile{}, fault.Validation("specialty is required")
	}
	return out, nil
}

func canonical(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
