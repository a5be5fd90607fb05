package cii

import (
	"fmt"
	"strings"
	"time"

	"github.com/rezonia/facturx/internal/model"
)

// Guideline URNs per Factur-X 1.0 profile
const (
	guidelineMinimum  = "urn:factur-x.eu:1p0:minimum"
	guidelineBasicWL  = "urn:factur-x.eu:1p0:basicwl"
	guidelineBasic    = "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic"
	guidelineEN16931  = "urn:cen.eu:en16931:2017"
	guidelineExtended = "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended"
)

// GuidelineURN maps a profile to its guideline parameter. Unknown profiles
// fall back to EN 16931 rather than failing.
func GuidelineURN(p model.Profile) string {
	switch p {
	case model.ProfileMinimum:
		return guidelineMinimum
	case model.ProfileBasicWL:
		return guidelineBasicWL
	case model.ProfileBasic:
		return guidelineBasic
	case model.ProfileExtended:
		return guidelineExtended
	default:
		return guidelineEN16931
	}
}

// ProfileFromURN infers the profile from a guideline identifier by substring,
// most specific marker first so every generated profile maps back to itself.
// Unrecognized identifiers fall back to EN 16931.
func ProfileFromURN(urn string) model.Profile {
	s := strings.ToLower(urn)
	switch {
	case strings.Contains(s, "minimum"):
		return model.ProfileMinimum
	case strings.Contains(s, "basicwl") || strings.Contains(s, "basic-wl"):
		return model.ProfileBasicWL
	case strings.Contains(s, "basic"):
		return model.ProfileBasic
	case strings.Contains(s, "extended"):
		return model.ProfileExtended
	default:
		return model.ProfileEN16931
	}
}

// formatDate102 converts YYYY-MM-DD to the compact format-102 form YYYYMMDD
func formatDate102(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// parseDate102 converts a format-102 date back to YYYY-MM-DD
func parseDate102(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("20060102", s)
	if err != nil {
		return "", fmt.Errorf("cannot parse format-102 date %q: %w", s, err)
	}
	return t.Format("2006-01-02"), nil
}

// stripIBAN removes internal whitespace from an IBAN before rendering
func stripIBAN(iban string) string {
	return strings.Join(strings.Fields(iban), "")
}
