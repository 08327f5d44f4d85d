package detect

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/catalogpipe/core"
)

// skuPatterns map part-number shapes to the vendor that issues them.
var skuPatterns = []struct {
	format  core.Format
	pattern *regexp.Regexp
}{
	{core.FormatWIX, regexp.MustCompile(`^W[ALFP]\d+`)},
	{core.FormatFiltron, regexp.MustCompile(`^(AP|AR|OE|OP|PP|AK|K|PM)\s*\d+`)},
	{core.FormatAzumi, regexp.MustCompile(`^AC`)},
}

// FormatForSKU guesses the issuing vendor from the shape of a part number.
// It reports false when the shape is unknown.
func FormatForSKU(sku string) (core.Format, bool) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	for _, p := range skuPatterns {
		if p.pattern.MatchString(sku) {
			return p.format, true
		}
	}
	return "", false
}
