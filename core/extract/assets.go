package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

// resolveAsset returns the absolute URL of an image-like asset. An explicit
// element wins; otherwise the template is expanded when the page embeds a
// 3D viewer and the SKU is known.
func resolveAsset(doc *document.Document, rule assetRule, hasViewer bool, sku, domain string) string {
	if src := sourceOf(doc.FirstOf(rule.selectors...)); src != "" {
		return absolutize(strings.Replace(src, "/small/", "/large/", 1), domain)
	}
	if hasViewer && sku != "" && rule.template != "" {
		return expandTemplate(rule.template, domain, sku)
	}
	return ""
}

// resolveManual returns the first PDF link found by the matchers.
func resolveManual(doc *document.Document, matchers []goquery.Matcher, domain string) string {
	if len(matchers) == 0 {
		return ""
	}
	href, _ := doc.FirstOf(matchers...).Attr("href")
	return absolutize(strings.TrimSpace(href), domain)
}

func sourceOf(s *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "href"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func absolutize(ref, domain string) string {
	domain = strings.TrimRight(domain, "/")
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		return domain + ref
	case strings.Contains(ref, "://"), strings.HasPrefix(ref, "data:"):
		return ref
	default:
		return domain + "/" + ref
	}
}

func expandTemplate(template, domain, sku string) string {
	return strings.NewReplacer(
		"{domain}", strings.TrimRight(domain, "/"),
		"{sku}", sku,
	).Replace(template)
}
