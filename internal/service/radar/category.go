// internal/service/radar/category.go

package radar

import "strings"

// categoryKeywords maps product name fragments to categories. The
// first matching entry wins, so order matters for names that hit
// several buckets.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Electronics", []string{"phone", "laptop", "computer", "tablet", "headphone", "camera"}},
	{"Fashion", []string{"dress", "shirt", "pants", "shoe", "jacket", "accessory"}},
	{"Beauty", []string{"makeup", "skincare", "cosmetic", "beauty", "cream", "serum"}},
	{"Home & Garden", []string{"furniture", "decor", "garden", "kitchen", "bedding"}},
}

// inferCategory classifies a product by keywords in its name,
// defaulting to General when nothing matches.
func inferCategory(productName string) string {
	name := strings.ToLower(productName)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(name, word) {
				return entry.category
			}
		}
	}
	return "General"
}
