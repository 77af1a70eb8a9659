package meal

import (
	"sort"
	"strconv"
	"strings"

	"github.com/petplates/mealengine/internal/domain/ingredient"
)

// FingerprintIngredient is the minimal ingredient view that contributes
// to a composition fingerprint.
type FingerprintIngredient struct {
	ID       string
	Amount   string
	Category string
}

// FingerprintSupplement is the minimal supplement view that contributes
// to a composition fingerprint.
type FingerprintSupplement struct {
	Name   string
	Amount string
}

// Fingerprint produces a deterministic, order-independent hash of a
// recipe's composition. Each ingredient normalizes to id:amount:category
// and each supplement to name:amount; both lists are sorted
// independently before hashing, so any permutation of the same
// composition yields the same value.
//
// The hash is a simple rolling string hash: a collision-tolerant cache
// key component, not a security primitive.
func Fingerprint(ingredients []FingerprintIngredient, supplements []FingerprintSupplement) string {
	ingParts := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ingParts = append(ingParts, normalizePart(ing.ID)+":"+normalizePart(ing.Amount)+":"+normalizePart(ing.Category))
	}
	sort.Strings(ingParts)

	supParts := make([]string, 0, len(supplements))
	for _, sup := range supplements {
		supParts = append(supParts, normalizePart(sup.Name)+":"+normalizePart(sup.Amount))
	}
	sort.Strings(supParts)

	joined := strings.Join(ingParts, "|") + "||" + strings.Join(supParts, "|")
	return rollingHash(joined)
}

// FingerprintRecipe fingerprints an assembled recipe's portions.
// Supplement portions contribute to the supplement list, everything else
// to the ingredient list.
func FingerprintRecipe(r *GeneratedRecipe) string {
	var ings []FingerprintIngredient
	var sups []FingerprintSupplement
	for _, p := range r.Portions {
		amount := strconv.FormatFloat(p.Grams, 'f', -1, 64) + "g"
		if p.Ingredient.Category == ingredient.CategorySupplement {
			sups = append(sups, FingerprintSupplement{Name: p.Ingredient.Name, Amount: amount})
			continue
		}
		ings = append(ings, FingerprintIngredient{
			ID:       p.Ingredient.ID,
			Amount:   amount,
			Category: string(p.Ingredient.Category),
		})
	}
	return Fingerprint(ings, sups)
}

func normalizePart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// rollingHash mirrors the classic 31-multiplier string hash with int32
// wraparound, rendered as the absolute value in decimal.
func rollingHash(s string) string {
	var h int32
	for _, r := range s {
		h = (h << 5) - h + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 10)
}
