// Package inventory holds the size and color variants of a product and
// derives its stock.
package inventory

import (
	"slices"
	"strings"

	"shoestore/apperr"
	"shoestore/models"
)

const (
	MinSize = 36
	MaxSize = 43
)

// Palette is the set of predefined colors offered by the dashboard.
var Palette = []string{"red", "black", "white", "blue", "brown"}

// Sizes returns the catalog size range.
func Sizes() []int {
	out := make([]int, 0, MaxSize-MinSize+1)
	for s := MinSize; s <= MaxSize; s++ {
		out = append(out, s)
	}
	return out
}

func InPalette(color string) bool {
	return slices.Contains(Palette, color)
}

// ToggleColor removes color from the collection when present and appends
// it with a zero quantity otherwise.
func ToggleColor(colors []models.ColorQuantity, color string) []models.ColorQuantity {
	color = strings.TrimSpace(color)
	if color == "" {
		return colors
	}
	if i := indexOf(colors, color); i >= 0 {
		return slices.Delete(slices.Clone(colors), i, i+1)
	}
	return append(slices.Clone(colors), models.ColorQuantity{Color: color})
}

// SetQuantity replaces the quantity of color. An absent color is left alone.
func SetQuantity(colors []models.ColorQuantity, color string, quantity int) []models.ColorQuantity {
	i := indexOf(colors, color)
	if i < 0 {
		return colors
	}
	if quantity < 0 {
		quantity = 0
	}
	out := slices.Clone(colors)
	out[i].Quantity = quantity
	return out
}

// TotalStock sums the quantities of both collections.
func TotalStock(colors, customColors []models.ColorQuantity) int {
	total := 0
	for _, c := range colors {
		total += max(c.Quantity, 0)
	}
	for _, c := range customColors {
		total += max(c.Quantity, 0)
	}
	return total
}

func ToggleSize(sizes []int, size int) []int {
	if i := slices.Index(sizes, size); i >= 0 {
		return slices.Delete(slices.Clone(sizes), i, i+1)
	}
	out := append(slices.Clone(sizes), size)
	slices.Sort(out)
	return out
}

// Normalize returns a clean copy of v: sizes deduplicated, sorted and kept
// inside the catalog range; colors trimmed, deduplicated (first wins) and
// clamped to non-negative quantities. Entries of Colors outside the palette
// move to CustomColors. The second result is the derived stock.
func Normalize(v models.Variant) (models.Variant, int) {
	var out models.Variant

	out.Sizes = make([]int, 0, len(v.Sizes))
	for _, s := range v.Sizes {
		if s < MinSize || s > MaxSize || slices.Contains(out.Sizes, s) {
			continue
		}
		out.Sizes = append(out.Sizes, s)
	}
	slices.Sort(out.Sizes)

	custom := slices.Clone(v.CustomColors)
	for _, c := range dedupe(v.Colors) {
		if InPalette(c.Color) {
			out.Colors = append(out.Colors, c)
		} else {
			custom = append(custom, c)
		}
	}
	if out.Colors == nil {
		out.Colors = []models.ColorQuantity{}
	}
	out.CustomColors = dedupe(custom)

	return out, TotalStock(out.Colors, out.CustomColors)
}

// Validate rejects a variant that offers no size or no color. Run it on a
// normalized variant.
func Validate(v models.Variant) error {
	if len(v.Sizes) == 0 {
		return apperr.Validation("sizes", apperr.MsgSizesRequired)
	}
	if len(v.Colors)+len(v.CustomColors) == 0 {
		return apperr.Validation("colors", apperr.MsgColorsRequired)
	}
	return nil
}

// Offers reports whether the variant sells size in color with stock left.
func Offers(v models.Variant, size int, color string) (sizeOK, colorOK bool) {
	sizeOK = slices.Contains(v.Sizes, size)
	for _, set := range [][]models.ColorQuantity{v.Colors, v.CustomColors} {
		if i := indexOf(set, color); i >= 0 && set[i].Quantity > 0 {
			colorOK = true
		}
	}
	return sizeOK, colorOK
}

func dedupe(colors []models.ColorQuantity) []models.ColorQuantity {
	out := make([]models.ColorQuantity, 0, len(colors))
	for _, c := range colors {
		c.Color = strings.TrimSpace(c.Color)
		if c.Color == "" || indexOf(out, c.Color) >= 0 {
			continue
		}
		c.Quantity = max(c.Quantity, 0)
		out = append(out, c)
	}
	return out
}

func indexOf(colors []models.ColorQuantity, color string) int {
	return slices.IndexFunc(colors, func(c models.ColorQuantity) bool {
		return c.Color == color
	})
}
