package nutrition

import (
	"errors"
	"fmt"
	"math"

	"food-recognizer/domain"

	"github.com/gofiber/fiber/v2/log"
)

// FallbackNutrition is returned whenever a lookup fails. It is not scaled by
// the requested weight.
var FallbackNutrition = domain.Nutrition{
	Calories: 200.0,
	Protein:  10.0,
	Carbs:    25.0,
	Fat:      8.0,
}

type Calculator struct {
	table *Table
}

func NewCalculator(table *Table) *Calculator {
	return &Calculator{table: table}
}

// Estimate never fails: any lookup problem yields FallbackNutrition.
func (c *Calculator) Estimate(label string, weight float64) domain.Nutrition {
	n, err := c.Lookup(label, weight)
	if err != nil {
		if errors.Is(err, domain.ErrLookupMiss) {
			log.Warnf("no nutrition match for %q", label)
		} else {
			log.Warnf("nutrition lookup for %q failed: %v", label, err)
		}
	}
	return n
}

// Lookup is Estimate with the failure reason exposed. The returned Nutrition
// is always usable, even alongside an error.
func (c *Calculator) Lookup(label string, weight float64) (domain.Nutrition, error) {
	if c.table == nil {
		return FallbackNutrition, fmt.Errorf("%w: no table loaded", domain.ErrNutritionTableMalformed)
	}

	candidates, err := c.table.Descriptions()
	if err != nil {
		return FallbackNutrition, err
	}

	match, ok := BestMatch(Normalize(label), candidates)
	if !ok {
		return FallbackNutrition, domain.ErrLookupMiss
	}

	if missing := c.table.missingNutrientColumns(); len(missing) > 0 {
		return FallbackNutrition, fmt.Errorf("%w: missing columns %v", domain.ErrNutritionTableMalformed, missing)
	}

	rec, ok := c.table.Find(match)
	if !ok {
		return FallbackNutrition, fmt.Errorf("%w: matched %q has no row", domain.ErrNutritionTableMalformed, match)
	}
	if rec.WeightBasis <= 0 {
		return FallbackNutrition, fmt.Errorf("%w: %q has weight basis %v", domain.ErrNutritionTableMalformed, match, rec.WeightBasis)
	}

	scale := weight / rec.WeightBasis
	n := domain.Nutrition{
		Calories: round1(rec.Calories * scale),
		Protein:  round1(rec.Protein * scale),
		Carbs:    round1(rec.Carbohydrates * scale),
		Fat:      round1(rec.Fat * scale),
	}
	for _, v := range []float64{n.Calories, n.Protein, n.Carbs, n.Fat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FallbackNutrition, fmt.Errorf("%w: %q has a non-numeric nutrient", domain.ErrNutritionTableMalformed, match)
		}
	}
	return n, nil
}

// round1 rounds to one decimal, halves to even.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
