package match

import (
	"math"
	"sort"
)

// proteinDensity 蛋白質密度：每大卡的蛋白質克數，排序的主要依據
func proteinDensity(c Candidate) float64 {
	p := c.ProteinG
	if math.IsNaN(p) {
		p = 0
	}
	cal := c.Calories
	if math.IsNaN(cal) || cal < 1 {
		cal = 1
	}
	return p / cal
}

// calorieDistance 與目標熱量的絕對距離，密度相同時的決勝依據
func calorieDistance(c Candidate, target float64) float64 {
	cal := c.Calories
	if math.IsNaN(cal) {
		cal = 0
	}
	return math.Abs(cal - target)
}

// Rank 穩定排序候選清單並截斷至 resultSize：
// 蛋白質密度高者優先，密度相同時熱量越接近目標越前面。
// 輸入不被修改，回傳新的切片。
func Rank(candidates []Candidate, calorieTarget float64, resultSize int) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := proteinDensity(ranked[i]), proteinDensity(ranked[j])
		if pi != pj {
			return pi > pj
		}
		return calorieDistance(ranked[i], calorieTarget) < calorieDistance(ranked[j], calorieTarget)
	})

	if resultSize > 0 && len(ranked) > resultSize {
		ranked = ranked[:resultSize]
	}
	return ranked
}
