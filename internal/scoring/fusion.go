package scoring

import (
	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

// Policy 分数融合策略: 权重与分档阈值。
// 零值不可直接使用, 通过DefaultPolicy或配置构建。
type Policy struct {
	HardWeight      float64
	SoftWeight      float64
	ExcellentCutoff float64
	GoodCutoff      float64
	FairCutoff      float64
	BandHighCutoff  float64
	BandMedCutoff   float64
}

// DefaultPolicy 返回默认融合策略
func DefaultPolicy() Policy {
	return Policy{
		HardWeight:      constants.DefaultHardWeight,
		SoftWeight:      constants.DefaultSoftWeight,
		ExcellentCutoff: constants.DefaultExcellentCutoff,
		GoodCutoff:      constants.DefaultGoodCutoff,
		FairCutoff:      constants.DefaultFairCutoff,
		BandHighCutoff:  constants.DefaultBandHighCutoff,
		BandMedCutoff:   constants.DefaultBandMediumCutoff,
	}
}

// NormalizeWeights 归一化权重: 负值清零, 全零回退默认, 和不为1时等比缩放。
// 返回值第三项表示输入是否被修正过。
func NormalizeWeights(hardWeight, softWeight float64) (float64, float64, bool) {
	adjusted := false
	if hardWeight < 0 {
		hardWeight = 0
		adjusted = true
	}
	if softWeight < 0 {
		softWeight = 0
		adjusted = true
	}
	sum := hardWeight + softWeight
	if sum == 0 {
		return constants.DefaultHardWeight, constants.DefaultSoftWeight, true
	}
	if sum != 1 {
		hardWeight /= sum
		softWeight /= sum
		adjusted = true
	}
	return hardWeight, softWeight, adjusted
}

// Fuse 加权融合硬/软匹配分并给出四档判定
func (p Policy) Fuse(hardPct, softPct float64) (float64, types.Verdict) {
	hw, sw, _ := NormalizeWeights(p.HardWeight, p.SoftWeight)
	finalScore := utils.Clamp(hw*hardPct+sw*softPct, 0, 100)
	return finalScore, p.VerdictFor(finalScore)
}

// VerdictFor 四档判定: Excellent/Good/Fair/Poor
func (p Policy) VerdictFor(score float64) types.Verdict {
	switch {
	case score >= p.ExcellentCutoff:
		return types.VerdictExcellent
	case score >= p.GoodCutoff:
		return types.VerdictGood
	case score >= p.FairCutoff:
		return types.VerdictFair
	default:
		return types.VerdictPoor
	}
}

// BandFor 三档分带, 供批量对比视图使用, 与四档判定并存
func (p Policy) BandFor(score float64) types.Band {
	switch {
	case score >= p.BandHighCutoff:
		return types.BandHigh
	case score >= p.BandMedCutoff:
		return types.BandMedium
	default:
		return types.BandLow
	}
}
