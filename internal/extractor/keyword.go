package extractor

import (
	"strings"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

// KeywordExtractor 基于词表与触发词的技能抽取器。
// 纯本地实现, 同一输入输出恒定, 作为AI抽取不可用时的兜底。
type KeywordExtractor struct {
	maxMustHave   int
	maxGoodToHave int
}

// NewKeywordExtractor 创建关键词抽取器
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		maxMustHave:   constants.MaxMustHaveSkills,
		maxGoodToHave: constants.MaxGoodToHaveSkills,
	}
}

// Extract 从JD文本中抽取必备/加分技能。
// 分类规则: 句内出现required/must/mandatory类触发词归必备,
// preferred/nice to have/plus类触发词归加分;
// 未被触发词覆盖的技能, 位于Requirements章节内默认必备, 否则加分。
func (k *KeywordExtractor) Extract(jdText string) types.SkillSet {
	if strings.TrimSpace(jdText) == "" {
		return types.SkillSet{}
	}

	var mustHave, goodToHave, unclassifiedMust, unclassifiedGood []string
	inRequirements := false

	for _, sentence := range utils.SplitSentences(jdText) {
		lower := strings.ToLower(strings.TrimSpace(sentence))
		if lower == "" {
			continue
		}

		if isSectionHeader(lower) {
			inRequirements = isRequirementsHeader(lower)
			continue
		}

		skills := candidateSkills(sentence)
		if len(skills) == 0 {
			continue
		}

		isMust := containsAnyTrigger(lower, mustHaveTriggers)
		isGood := containsAnyTrigger(lower, goodToHaveTriggers)

		switch {
		case isMust && !isGood:
			mustHave = append(mustHave, skills...)
		case isGood:
			goodToHave = append(goodToHave, skills...)
		case inRequirements:
			unclassifiedMust = append(unclassifiedMust, skills...)
		default:
			unclassifiedGood = append(unclassifiedGood, skills...)
		}
	}

	mustHave = append(mustHave, unclassifiedMust...)
	goodToHave = append(goodToHave, unclassifiedGood...)

	mustHave = utils.UniqueStrings(mustHave)
	goodSet := make([]string, 0, len(goodToHave))
	mustSet := make(map[string]struct{}, len(mustHave))
	for _, s := range mustHave {
		mustSet[s] = struct{}{}
	}
	for _, s := range utils.UniqueStrings(goodToHave) {
		// 同一技能同时命中两类时必备优先
		if _, dup := mustSet[s]; !dup {
			goodSet = append(goodSet, s)
		}
	}

	if len(mustHave) > k.maxMustHave {
		mustHave = mustHave[:k.maxMustHave]
	}
	if len(goodSet) > k.maxGoodToHave {
		goodSet = goodSet[:k.maxGoodToHave]
	}

	return types.SkillSet{MustHave: mustHave, GoodToHave: goodSet}
}

// candidateSkills 生成句内n-gram(≤3)候选并按词表过滤, 保持出现顺序
func candidateSkills(sentence string) []string {
	tokens := utils.Tokenize(sentence)
	var found []string
	for n := 3; n >= 1; n-- {
		for i := 0; i+n <= len(tokens); i++ {
			phrase := strings.Join(tokens[i:i+n], " ")
			if InVocabulary(phrase) {
				found = append(found, utils.NormalizeSkill(phrase))
			}
		}
	}
	// 被更长短语覆盖的子短语剔除, 如"sql server"命中后不再单独计"sql"
	return dropCoveredPhrases(utils.UniqueStrings(found))
}

// dropCoveredPhrases 剔除作为更长命中短语子串出现的短短语
func dropCoveredPhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		covered := false
		for _, other := range phrases {
			if other != p && len(other) > len(p) && utils.ContainsToken(utils.Tokenize(other), p) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, p)
		}
	}
	return out
}

// isSectionHeader 短行且以冒号结尾或本身就是章节词, 视为章节标题
func isSectionHeader(lower string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSpace(lower), ":")
	if len(strings.Fields(trimmed)) > 4 {
		return false
	}
	for _, h := range requirementsSectionHeaders {
		if strings.Contains(trimmed, h) {
			return true
		}
	}
	for _, h := range []string{"preferred skills", "nice to have", "benefits", "responsibilities", "about us", "about the role"} {
		if strings.Contains(trimmed, h) {
			return true
		}
	}
	return false
}

// isRequirementsHeader 判断章节标题是否属于必备要求类
func isRequirementsHeader(lower string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSpace(lower), ":")
	for _, h := range requirementsSectionHeaders {
		if strings.Contains(trimmed, h) {
			return true
		}
	}
	return false
}

func containsAnyTrigger(lower string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
