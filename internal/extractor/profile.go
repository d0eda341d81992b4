package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

var (
	experienceYearsPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|年)`)
	educationYearPattern   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	educationFieldPattern  = regexp.MustCompile(`(?i)\bin\s+([a-z][a-z &/-]{2,48}?)(?:\s+(?:from|at)\b|\s*[,.(（]|$)`)
	educationSchoolPattern = regexp.MustCompile(`(?:[A-Z][A-Za-z.'&-]*\s+){0,4}(?:University|College|Institute)(?:\s+(?:of\s+)?[A-Z][A-Za-z.'&-]*){0,3}|\p{Han}{2,12}(?:大学|学院)`)
)

// degreeKeywords 学历关键词, 按识别优先级排列
var degreeKeywords = []struct {
	keyword string
	degree  string
}{
	{"phd", "PhD"},
	{"ph.d", "PhD"},
	{"doctorate", "PhD"},
	{"博士", "PhD"},
	{"master", "Master"},
	{"msc", "Master"},
	{"m.s", "Master"},
	{"mba", "Master"},
	{"硕士", "Master"},
	{"bachelor", "Bachelor"},
	{"bsc", "Bachelor"},
	{"b.s", "Bachelor"},
	{"b.tech", "Bachelor"},
	{"本科", "Bachelor"},
	{"学士", "Bachelor"},
	{"diploma", "Diploma"},
	{"associate", "Associate"},
	{"大专", "Associate"},
}

// BuildProfile 从简历原始文本构建画像: 词表技能扫描、学历记录、经验年限。
// 文本为空时返回空画像, 不报错。
func BuildProfile(resumeText string) types.ExtractedProfile {
	profile := types.ExtractedProfile{RawText: resumeText}
	if strings.TrimSpace(resumeText) == "" {
		return profile
	}

	normalized := utils.NormalizeText(resumeText)
	tokens := utils.Tokenize(resumeText)

	for _, skill := range VocabularySkills("") {
		if utils.ContainsToken(tokens, skill) {
			profile.Skills = append(profile.Skills, utils.NormalizeSkill(skill))
		}
	}
	profile.Skills = utils.UniqueStrings(profile.Skills)

	profile.Education = extractEducation(resumeText)
	profile.ExperienceYears = extractExperienceYears(normalized)

	return profile
}

// extractEducation 按行扫描学历关键词, 同一行内提取年份
func extractEducation(text string) []types.EducationRecord {
	var records []types.EducationRecord
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, dk := range degreeKeywords {
			if !strings.Contains(lower, dk.keyword) {
				continue
			}
			record := types.EducationRecord{Degree: dk.degree}
			if m := educationFieldPattern.FindStringSubmatch(line); m != nil {
				record.Field = strings.TrimSpace(m[1])
			}
			if m := educationSchoolPattern.FindString(line); m != "" {
				record.School = strings.TrimSpace(m)
			}
			if m := educationYearPattern.FindString(line); m != "" {
				if year, err := strconv.Atoi(m); err == nil {
					record.Year = year
				}
			}
			records = append(records, record)
			break
		}
	}
	return records
}

// extractExperienceYears 取文本中"N years"类表述的最大值
func extractExperienceYears(normalized string) float64 {
	var maxYears float64
	for _, m := range experienceYearsPattern.FindAllStringSubmatch(normalized, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			// 过滤疑似年份数字, 如"2023年"
			if v < 60 && v > maxYears {
				maxYears = v
			}
		}
	}
	return maxYears
}
