package types

// EducationRecord 简历中的一条教育经历
type EducationRecord struct {
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
	School string `json:"school,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// ExtractedProfile 从简历文本中提取的结构化画像
// 构建完成后不可变；RawText 保留原始文本用于语义匹配和ATS检查
type ExtractedProfile struct {
	Skills          []string          `json:"skills"`
	Education       []EducationRecord `json:"education,omitempty"`
	ExperienceYears float64           `json:"experience_years"`
	RawText         string            `json:"-"`
}

// HasSkill 判断画像中是否含有规范化后的技能
func (p *ExtractedProfile) HasSkill(normalized string) bool {
	for _, s := range p.Skills {
		if s == normalized {
			return true
		}
	}
	return false
}
