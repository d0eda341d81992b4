package extractor

import "resume-match-go/pkg/utils"

// SkillCategory 技能词表分类
type SkillCategory string

const (
	CategoryProgramming   SkillCategory = "programming"
	CategoryDatabases     SkillCategory = "databases"
	CategoryCloud         SkillCategory = "cloud"
	CategoryDataScience   SkillCategory = "data_science"
	CategoryTools         SkillCategory = "tools"
	CategoryMethodologies SkillCategory = "methodologies"
	CategorySoftSkills    SkillCategory = "soft_skills"
)

// skillVocabulary 技术技能词表, 按类别组织。条目统一小写。
var skillVocabulary = map[SkillCategory][]string{
	CategoryProgramming: {
		"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust", "php", "ruby",
		"swift", "kotlin", "scala", "r", "matlab", "sql", "html", "css", "react", "angular",
		"vue", "node.js", "django", "flask", "spring", "express", "laravel", "rails",
	},
	CategoryDatabases: {
		"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "cassandra", "dynamodb",
		"sqlite", "oracle", "sql server", "neo4j", "influxdb",
	},
	CategoryCloud: {
		"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible", "jenkins",
		"gitlab ci", "github actions", "cloudformation", "serverless", "lambda",
	},
	CategoryDataScience: {
		"machine learning", "deep learning", "nlp", "computer vision", "pandas", "numpy",
		"scikit-learn", "tensorflow", "pytorch", "keras", "spark", "hadoop", "kafka",
		"airflow", "jupyter", "matplotlib", "seaborn", "plotly",
	},
	CategoryTools: {
		"git", "github", "gitlab", "jira", "confluence", "slack", "figma", "sketch",
		"postman", "swagger", "vagrant", "tableau", "power bi", "excel",
	},
	CategoryMethodologies: {
		"agile", "scrum", "kanban", "devops", "ci/cd", "tdd", "bdd", "microservices",
		"rest api", "graphql", "soa", "mvc", "mvvm",
	},
	CategorySoftSkills: {
		"communication", "teamwork", "leadership", "problem solving", "mentoring",
		"stakeholder management", "presentation",
	},
}

// mustHaveTriggers 句子中出现这些词时, 句内技能归为必备项
var mustHaveTriggers = []string{
	"required", "must have", "must-have", "essential", "mandatory", "necessary",
	"prerequisite", "minimum", "at least", "should have", "critical", "core",
}

// goodToHaveTriggers 句子中出现这些词时, 句内技能归为加分项
var goodToHaveTriggers = []string{
	"preferred", "nice to have", "nice-to-have", "bonus", "advantage", "plus",
	"desirable", "beneficial", "helpful", "optional", "additional", "welcome",
}

// requirementsSectionHeaders 章节标题, 其下未分类技能默认归为必备项
var requirementsSectionHeaders = []string{
	"requirements", "required skills", "qualifications", "must have",
}

// normalizedVocabulary 词表的扁平化归一集合, 供候选短语过滤
var normalizedVocabulary = buildNormalizedVocabulary()

func buildNormalizedVocabulary() map[string]struct{} {
	set := make(map[string]struct{})
	for _, skills := range skillVocabulary {
		for _, skill := range skills {
			set[utils.NormalizeSkill(skill)] = struct{}{}
		}
	}
	return set
}

// InVocabulary 判断归一化短语是否在技能词表中
func InVocabulary(phrase string) bool {
	_, ok := normalizedVocabulary[utils.NormalizeSkill(phrase)]
	return ok
}

// VocabularySkills 返回指定类别的词表条目, 类别为空时返回全部
func VocabularySkills(category SkillCategory) []string {
	if category != "" {
		out := make([]string, len(skillVocabulary[category]))
		copy(out, skillVocabulary[category])
		return out
	}
	var out []string
	for _, skills := range skillVocabulary {
		out = append(out, skills...)
	}
	return utils.UniqueStrings(out)
}
