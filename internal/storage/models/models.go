package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisRecord 单次简历分析的持久化记录
type AnalysisRecord struct {
	AnalysisID string `gorm:"type:char(36);primaryKey"`
	BatchID    string `gorm:"type:char(36);index:idx_analysis_batch_id"`
	ResumeID   string `gorm:"type:varchar(255);index:idx_analysis_resume_id"`

	HardPct    float64 `gorm:"type:double;not null"`
	SoftPct    float64 `gorm:"type:double;not null"`
	FinalScore float64 `gorm:"type:double;not null;index:idx_analysis_final_score"`
	Verdict    string  `gorm:"type:varchar(20);not null"`
	Band       string  `gorm:"type:varchar(20);not null"`

	MissingSkillsJSON datatypes.JSON `gorm:"type:json"`
	Feedback          string         `gorm:"type:text"`
	FeedbackSource    string         `gorm:"type:varchar(20)"`

	ATSScore      float64 `gorm:"type:double"`
	ATSGrade      string  `gorm:"type:varchar(5)"`
	StrengthScore float64 `gorm:"type:double"`

	Degraded bool `gorm:"type:tinyint(1);default:0"`

	CreatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

// TableName 指定表名
func (AnalysisRecord) TableName() string {
	return "analysis_records"
}
