package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resume-match-go/internal/config"
	"resume-match-go/internal/storage/models"
	"resume-match-go/internal/types"
)

// MySQL 分析结果持久化层
type MySQL struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewMySQL 建立MySQL连接并迁移表结构
func NewMySQL(cfg *config.MySQLConfig, logger zerolog.Logger) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	if err := db.AutoMigrate(&models.AnalysisRecord{}); err != nil {
		return nil, fmt.Errorf("迁移分析记录表失败: %w", err)
	}

	return &MySQL{db: db, logger: logger}, nil
}

// SaveAnalysis 将一批分析结果写入数据库, batchID串联同批次记录。
// 分析失败(Err非空)的简历不落库。
func (m *MySQL) SaveAnalysis(ctx context.Context, batchID string, results []types.AnalysisResult) error {
	if m.db == nil {
		return fmt.Errorf("MySQL未初始化")
	}

	records := make([]models.AnalysisRecord, 0, len(results))
	for _, r := range results {
		if r.Err != nil || r.Match == nil {
			continue
		}

		missingJSON, err := json.Marshal(r.Match.MissingSkills)
		if err != nil {
			return fmt.Errorf("序列化缺失技能失败: %w", err)
		}

		record := models.AnalysisRecord{
			AnalysisID:        uuid.New().String(),
			BatchID:           batchID,
			ResumeID:          r.ResumeID,
			HardPct:           r.Match.HardPct,
			SoftPct:           r.Match.SoftPct,
			FinalScore:        r.Match.FinalScore,
			Verdict:           string(r.Match.Verdict),
			Band:              string(r.Match.Band),
			MissingSkillsJSON: missingJSON,
			Feedback:          r.Match.Feedback,
			FeedbackSource:    r.Match.FeedbackSource,
			Degraded:          r.Match.Degraded,
		}
		if r.ATS != nil {
			record.ATSScore = r.ATS.ATSScore
			record.ATSGrade = r.ATS.Grade
		}
		if r.Strength != nil {
			record.StrengthScore = r.Strength.StrengthScore
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil
	}
	if err := m.db.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("写入分析记录失败: %w", err)
	}

	m.logger.Debug().Str("batch_id", batchID).Int("records", len(records)).Msg("分析记录已落库")
	return nil
}

// ListByBatch 查询一个批次的全部分析记录, 按最终分降序
func (m *MySQL) ListByBatch(ctx context.Context, batchID string) ([]models.AnalysisRecord, error) {
	if m.db == nil {
		return nil, fmt.Errorf("MySQL未初始化")
	}
	var records []models.AnalysisRecord
	err := m.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("final_score DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("查询分析记录失败: %w", err)
	}
	return records, nil
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
