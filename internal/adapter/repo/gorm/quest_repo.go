package gormrepo

import (
	"context"
	"errors"

	"questforge/internal/adapter/repo/gorm/model"
	"questforge/internal/app/ports"
	"questforge/internal/domain/quest"

	"gorm.io/gorm"
)

type QuestRepo struct {
	db *gorm.DB
}

func NewQuestRepo(db *gorm.DB) QuestRepo {
	return QuestRepo{db: db}
}

func (r QuestRepo) Create(ctx context.Context, q quest.Quest) error {
	row := model.Quest{
		ID:        q.ID,
		UserID:    q.UserID,
		Title:     q.Title,
		Energy:    int32(q.Energy),
		IconPath:  q.IconPath,
		CreatedAt: q.CreatedAt.UTC(),
	}
	if err := dbFor(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r QuestRepo) GetByID(ctx context.Context, userID, questID string) (quest.Quest, error) {
	var row model.Quest
	err := dbFor(ctx, r.db).
		Where(&model.Quest{ID: questID, UserID: userID}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quest.Quest{}, ports.ErrNotFound
		}
		return quest.Quest{}, err
	}
	return toQuest(row), nil
}

func (r QuestRepo) ListByUserID(ctx context.Context, userID string) ([]quest.Quest, error) {
	rows := []model.Quest{}
	err := dbFor(ctx, r.db).
		Where(&model.Quest{UserID: userID}).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]quest.Quest, 0, len(rows))
	for _, row := range rows {
		out = append(out, toQuest(row))
	}
	return out, nil
}

func (r QuestRepo) Delete(ctx context.Context, userID, questID string) error {
	res := dbFor(ctx, r.db).
		Where("id = ? AND user_id = ?", questID, userID).
		Delete(&model.Quest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func toQuest(row model.Quest) quest.Quest {
	return quest.Quest{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Energy:    int(row.Energy),
		IconPath:  row.IconPath,
		CreatedAt: row.CreatedAt,
	}
}
