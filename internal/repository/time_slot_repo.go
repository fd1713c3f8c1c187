package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// TimeSlotRepository 时间段数据访问接口
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *model.TimeSlot) error
	BatchCreate(ctx context.Context, slots []model.TimeSlot) error
	GetByID(ctx context.Context, id string) (*model.TimeSlot, error)
	// ListByIDs 批量查询，不存在的 ID 不会出现在结果中，调用方据数量判断
	ListByIDs(ctx context.Context, ids []string) ([]model.TimeSlot, error)
	List(ctx context.Context, academicYearID string, day *model.Weekday) ([]model.TimeSlot, error)
	Update(ctx context.Context, slot *model.TimeSlot) error
	Delete(ctx context.Context, id string) error
	CountEntries(ctx context.Context, slotID string) (int64, error)
}

type timeSlotRepo struct {
	db *gorm.DB
}

// NewTimeSlotRepo 创建 TimeSlotRepository 实例
func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

func (r *timeSlotRepo) Create(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *timeSlotRepo) BatchCreate(ctx context.Context, slots []model.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *timeSlotRepo) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("time_slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepo) ListByIDs(ctx context.Context, ids []string) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if len(ids) == 0 {
		return slots, nil
	}
	err := r.db.WithContext(ctx).
		Where("time_slot_id IN ?", ids).
		Find(&slots).Error
	return slots, err
}

func (r *timeSlotRepo) List(ctx context.Context, academicYearID string, day *model.Weekday) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	db := r.db.WithContext(ctx)

	if academicYearID != "" {
		db = db.Where("academic_year_id = ?", academicYearID)
	}
	if day != nil {
		db = db.Where("day_of_week = ?", *day)
	}

	// 按周一至周五顺序排列，而非字母序
	err := db.Order("CASE day_of_week WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 WHEN 'thursday' THEN 4 ELSE 5 END, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *timeSlotRepo) Update(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *timeSlotRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("time_slot_id = ?", id).
		Delete(&model.TimeSlot{}).Error
}

func (r *timeSlotRepo) CountEntries(ctx context.Context, slotID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimetableEntry{}).
		Where("time_slot_id = ?", slotID).
		Count(&count).Error
	return count, err
}
