package repository

import (
	"context"

	"gorm.io/gorm"

	"classroom-portal/internal/model"
)

// CourseRepository 课程数据访问接口（只读）
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("course_id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// GroupRepository 班级数据访问接口（只读）
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*model.StudentGroup, error)
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.StudentGroup, error) {
	var group model.StudentGroup
	if err := r.db.WithContext(ctx).Where("group_id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}
