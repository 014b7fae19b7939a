package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"classroom-portal/internal/dto"
	"classroom-portal/internal/model"
	"classroom-portal/internal/repository"
	pkgerrors "classroom-portal/pkg/errors"
)

// ── 教室模块业务错误 ──

var (
	ErrClassroomNotFound   = errors.New("教室不存在")
	ErrClassroomNameExists = errors.New("教室名称已存在")
	ErrClassroomInUse      = errors.New("教室仍被课表或有效预约引用，无法删除")
	ErrInvalidClassroom    = errors.New("教室类型无效")
)

// ClassroomService 教室目录业务接口
type ClassroomService interface {
	Create(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*dto.ClassroomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error)
	List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassroomRequest, callerID string) (*dto.ClassroomResponse, error)
	// Delete 存在引用时拒绝删除（RESTRICT）
	Delete(ctx context.Context, id string) error
}

type classroomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassroomService 创建 ClassroomService 实例
func NewClassroomService(repo *repository.Repository, logger *zap.Logger) ClassroomService {
	return &classroomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classroomService) Create(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*dto.ClassroomResponse, error) {
	roomType := model.ClassroomType(req.Type)
	if !roomType.Valid() {
		return nil, ErrInvalidClassroom
	}

	room := &model.Classroom{
		Name:     req.Name,
		Type:     roomType,
		Capacity: req.Capacity,
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Classroom.Create(ctx, room); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrClassroomNameExists
		}
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, storeError(err)
	}
	return toClassroomResponse(room), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classroomService) GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error) {
	room, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}
	return toClassroomResponse(room), nil
}

// ────────────────────── List ──────────────────────

func (s *classroomService) List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, error) {
	rooms, err := s.repo.Classroom.List(ctx, model.ClassroomType(req.Type))
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, storeError(err)
	}

	result := make([]dto.ClassroomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *toClassroomResponse(&rooms[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *classroomService) Update(ctx context.Context, id string, req *dto.UpdateClassroomRequest, callerID string) (*dto.ClassroomResponse, error) {
	room, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Type != nil {
		roomType := model.ClassroomType(*req.Type)
		if !roomType.Valid() {
			return nil, ErrInvalidClassroom
		}
		room.Type = roomType
	}
	if req.Capacity != nil {
		room.Capacity = req.Capacity
	}
	room.UpdatedBy = &callerID

	if err := s.repo.Classroom.Update(ctx, room); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrClassroomNameExists
		}
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}
	return toClassroomResponse(room), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classroomService) Delete(ctx context.Context, id string) error {
	schedules, reservations, err := s.repo.Classroom.CountReferences(ctx, id)
	if err != nil {
		s.logger.Error("统计教室引用失败", zap.String("id", id), zap.Error(err))
		return storeError(err)
	}
	if schedules > 0 || reservations > 0 {
		s.logger.Info("教室仍被引用，拒绝删除",
			zap.String("id", id),
			zap.Int64("schedules", schedules),
			zap.Int64("reservations", reservations))
		return ErrClassroomInUse
	}

	if err := s.repo.Classroom.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrClassroomNotFound
		case pkgerrors.IsForeignKeyViolation(err):
			// 已拒绝 / 历史预约仍引用该教室
			return ErrClassroomInUse
		}
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return storeError(err)
	}
	return nil
}

// ── 内部辅助方法 ──

func toClassroomResponse(room *model.Classroom) *dto.ClassroomResponse {
	return &dto.ClassroomResponse{
		ID:        room.ClassroomID,
		Name:      room.Name,
		Type:      string(room.Type),
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt.Format(timestampLayout),
		UpdatedAt: room.UpdatedAt.Format(timestampLayout),
	}
}
