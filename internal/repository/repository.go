package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User        UserRepository
	Classroom   ClassroomRepository
	Course      CourseRepository
	Group       GroupRepository
	Schedule    ScheduleRepository
	Reservation ReservationRepository
	Meeting     MeetingRepository
	Locker      Locker
	Tx          TxManager
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Classroom:   NewClassroomRepo(db),
		Course:      NewCourseRepo(db),
		Group:       NewGroupRepo(db),
		Schedule:    NewScheduleRepo(db),
		Reservation: NewReservationRepo(db),
		Meeting:     NewMeetingRepo(db),
		Locker:      NewAdvisoryLocker(db),
		Tx:          NewTxManager(db),
	}
}

// ── 事务 ──

// TxManager 在单个数据库事务中执行 fn，fn 返回错误时整体回滚
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager 创建基于 GORM 的事务管理器
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepository(tx))
	})
}

// ── 资源锁 ──

// Locker 资源级互斥锁，锁随所在事务提交或回滚自动释放
type Locker interface {
	Lock(ctx context.Context, key string) error
}

type advisoryLocker struct {
	db *gorm.DB
}

// NewAdvisoryLocker 基于 pg_advisory_xact_lock 的实现
// 必须在 TxManager.WithTx 提供的事务内调用，否则语句结束即释放
func NewAdvisoryLocker(db *gorm.DB) Locker {
	return &advisoryLocker{db: db}
}

func (l *advisoryLocker) Lock(ctx context.Context, key string) error {
	return l.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
