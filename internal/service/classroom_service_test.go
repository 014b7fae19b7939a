package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"classroom-portal/internal/dto"
)

func setupTestClassroomService() (ClassroomService, *testRepos) {
	repos := newTestRepos()
	seedCatalog(repos)
	return NewClassroomService(repos.toRepository(), zap.NewNop()), repos
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func TestClassroomService_Create(t *testing.T) {
	svc, repos := setupTestClassroomService()

	room, err := svc.Create(context.Background(), &dto.CreateClassroomRequest{Name: "203", Type: "laboratory", Capacity: intPtr(40)}, adminID)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if room.Type != "laboratory" || room.Capacity == nil || *room.Capacity != 40 {
		t.Errorf("返回内容不符: %+v", room)
	}
	stored := repos.classrooms.rooms[room.ID]
	if stored.CreatedBy == nil || *stored.CreatedBy != adminID {
		t.Error("应记录创建人")
	}

	if _, err := svc.Create(context.Background(), &dto.CreateClassroomRequest{Name: "101", Type: "lecture"}, adminID); !errors.Is(err, ErrClassroomNameExists) {
		t.Errorf("重名应返回 ErrClassroomNameExists，实际: %v", err)
	}
	if _, err := svc.Create(context.Background(), &dto.CreateClassroomRequest{Name: "204", Type: "gym"}, adminID); !errors.Is(err, ErrInvalidClassroom) {
		t.Errorf("未知类型应返回 ErrInvalidClassroom，实际: %v", err)
	}
}

func TestClassroomService_GetListUpdate(t *testing.T) {
	svc, _ := setupTestClassroomService()

	if _, err := svc.GetByID(context.Background(), "room-missing"); !errors.Is(err, ErrClassroomNotFound) {
		t.Errorf("期望 ErrClassroomNotFound，实际: %v", err)
	}

	labs, err := svc.List(context.Background(), &dto.ClassroomListRequest{Type: "computer_lab"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(labs) != 1 || labs[0].ID != room102 {
		t.Errorf("期望仅 room-102，实际 %+v", labs)
	}

	updated, err := svc.Update(context.Background(), room101, &dto.UpdateClassroomRequest{Capacity: intPtr(120)}, adminID)
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Name != "101" || *updated.Capacity != 120 {
		t.Errorf("未传字段应保持不变: %+v", updated)
	}
	if _, err := svc.Update(context.Background(), room101, &dto.UpdateClassroomRequest{Type: strPtr("gym")}, adminID); !errors.Is(err, ErrInvalidClassroom) {
		t.Errorf("期望 ErrInvalidClassroom，实际: %v", err)
	}
}

func TestClassroomService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *testRepos)
		id      string
		wantErr error
	}{
		{"无引用可删除", func(r *testRepos) {}, room102, nil},
		{"被课表引用", func(r *testRepos) { r.classrooms.scheduleRefs[room101] = 1 }, room101, ErrClassroomInUse},
		{"被有效预约引用", func(r *testRepos) { r.classrooms.reservationRefs[room101] = 2 }, room101, ErrClassroomInUse},
		{"历史预约触发外键", func(r *testRepos) { r.classrooms.deleteErr = &pgconn.PgError{Code: "23503"} }, room101, ErrClassroomInUse},
		{"不存在", func(r *testRepos) {}, "room-missing", ErrClassroomNotFound},
		{"存储不可用", func(r *testRepos) { r.classrooms.deleteErr = errBadConn }, room101, ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos := setupTestClassroomService()
			tt.setup(repos)

			err := svc.Delete(context.Background(), tt.id)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Delete 应成功: %v", err)
				}
				if _, ok := repos.classrooms.rooms[tt.id]; ok {
					t.Error("教室应已删除")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
			if tt.id == room101 {
				if _, ok := repos.classrooms.rooms[room101]; !ok {
					t.Error("拒绝删除时教室应保留")
				}
			}
		})
	}
}
