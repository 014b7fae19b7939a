package service

import (
	"database/sql/driver"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"

	"classroom-portal/internal/model"
)

// ── 测试夹具 ──

const (
	room101   = "room-101"
	room102   = "room-102"
	teacher7  = "teacher-7"
	teacher8  = "teacher-8"
	adminID   = "admin-1"
	studentID = "student-1"
	courseID  = "course-1"
	groupID   = "group-1"
)

var errUniqueViolation = &pgconn.PgError{Code: "23505"}

// 2025-06-01 是周日
var testToday = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// fakeNow 可手动推进的时钟
type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestClock() (Clock, *fakeNow) {
	fn := &fakeNow{t: testToday}
	return Clock{Now: fn.now, Location: time.UTC}, fn
}

func seedCatalog(r *testRepos) {
	r.classrooms.rooms[room101] = &model.Classroom{ClassroomID: room101, Name: "101", Type: model.ClassroomLecture}
	r.classrooms.rooms[room102] = &model.Classroom{ClassroomID: room102, Name: "102", Type: model.ClassroomComputerLab}
	r.courses.courses[courseID] = &model.Course{CourseID: courseID, Code: "MATH101", Name: "高等数学"}
	r.groups.groups[groupID] = &model.StudentGroup{GroupID: groupID, Name: "2025级1班"}
	r.users.users[adminID] = &model.User{UserID: adminID, Name: "管理员", Email: "admin@school.edu", Role: model.RoleAdmin}
	r.users.users[teacher7] = &model.User{UserID: teacher7, Name: "王老师", Email: "wang@school.edu", Role: model.RoleTeacher}
	r.users.users[teacher8] = &model.User{UserID: teacher8, Name: "李老师", Email: "li@school.edu", Role: model.RoleTeacher}
	r.users.users[studentID] = &model.User{UserID: studentID, Name: "张同学", Email: "zhang@school.edu", Role: model.RoleStudent}
	r.schedules.refs = r
}

func date(s string) time.Time {
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

// seedSchedule 直接写入一条课表
func seedSchedule(r *testRepos, id, classroomID, teacherID string, day int, start, end string) {
	r.schedules.items[id] = model.RecurringSchedule{
		ScheduleID:  id,
		ClassroomID: classroomID,
		CourseID:    courseID,
		TeacherID:   teacherID,
		GroupID:     groupID,
		DayOfWeek:   day,
		StartTime:   start + ":00",
		EndTime:     end + ":00",
	}
}

// seedReservation 直接写入一条预约
func seedReservation(r *testRepos, id, classroomID, day, start, end string, status model.RequestStatus, createdAt time.Time) {
	r.reservations.items[id] = model.Reservation{
		ReservationID:   id,
		ClassroomID:     classroomID,
		UserID:          studentID,
		Purpose:         "社团活动",
		ReservationDate: datatypes.Date(date(day)),
		StartTime:       start + ":00",
		EndTime:         end + ":00",
		Status:          status,
		CreatedAt:       createdAt,
	}
}

// seedMeeting 直接写入一条约见
func seedMeeting(r *testRepos, id, teacherID, day, start, end string, status model.RequestStatus) {
	r.meetings.items[id] = model.TeacherMeetingRequest{
		MeetingID:   id,
		TeacherID:   teacherID,
		StudentID:   studentID,
		MeetingDate: datatypes.Date(date(day)),
		StartTime:   start + ":00",
		EndTime:     end + ":00",
		Purpose:     "答疑",
		Status:      status,
		CreatedAt:   testToday,
	}
}

var errBadConn = driver.ErrBadConn
