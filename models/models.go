package models

// Roles determine the visible portal surface and which identifier field a
// user record carries.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

// Weekdays covered by class timetables. Sunday is excluded.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// User document. Exactly one of StudentID/TeacherID/ParentID is set,
// matching Role (none for admins). The password hash is handled at the
// store boundary and never serialized through this struct.
type User struct {
	ID             string `json:"id,omitempty"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	StudentID      string `json:"studentId,omitempty"`
	TeacherID      string `json:"teacherId,omitempty"`
	ParentID       string `json:"parentId,omitempty"`
	ClassID        string `json:"classId,omitempty"`
	ChildEmail     string `json:"childEmail,omitempty"`
	ChildStudentID string `json:"childStudentId,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// RoleID returns the human-readable sequential identifier (e.g. STU-7),
// whichever role field is set.
func (u User) RoleID() string {
	switch {
	case u.StudentID != "":
		return u.StudentID
	case u.TeacherID != "":
		return u.TeacherID
	case u.ParentID != "":
		return u.ParentID
	}
	return ""
}

// SchoolClass document. Name is derived from standard and section and is
// recomputed whenever either changes.
type SchoolClass struct {
	ID        string `json:"id,omitempty"`
	Standard  string `json:"standard"`
	Section   string `json:"section"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ClassName derives the display name for a class.
func ClassName(standard, section string) string {
	return standard + " - " + section
}

// LessonSlot is one entry in a day's schedule. TeacherName is a snapshot
// taken at write time; it is not refreshed when the teacher is renamed.
type LessonSlot struct {
	ID          string `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Subject     string `json:"subject"`
	TeacherID   string `json:"teacherId"`
	TeacherName string `json:"teacherName"`
}

// Timetable document, one per class (document id == class id), created
// lazily on the first entry. Each day's slice is kept sorted by StartTime;
// "HH:MM" zero-padded strings make plain string comparison correct.
type Timetable struct {
	ID        string                  `json:"id,omitempty"`
	ClassID   string                  `json:"classId"`
	ClassName string                  `json:"className"`
	Schedule  map[string][]LessonSlot `json:"schedule"`
	UpdatedAt string                  `json:"updatedAt,omitempty"`
}

// Announcement document. Audience is "all" or one of the role plurals
// (students, teachers, parents).
type Announcement struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Audience   string `json:"audience"`
	AuthorID   string `json:"authorId,omitempty"`
	AuthorName string `json:"authorName,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// Assignment document. FileData carries the inline base64 payload when a
// file was attached; IsBase64 marks its presence.
type Assignment struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate"`
	ClassID     string `json:"classId"`
	TeacherID   string `json:"teacherId"`
	FileName    string `json:"fileName,omitempty"`
	FileType    string `json:"fileType,omitempty"`
	FileData    string `json:"fileData,omitempty"`
	IsBase64    bool   `json:"isBase64"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type Submission struct {
	ID           string `json:"id,omitempty"`
	AssignmentID string `json:"assignmentId"`
	StudentID    string `json:"studentId"`
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType,omitempty"`
	FileData     string `json:"fileData"`
	IsBase64     bool   `json:"isBase64"`
	Status       string `json:"status"`
	SubmittedAt  string `json:"submittedAt"`
}

// Attendance records one student's presence for a class on a date
// ("YYYY-MM-DD"). Marking is rejected when records for the same class and
// date already exist.
type Attendance struct {
	ID        string `json:"id,omitempty"`
	StudentID string `json:"studentId"`
	ClassID   string `json:"classId"`
	TeacherID string `json:"teacherId"`
	Date      string `json:"date"`
	Present   bool   `json:"present"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type Mark struct {
	ID         string  `json:"id,omitempty"`
	StudentID  string  `json:"studentId"`
	ClassID    string  `json:"classId"`
	TeacherID  string  `json:"teacherId"`
	Subject    string  `json:"subject"`
	ExamType   string  `json:"examType"`
	Marks      float64 `json:"marks"`
	TotalMarks float64 `json:"totalMarks"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

// ActivityLog entry for audit trails. Buffered through Redis and flushed
// to the store on a schedule.
type ActivityLog struct {
	ID         string `json:"id,omitempty"`
	UserID     string `json:"userId"`
	Action     string `json:"action"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resourceId,omitempty"`
	IPAddress  string `json:"ipAddress,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`
	CreatedAt  string `json:"createdAt"`
}
