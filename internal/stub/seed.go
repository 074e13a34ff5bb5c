package stub

import "github.com/uniport/uniport-portal/internal/models"

// DemoEmail and DemoPassword are the seeded development credentials.
const (
	DemoEmail    = "student@demo.edu"
	DemoPassword = "password123"
)

// Seed loads a demo account, catalog and academic records so the CLI can be
// pointed at the stub without any setup.
func Seed(store *Store) (*Account, error) {
	acct, err := store.AddAccount(DemoEmail, "Demo Student", DemoPassword)
	if err != nil {
		return nil, err
	}

	store.SetSemesters([]models.Semester{
		{ID: 1, Name: "1st Semester 2025-2026", Active: true},
		{ID: 2, Name: "2nd Semester 2025-2026"},
	})

	store.SetSections([]models.Section{
		{ScheduleID: 101, SubjectCode: "CS101", SubjectTitle: "Introduction to Computing", Section: "A", SemesterID: 1, CourseID: 11, Units: 3, SlotsRemaining: 25, Schedule: "MWF 08:00-09:00"},
		{ScheduleID: 102, SubjectCode: "CS101", SubjectTitle: "Introduction to Computing", Section: "B", SemesterID: 1, CourseID: 11, Units: 3, SlotsRemaining: 12, Schedule: "MWF 10:00-11:00"},
		{ScheduleID: 103, SubjectCode: "CS102", SubjectTitle: "Computer Programming 1", Section: "A", SemesterID: 1, CourseID: 12, Units: 3, SlotsRemaining: 30, Schedule: "TTh 08:00-09:30"},
		{ScheduleID: 104, SubjectCode: "MATH101", SubjectTitle: "College Algebra", Section: "A", SemesterID: 1, CourseID: 21, Units: 3, SlotsRemaining: 18, Schedule: "TTh 10:00-11:30"},
		{ScheduleID: 105, SubjectCode: "MATH102", SubjectTitle: "Trigonometry", Section: "A", SemesterID: 1, CourseID: 22, Units: 3, SlotsRemaining: 22, Schedule: "MWF 13:00-14:00"},
		{ScheduleID: 106, SubjectCode: "ENG101", SubjectTitle: "Communication Skills 1", Section: "A", SemesterID: 1, CourseID: 31, Units: 3, SlotsRemaining: 40, Schedule: "TTh 13:00-14:30"},
		{ScheduleID: 107, SubjectCode: "FIL101", SubjectTitle: "Komunikasyon sa Akademikong Filipino", Section: "A", SemesterID: 1, CourseID: 41, Units: 3, SlotsRemaining: 35, Schedule: "MWF 15:00-16:00"},
		{ScheduleID: 108, SubjectCode: "PE101", SubjectTitle: "Physical Fitness", Section: "A", SemesterID: 1, CourseID: 51, Units: 2, SlotsRemaining: 50, Schedule: "Sat 08:00-10:00"},
		{ScheduleID: 109, SubjectCode: "NSTP101", SubjectTitle: "National Service Training Program 1", Section: "A", SemesterID: 1, CourseID: 61, Units: 3, SlotsRemaining: 45, Schedule: "Sat 13:00-16:00"},
		{ScheduleID: 110, SubjectCode: "HIST101", SubjectTitle: "Readings in Philippine History", Section: "A", SemesterID: 1, CourseID: 71, Units: 3, SlotsRemaining: 28, Schedule: "TTh 15:00-16:30"},
	})

	store.SaveProfile(models.Profile{
		UserID:    acct.ID,
		FirstName: "Demo",
		LastName:  "Student",
		Email:     DemoEmail,
		Phone:     "09170000000",
		Address:   "University Town",
		Program:   "BS Computer Science",
		YearLevel: 1,
	})

	store.SetGrades(acct.ID, []models.GradeEntry{
		{SubjectCode: "GE101", SubjectTitle: "Understanding the Self", Units: 3, Grade: "1.75", Remarks: "Passed"},
		{SubjectCode: "GE102", SubjectTitle: "Purposive Communication", Units: 3, Grade: "2.00", Remarks: "Passed"},
	})

	store.SetSchedule(acct.ID, []models.ScheduleEntry{
		{SubjectCode: "GE101", Section: "A", Schedule: "MWF 09:00-10:00", Room: "RM204", Instructor: "A. Cruz"},
		{SubjectCode: "GE102", Section: "A", Schedule: "TTh 09:00-10:30", Room: "RM311", Instructor: "B. Reyes"},
	})

	return acct, nil
}
