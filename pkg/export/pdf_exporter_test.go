package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniport/uniport-portal/internal/models"
)

func TestRegistrationFormPDF(t *testing.T) {
	form := &models.RegistrationForm{
		UserID:     42,
		SemesterID: 1,
		Semester:   "1st Semester 2025-2026",
		Program:    "BS Computer Science",
		Courses: []models.Enrollment{
			{SubjectCode: "CS101", SubjectTitle: "Introduction to Computing", Section: "A", Units: 3, Status: models.ApprovalPending},
			{SubjectCode: "MATH101", SubjectTitle: "College Algebra", Section: "A", Units: 3, Status: models.ApprovalApproved},
		},
		TotalUnits: 6,
	}

	data, err := RegistrationFormPDF(form)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRegistrationFormPDFEmptyForm(t *testing.T) {
	data, err := RegistrationFormPDF(&models.RegistrationForm{Semester: "1st Semester"})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRegistrationFormPDFNilForm(t *testing.T) {
	_, err := RegistrationFormPDF(nil)
	require.Error(t, err)
}
