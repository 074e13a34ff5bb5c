package stub

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniport/uniport-portal/internal/models"
	"github.com/uniport/uniport-portal/internal/portal"
	"github.com/uniport/uniport-portal/internal/session"
	"github.com/uniport/uniport-portal/internal/workflow"
	"github.com/uniport/uniport-portal/pkg/config"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

type bearerToken struct{ token string }

func (b *bearerToken) Token() string { return b.token }

// startStub boots a seeded stub server and returns a portal client pointed at
// it plus the demo account.
func startStub(t *testing.T) (*portal.Client, *bearerToken, *Account, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewStore()
	acct, err := Seed(store)
	require.NoError(t, err)

	cfg := config.StubConfig{
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
	}
	srv := httptest.NewServer(NewRouter(store, cfg, zap.NewNop()))
	t.Cleanup(srv.Close)

	tokens := &bearerToken{}
	client := portal.New(srv.URL, 5*time.Second, tokens, zap.NewNop())
	return client, tokens, acct, store
}

func login(t *testing.T, client *portal.Client, tokens *bearerToken) *portal.LoginResult {
	t.Helper()
	result, err := client.Login(context.Background(), DemoEmail, DemoPassword)
	require.NoError(t, err)
	tokens.token = result.Token
	return result
}

func TestLoginAgainstStub(t *testing.T) {
	client, tokens, acct, _ := startStub(t)

	result := login(t, client, tokens)
	assert.Equal(t, acct.ID, result.UserID)
	assert.NotEmpty(t, result.Token)
}

func TestLoginWrongPasswordAgainstStub(t *testing.T) {
	client, _, _, _ := startStub(t)

	_, err := client.Login(context.Background(), DemoEmail, "wrongpass")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	client, _, _, _ := startStub(t)

	_, _, err := client.ListSections(context.Background(), models.SectionQuery{})
	require.Error(t, err)
}

func TestCatalogSearchAndPagination(t *testing.T) {
	client, tokens, _, _ := startStub(t)
	login(t, client, tokens)

	sections, meta, err := client.ListSections(context.Background(), models.SectionQuery{Page: 1, PerPage: 4})
	require.NoError(t, err)
	assert.Len(t, sections, 4)
	assert.Equal(t, 10, meta.Total)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 4, meta.DisplayedCount())

	last, meta, err := client.ListSections(context.Background(), models.SectionQuery{Page: 3, PerPage: 4})
	require.NoError(t, err)
	assert.Len(t, last, 2)
	assert.Equal(t, 2, meta.DisplayedCount())

	math, meta, err := client.ListSections(context.Background(), models.SectionQuery{Search: "math", PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, math, 2)
	assert.Equal(t, 2, meta.Total)
	for _, sec := range math {
		assert.Contains(t, sec.SubjectCode, "MATH")
	}
}

func TestPreregWorkflowEndToEnd(t *testing.T) {
	client, tokens, acct, _ := startStub(t)
	result := login(t, client, tokens)

	sess := &session.Session{UserID: result.UserID, Token: result.Token}
	svc := workflow.NewPreregService(client, sess, workflow.PreregConfig{PerPage: 10}, zap.NewNop())

	svc.Search(context.Background(), "")
	catalog, _ := svc.Catalog()
	require.NotEmpty(t, catalog)

	require.NoError(t, svc.AddCourse(catalog[0]))
	require.NoError(t, svc.AddCourse(catalog[1]))
	err := svc.AddCourse(catalog[0])
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateCourse))

	report := svc.SubmitAll(context.Background())
	assert.True(t, report.AllSucceeded())
	assert.Empty(t, svc.Pending())

	preregs, err := client.UserPreregistrations(context.Background(), acct.ID)
	require.NoError(t, err)
	require.Len(t, preregs, 2)
	assert.Equal(t, models.PreregStatusPending, preregs[0].Status)

	// The server also refuses a duplicate for an already preregistered
	// schedule, independent of the client-side guard.
	dupErr := client.CreatePreregistration(context.Background(), models.CreatePreregRequest{
		UserID:     acct.ID,
		SemesterID: catalog[0].SemesterID,
		CourseID:   catalog[0].CourseID,
		ScheduleID: catalog[0].ScheduleID,
	})
	require.Error(t, dupErr)
}

func TestEnrollAndCancelEndToEnd(t *testing.T) {
	client, tokens, acct, store := startStub(t)
	result := login(t, client, tokens)

	sess := &session.Session{UserID: result.UserID, Token: result.Token}
	prereg := workflow.NewPreregService(client, sess, workflow.PreregConfig{PerPage: 10}, zap.NewNop())
	prereg.Search(context.Background(), "")
	catalog, _ := prereg.Catalog()
	require.NoError(t, prereg.AddCourse(catalog[0]))
	require.True(t, prereg.SubmitAll(context.Background()).AllSucceeded())

	enroll := workflow.NewEnrollmentService(client, sess, zap.NewNop())
	enroll.RefreshPreregistered(context.Background())
	pre := enroll.Preregistered()
	require.Len(t, pre, 1)

	require.NoError(t, enroll.Enroll(context.Background(), pre[0]))
	assert.Empty(t, enroll.Preregistered())

	enrolled := enroll.Enrolled()
	require.Len(t, enrolled, 1)
	assert.Equal(t, models.ApprovalPending, enrolled[0].Status)
	assert.True(t, enrolled[0].CanCancel())

	require.NoError(t, enroll.Cancel(context.Background(), enrolled[0]))
	assert.Empty(t, enroll.Enrolled())

	// Re-submit, enroll again, then approve server-side; an approved
	// enrollment can no longer be cancelled.
	require.NoError(t, prereg.AddCourse(catalog[0]))
	require.True(t, prereg.SubmitAll(context.Background()).AllSucceeded())
	enroll.RefreshPreregistered(context.Background())
	pre = enroll.Preregistered()
	require.Len(t, pre, 1)
	require.NoError(t, enroll.Enroll(context.Background(), pre[0]))

	enrolled = enroll.Enrolled()
	require.Len(t, enrolled, 1)
	require.NoError(t, store.SetEnrollmentStatus(enrolled[0].ID, models.ApprovalApproved))

	enroll.RefreshEnrolled(context.Background(), catalog[0].SemesterID)
	enrolled = enroll.Enrolled()
	require.Len(t, enrolled, 1)
	err := enroll.Cancel(context.Background(), enrolled[0])
	assert.True(t, appErrors.Is(err, appErrors.ErrNotPending))

	// Even hitting the endpoint directly, the stub refuses.
	require.Error(t, client.CancelEnrollment(context.Background(), enrolled[0].ID))

	preregs, err := client.UserPreregistrations(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Empty(t, preregs)
}

func TestAcademicReadsAgainstStub(t *testing.T) {
	client, tokens, acct, _ := startStub(t)
	login(t, client, tokens)

	semesters, err := client.Semesters(context.Background())
	require.NoError(t, err)
	require.Len(t, semesters, 2)
	assert.True(t, semesters[0].Active)

	grades, err := client.Grades(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Len(t, grades, 2)

	schedule, err := client.SubjectsSchedule(context.Background(), acct.ID, semesters[0].ID)
	require.NoError(t, err)
	assert.Len(t, schedule, 2)

	form, err := client.RegistrationForm(context.Background(), acct.ID, semesters[0].ID)
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.Equal(t, acct.ID, form.UserID)
}

func TestProfileLifecycleAgainstStub(t *testing.T) {
	client, tokens, acct, store := startStub(t)
	login(t, client, tokens)

	profile, err := client.Profile(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demo", profile.FirstName)

	update := models.ProfileUpdateRequest{
		UserID:    acct.ID,
		FirstName: "Updated",
		LastName:  "Student",
		Email:     DemoEmail,
		Phone:     "09179999999",
	}
	require.NoError(t, client.SaveProfile(context.Background(), update))

	profile, err = client.Profile(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", profile.FirstName)
	assert.Equal(t, "09179999999", profile.Phone)

	// A second account has no profile yet; the update path falls back to a
	// create instead of failing.
	other, err := store.AddAccount("new@demo.edu", "New Student", "pw123456")
	require.NoError(t, err)

	_, err = client.Profile(context.Background(), other.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	require.NoError(t, client.SaveProfile(context.Background(), models.ProfileUpdateRequest{
		UserID:    other.ID,
		FirstName: "New",
		LastName:  "Student",
		Email:     "new@demo.edu",
	}))

	created, err := client.Profile(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", created.FirstName)
}
