package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniport/uniport-portal/internal/models"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, staticToken(token), zap.NewNop())
}

func TestLoginRejectsBadCredentialsBeforeNetwork(t *testing.T) {
	var hits int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}), "")

	for _, tc := range []struct {
		name, email, password string
	}{
		{"empty credentials", "", ""},
		{"missing password", "a@b.edu", ""},
		{"short password", "a@b.edu", "abc"},
		{"malformed email", "not-an-email", "secret123"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Login(context.Background(), tc.email, tc.password)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
		})
	}
	assert.Zero(t, hits)
}

func TestSaveProfileRejectsIncompletePayloadBeforeNetwork(t *testing.T) {
	var hits int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}), "tok")

	err := client.SaveProfile(context.Background(), models.ProfileUpdateRequest{UserID: 42, FirstName: "Ana"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	err = client.CreatePreregistration(context.Background(), models.CreatePreregRequest{UserID: 42, SemesterID: 1})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	assert.Zero(t, hits)
}

func TestLoginSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"token":"tok-123","user":{"user_id":42,"email":"a@b.edu"}}`))
	}), "")

	result, err := client.Login(context.Background(), "a@b.edu", "secret")
	require.NoError(t, err)
	assert.Equal(t, 42, result.UserID)
	assert.Equal(t, "tok-123", result.Token)
}

func TestLoginRejectedSurfacesServerMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"account locked"}`))
	}), "")

	_, err := client.Login(context.Background(), "a@b.edu", "wrong-pass")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
	assert.Contains(t, err.Error(), "account locked")
}

func TestLoginEmptyTokenIsRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"token":""}`))
	}), "")

	_, err := client.Login(context.Background(), "a@b.edu", "secret")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestListSectionsSendsQueryAndBearer(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prereg/all-subjects", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		q := r.URL.Query()
		assert.Equal(t, "calculus", q.Get("search"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("per_page"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"schedId":7,"subject_code":"MATH101","subject_title":"Calculus I","units":3}],"meta":{"current_page":2,"per_page":10,"last_page":3,"total":25}}`))
	}), "tok-abc")

	sections, meta, err := client.ListSections(context.Background(), models.SectionQuery{Search: "calculus", Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	require.Len(t, sections, 1)
	assert.Equal(t, 7, sections[0].ScheduleID)
	assert.Equal(t, "MATH101", sections[0].SubjectCode)
	require.NotNil(t, meta)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 25, meta.Total)
}

func TestListSectionsDefaultsMissingMeta(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"schedId":1},{"schedId":2}]}`))
	}), "")

	_, meta, err := client.ListSections(context.Background(), models.SectionQuery{})
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 10, meta.PerPage)
	assert.Equal(t, 2, meta.Total)
}

func TestEnrollmentsDecodesBareArray(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/enrollments", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "42", q.Get("user_id"))
		assert.Equal(t, "3", q.Get("semester_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":9,"status":"pending"},{"id":10,"status":"approved"}]`))
	}), "tok")

	list, err := client.Enrollments(context.Background(), 42, 3)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 9, list[0].ID)
	assert.Equal(t, models.ApprovalPending, list[0].Status)
}

func TestEnrollmentsDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"id":11,"status":"rejected"}]}`))
	}), "tok")

	list, err := client.Enrollments(context.Background(), 42, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ApprovalRejected, list[0].Status)
}

func TestCancelEnrollmentSurfacesServerMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/enrollments/15", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"already approved"}`))
	}), "tok")

	err := client.CancelEnrollment(context.Background(), 15)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already approved")
}

func TestProfileNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), "tok")

	_, err := client.Profile(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSaveProfileFallsBackToCreate(t *testing.T) {
	var methods []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/applicant-profile", r.URL.Path)
		methods = append(methods, r.Method)
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"message":"created"}`))
	}), "tok")

	err := client.SaveProfile(context.Background(), models.ProfileUpdateRequest{
		UserID:    42,
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     "ana@demo.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPut, http.MethodPost}, methods)
}

func TestCreatePreregistrationDefaultsStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prereg/add", r.URL.Path)
		var body models.CreatePreregRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, models.PreregStatusPending, body.Status)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true}`))
	}), "tok")

	err := client.CreatePreregistration(context.Background(), models.CreatePreregRequest{
		UserID:     42,
		ScheduleID: 7,
		SemesterID: 3,
		CourseID:   70,
	})
	require.NoError(t, err)
}
