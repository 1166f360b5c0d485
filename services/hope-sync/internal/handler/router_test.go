package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/handler"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/model"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/repository/repositorytest"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/usecase"
	"github.com/vasapolrittideah/hope-sync-api/shared/auth"
	"github.com/vasapolrittideah/hope-sync-api/shared/security"
)

type testServer struct {
	handler   http.Handler
	users     *repositorytest.UserRepository
	donations *repositorytest.DocumentRepository
	comments  *repositorytest.DocumentRepository
	jwtAuth   *auth.JWTAuthenticator
}

func newTestServer(t *testing.T, requireAuth bool) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	hasher, err := security.NewPasswordHasher(security.AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	s := &testServer{
		users:     repositorytest.NewUserRepository(),
		donations: repositorytest.NewDocumentRepository(),
		comments:  repositorytest.NewDocumentRepository(),
		jwtAuth:   auth.NewJWTAuthenticator("secret", "hope-sync", time.Hour),
	}

	s.handler = handler.NewRouter(handler.RouterParams{
		Logger:       &logger,
		AuthUsecase:  usecase.NewAuthUsecase(s.users, hasher, s.jwtAuth, nil, &logger),
		Donations:    usecase.NewDocumentUsecase(s.donations),
		Comments:     usecase.NewDocumentUsecase(s.comments),
		Testimonials: usecase.NewDocumentUsecase(repositorytest.NewDocumentRepository()),
		Volunteers:   usecase.NewDocumentUsecase(repositorytest.NewDocumentRepository()),
		RequireAuth:  requireAuth,
		Tokens:       s.jwtAuth,
		Now:          func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) },
	})

	return s
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out), "body: %s", rr.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"message":"Server is running smoothly","timestamp":"2024-05-01T09:30:00Z"}`, rr.Body.String())
	require.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRegisterThenDuplicate(t *testing.T) {
	s := newTestServer(t, false)
	body := `{"name":"Ada","email":"ada@example.com","password":"hunter2"}`

	rr := s.do(t, http.MethodPost, "/api/v1/register", body)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.JSONEq(t, `{"success":true,"message":"User registered successfully"}`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/v1/register", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"success":false,"message":"User already exists"}`, rr.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "no body", body: "", wantMessage: "request body must be a JSON object"},
		{name: "not json", body: "name=ada", wantMessage: "request body must be a JSON object"},
		{name: "missing email", body: `{"name":"Ada","password":"x"}`, wantMessage: "email is a required field"},
		{name: "missing all", body: `{}`, wantMessage: "name is a required field, email is a required field, password is a required field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/api/v1/register", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, tt.wantMessage, decode[map[string]any](t, rr)["message"])
		})
	}
}

func TestRegisterDatabaseFailure(t *testing.T) {
	s := newTestServer(t, false)
	s.users.Err = errors.New("connection reset")

	rr := s.do(t, http.MethodPost, "/api/v1/register", `{"name":"Ada","email":"ada@example.com","password":"x"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "connection reset")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, false)
	rr := s.do(t, http.MethodPost, "/api/v1/register", `{"name":"Ada","email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("unknown email", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/v1/login", `{"email":"nobody@example.com","password":"hunter2"}`)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.JSONEq(t, `{"message":"Invalid email or password"}`, rr.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/v1/login", `{"email":"ada@example.com","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.JSONEq(t, `{"message":"Invalid email or password"}`, rr.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/v1/login", `{"email":"ada@example.com","password":"hunter2"}`)
		require.Equal(t, http.StatusOK, rr.Code)

		body := decode[map[string]any](t, rr)
		require.Equal(t, true, body["success"])
		require.Equal(t, "Login successful", body["message"])

		token, ok := body["token"].(string)
		require.True(t, ok)
		claims, err := s.jwtAuth.ValidateToken(token)
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", claims.Email)
	})
}

func TestDonationLifecycle(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodGet, "/api/v1/donation", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/v1/donation", `{"title":"School supplies","amount":20,"category":"education"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	inserted := decode[map[string]any](t, rr)
	require.Equal(t, true, inserted["acknowledged"])
	id, ok := inserted["insertedId"].(string)
	require.True(t, ok)

	rr = s.do(t, http.MethodGet, "/api/v1/donation/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"_id":"`+id+`","title":"School supplies","amount":20,"category":"education"}`, rr.Body.String())

	rr = s.do(t, http.MethodPut, "/api/v1/update-donation/"+id, `{"amount":50}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedCount":0,"upsertedId":null}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/v1/donation/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"_id":"`+id+`","title":"School supplies","amount":50,"category":"education"}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/v1/donation", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, decode[[]map[string]any](t, rr), 1)

	rr = s.do(t, http.MethodDelete, "/api/v1/delete-donation/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/v1/donation/"+id, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDonationNumbersKeepDriverTypes(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodPost, "/api/v1/donation",
		`{"amount":50,"rate":2.5,"whole":3.0,"big":3000000000,"meta":{"count":2},"history":[1,1.5]}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id, err := model.ParseID(decode[map[string]any](t, rr)["insertedId"].(string))
	require.NoError(t, err)

	stored, err := s.donations.GetDocument(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int32(50), stored["amount"])
	require.Equal(t, 2.5, stored["rate"])
	require.Equal(t, int32(3), stored["whole"])
	require.Equal(t, float64(3000000000), stored["big"])
	require.Equal(t, map[string]any{"count": int32(2)}, stored["meta"])
	require.Equal(t, []any{int32(1), 1.5}, stored["history"])

	rr = s.do(t, http.MethodPut, "/api/v1/update-donation/"+id.String(), `{"amount":75}`)
	require.Equal(t, http.StatusOK, rr.Code)

	stored, err = s.donations.GetDocument(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int32(75), stored["amount"])
}

func TestDonationListWithUnencodableValue(t *testing.T) {
	s := newTestServer(t, false)
	_, err := s.donations.InsertDocument(context.Background(), model.Document{"amount": math.NaN()})
	require.NoError(t, err)

	rr := s.do(t, http.MethodGet, "/api/v1/donation", "")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"message":"failed to encode response"}`, rr.Body.String())
}

func TestDeleteUnknownDonation(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodDelete, "/api/v1/delete-donation/"+model.NewID().String(), "")

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, rr.Body.String())
}

func TestDonationRejectsInvalidIdentifier(t *testing.T) {
	s := newTestServer(t, false)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/donation/not-an-id", ""},
		{http.MethodPut, "/api/v1/update-donation/not-an-id", `{"amount":1}`},
		{http.MethodDelete, "/api/v1/delete-donation/not-an-id", ""},
	} {
		rr := s.do(t, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusBadRequest, rr.Code, "%s %s", tc.method, tc.path)
		require.Contains(t, rr.Body.String(), "invalid identifier")
	}
}

func TestDonationRejectsMissingBody(t *testing.T) {
	s := newTestServer(t, false)

	for _, body := range []string{"", "null", "[1,2]", "{}", `{"_id":"abc"}`} {
		rr := s.do(t, http.MethodPost, "/api/v1/donation", body)
		require.Equal(t, http.StatusBadRequest, rr.Code, "body %q", body)
		require.JSONEq(t, `{"message":"invalid new donation"}`, rr.Body.String())
	}

	rr := s.do(t, http.MethodPut, "/api/v1/update-donation/"+model.NewID().String(), "{}")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"message":"invalid donation update"}`, rr.Body.String())
}

func TestDonationDatabaseFailure(t *testing.T) {
	s := newTestServer(t, false)
	s.donations.Err = errors.New("server selection timeout")

	rr := s.do(t, http.MethodGet, "/api/v1/donation", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/donation", `{"amount":1}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"message":"Failed to create a new donation"}`, rr.Body.String())
}

func TestCollectionListsAnswerNotFoundWhenEmpty(t *testing.T) {
	s := newTestServer(t, false)

	for _, name := range []string{"comments", "testimonials", "volunteers"} {
		rr := s.do(t, http.MethodGet, "/api/v1/"+name, "")
		require.Equal(t, http.StatusNotFound, rr.Code, name)
		require.JSONEq(t, `{"message":"No `+name+` found"}`, rr.Body.String())
	}
}

func TestCommentsCreateAndList(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodPost, "/api/v1/comments", `{"author":"Ada","text":"Great cause"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/comments", "")
	require.Equal(t, http.StatusOK, rr.Code)
	comments := decode[[]map[string]any](t, rr)
	require.Len(t, comments, 1)
	require.Equal(t, "Great cause", comments[0]["text"])
}

func TestRequireAuthGuardsWrites(t *testing.T) {
	s := newTestServer(t, true)

	rr := s.do(t, http.MethodPost, "/api/v1/donation", `{"amount":10}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/volunteers", `{"name":"Ada"}`, "Authorization", "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Reads and the auth routes stay open.
	rr = s.do(t, http.MethodGet, "/api/v1/donation", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/register", `{"name":"Ada","email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/login", `{"email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	token := decode[map[string]any](t, rr)["token"].(string)

	rr = s.do(t, http.MethodPost, "/api/v1/donation", `{"amount":10}`, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodGet, "/api/v2/donation", "")

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"message":"Not found"}`, rr.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodOptions, "/api/v1/donation", "",
		"Origin", "https://hope-sync.example",
		"Access-Control-Request-Method", http.MethodPost,
	)

	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
