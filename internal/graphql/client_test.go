package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentcatalog/catalog-web/internal/catalog"
	"github.com/studentcatalog/catalog-web/internal/graphql/graphqltest"
	"github.com/studentcatalog/catalog-web/internal/notify"
	"github.com/studentcatalog/catalog-web/pkg/metrics"
)

type shown struct {
	message  string
	severity notify.Severity
}

type recordingNotifier struct{ calls []shown }

func (r *recordingNotifier) Show(message string, severity notify.Severity) {
	r.calls = append(r.calls, shown{message, severity})
}

var studentsDoc = Document{Operation: "Students", Query: `query Students { students { id name email courses { id name } } }`}

func TestRequest_ReturnsData(t *testing.T) {
	fake, url := graphqltest.Start(t)
	fake.SeedStudent("Ada Lovelace", "ada@example.com")
	n := &recordingNotifier{}

	data, err := NewClient(url, nil).Bind(n).Request(context.Background(), studentsDoc, nil)
	require.NoError(t, err)
	assert.Empty(t, n.calls)

	students, err := Decode[[]catalog.Student](data, "students")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, catalog.ID(1), students[0].ID)
	assert.Equal(t, "Ada Lovelace", students[0].Name)
	assert.Equal(t, "ada@example.com", students[0].Email)
	assert.Empty(t, students[0].Courses)
	assert.Equal(t, []string{"Students"}, fake.Operations())
}

func TestRequest_SendsEnvelopeAndEmptyVariables(t *testing.T) {
	var body map[string]json.RawMessage
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"students":[]}}`))
	}))
	defer ts.Close()

	data, err := NewClient(ts.URL, nil).Bind(nil).Request(context.Background(), studentsDoc, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"students":[]}`, string(data))

	assert.JSONEq(t, `{}`, string(body["variables"]))
	assert.JSONEq(t, `"Students"`, string(body["operationName"]))
	var q string
	require.NoError(t, json.Unmarshal(body["query"], &q))
	assert.Equal(t, studentsDoc.Query, q)
}

func TestRequest_ServerErrorSurfacesFirstMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"duplicate email"},{"message":"second"}]}`))
	}))
	defer ts.Close()
	n := &recordingNotifier{}

	before := testutil.ToFloat64(metrics.GraphQLRequests.WithLabelValues("AddStudent", "server_error"))
	_, err := NewClient(ts.URL, nil).Bind(n).Request(context.Background(),
		Document{Operation: "AddStudent", Query: "mutation AddStudent { addStudent(name: \"x\", email: \"y\") { student { id } } }"}, nil)

	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "duplicate email", se.Error())
	assert.Equal(t, []string{"duplicate email", "second"}, se.Messages)
	assert.Equal(t, "AddStudent", se.Operation)
	require.Equal(t, []shown{{"Error: duplicate email", notify.Error}}, n.calls)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.GraphQLRequests.WithLabelValues("AddStudent", "server_error")))
}

func TestRequest_ErrorEnvelopeWithBadStatus(t *testing.T) {
	fake, url := graphqltest.Start(t)
	fake.ErrorStatus = http.StatusBadRequest
	n := &recordingNotifier{}

	_, err := NewClient(url, nil).Bind(n).Request(context.Background(),
		Document{Operation: "UpdateCourse", Query: `mutation UpdateCourse($id: Int!, $name: String!) { updateCourse(id: $id, name: $name) { course { id name } } }`},
		Vars{"id": nil, "name": "Logic"})

	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), `"$id"`)
	require.Len(t, n.calls, 1)
	assert.Equal(t, notify.Error, n.calls[0].severity)
}

func TestRequest_TransportFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status without envelope": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(h)
			defer ts.Close()
			n := &recordingNotifier{}

			_, err := NewClient(ts.URL, nil).Bind(n).Request(context.Background(), studentsDoc, nil)
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "Students", te.Operation)
			require.Len(t, n.calls, 1)
			assert.Equal(t, "Error: "+te.Error(), n.calls[0].message)
		})
	}
}

func TestRequest_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	n := &recordingNotifier{}

	_, err := NewClient(url, nil).Bind(n).Request(context.Background(), studentsDoc, nil)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.NotNil(t, errors.Unwrap(te))
	require.Len(t, n.calls, 1)
}

func TestDecode(t *testing.T) {
	raw := json.RawMessage(`{"student":null,"students":[{"id":3,"name":"A","email":"a@x"}]}`)

	st, err := Decode[*catalog.Student](raw, "student")
	require.NoError(t, err)
	assert.Nil(t, st)

	list, err := Decode[[]catalog.Student](raw, "students")
	require.NoError(t, err)
	assert.Equal(t, []catalog.Student{{ID: 3, Name: "A", Email: "a@x"}}, list)

	missing, err := Decode[[]catalog.Course](raw, "courses")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = Decode[[]catalog.Course](json.RawMessage(`{"courses":"nope"}`), "courses")
	require.Error(t, err)

	zero, err := Decode[[]catalog.Course](nil, "courses")
	require.NoError(t, err)
	assert.Nil(t, zero)
}

func TestServerErrorDetail(t *testing.T) {
	e := &ServerError{Operation: "Students", Messages: []string{"a", "b"}}
	assert.Equal(t, "Students: [a b]", e.Detail())
	assert.Equal(t, "unknown server error", (&ServerError{}).Error())
}
