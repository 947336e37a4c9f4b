package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	return NewClient(config.SMSConfig{
		AccountSID: "AC123",
		AuthToken:  "token456",
		FromNumber: "+19016574402",
		APIBaseURL: serverURL,
	})
}

func TestSendSuccess(t *testing.T) {
	var gotForm map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/AC123/Messages.json", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token456", pass)

		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"To":   r.PostForm.Get("To"),
			"From": r.PostForm.Get("From"),
			"Body": r.PostForm.Get("Body"),
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM001","status":"queued"}`))
	}))
	defer ts.Close()

	sid, err := testClient(ts.URL).Send(context.Background(), "+15550002222", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "SM001", sid)
	assert.Equal(t, "+15550002222", gotForm["To"])
	assert.Equal(t, "+19016574402", gotForm["From"])
	assert.Equal(t, "hello", gotForm["Body"])
}

func TestSendWithMediaURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://example.com/uploads/pic.jpg", r.PostForm.Get("MediaUrl"))
		w.Write([]byte(`{"sid":"SM002"}`))
	}))
	defer ts.Close()

	sid, err := testClient(ts.URL).Send(context.Background(), "+15550002222", "pic", "https://example.com/uploads/pic.jpg")
	require.NoError(t, err)
	assert.Equal(t, "SM002", sid)
}

func TestSendProviderRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"The 'To' number is not a valid phone number.","code":21211}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Send(context.Background(), "nonsense", "hi", "")
	require.Error(t, err)
	var dErr *domain.DeliveryError
	require.ErrorAs(t, err, &dErr)
	assert.Contains(t, dErr.Detail, "not a valid phone number")
}

func TestListSent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/AC123/Messages.json", r.URL.Path)
		assert.Equal(t, "+19016574402", r.URL.Query().Get("From"))
		assert.Equal(t, "20", r.URL.Query().Get("PageSize"))

		w.Write([]byte(`{"messages":[
			{"sid":"SM010","to":"+15550002222","from":"+19016574402","body":"newest","date_sent":"Mon, 02 Jan 2006 15:04:05 +0000","status":"delivered"},
			{"sid":"SM009","to":"+15550003333","from":"+19016574402","body":"older","date_sent":"Sun, 01 Jan 2006 10:00:00 +0000","status":"sent"}
		]}`))
	}))
	defer ts.Close()

	msgs, err := testClient(ts.URL).ListSent(context.Background(), "+19016574402", 20)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "SM010", msgs[0].ID)
	assert.Equal(t, "+15550002222", msgs[0].To)
	assert.Equal(t, "newest", msgs[0].Body)
	assert.Equal(t, "delivered", msgs[0].Status)
	assert.Equal(t, time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC), msgs[0].SentAt.UTC())
	assert.Equal(t, "SM009", msgs[1].ID)
}

func TestListSentDefaultsLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("PageSize"))
		w.Write([]byte(`{"messages":[]}`))
	}))
	defer ts.Close()

	msgs, err := testClient(ts.URL).ListSent(context.Background(), "+19016574402", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestListSentProviderFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Authentication Error"}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).ListSent(context.Background(), "+19016574402", 20)
	require.Error(t, err)
	var qErr *domain.ProviderQueryError
	require.ErrorAs(t, err, &qErr)
	assert.Contains(t, qErr.Detail, "Authentication Error")
}
