package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	word := env.seedApprovedWord(t, "seeder", "jugaad")

	rec := env.do(t, httptest.NewRequest(http.MethodPost, "/upvote/"+word.ID, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/user", rec.Header().Get("Location"))
}

func TestVoteUnknownWord(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "voter", "Priya", "priya@example.com", false)

	req := httptest.NewRequest(http.MethodPost, "/upvote/no-such-id", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	rec := env.do(t, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestVoteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "voter", "Priya", "priya@example.com", false)
	word := env.seedApprovedWord(t, "voter", "jugaad")

	post := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Accept", "application/json")
		req.AddCookie(cookie)
		return env.do(t, req)
	}

	rec := post("/upvote/" + word.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := env.words.GetByID(context.Background(), word.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)

	// Switch to a downvote.
	rec = post("/downvote/" + word.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err = env.words.GetByID(context.Background(), word.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
	assert.Equal(t, 1, got.Downvotes)

	// And undo it.
	rec = post("/undo_downvote/" + word.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err = env.words.GetByID(context.Background(), word.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Downvotes)
}

func TestVoteRedirectsBrowserBack(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "voter", "Priya", "priya@example.com", false)
	word := env.seedApprovedWord(t, "voter", "jugaad")

	req := httptest.NewRequest(http.MethodPost, "/upvote/"+word.ID, nil)
	req.AddCookie(cookie)
	req.AddCookie(&http.Cookie{Name: returnToCookie, Value: "/?page=3"})
	rec := env.do(t, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?page=3", rec.Header().Get("Location"))
}
