package session

import (
	"sync/atomic"
	"testing"

	json "github.com/json-iterator/go"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  int64
		wantErr bool
	}{
		{"numeric id", `{"id": 42, "name": "Ada"}`, 42, false},
		{"string sub", `{"sub": "7", "email": "a@b.c"}`, 7, false},
		{"id wins over sub", `{"id": 3, "sub": "9"}`, 3, false},
		{"non-numeric sub", `{"sub": "google-oauth2|abc"}`, 0, true},
		{"zero id falls back to sub", `{"id": 0, "sub": "5"}`, 5, false},
		{"empty payload", `{}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Principal
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &p))

			actor, err := Normalize(p)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, clierrors.Is(err, clierrors.ErrorTypeUnauthenticated))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, actor.ID)
		})
	}
}

func TestNormalizeKeepsProfileFields(t *testing.T) {
	actor, err := Normalize(Principal{ID: "12", Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)
	assert.Equal(t, Actor{ID: 12, Name: "Grace", Email: "grace@example.com"}, actor)
}

func TestSessionLifecycle(t *testing.T) {
	s := New()

	_, ok := s.CurrentActor()
	assert.False(t, ok)

	s.SignIn(Actor{ID: 42, Name: "Ada"})
	id, ok := s.CurrentActor()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	actor, ok := s.Actor()
	require.True(t, ok)
	assert.Equal(t, "Ada", actor.Name)

	s.SignOut()
	_, ok = s.CurrentActor()
	assert.False(t, ok)
}

func TestInvalidateRunsHandlers(t *testing.T) {
	s := New()
	s.SignIn(Actor{ID: 1})

	var first, second int32
	s.OnUnauthenticated(func() { atomic.AddInt32(&first, 1) })
	unsubscribe := s.OnUnauthenticated(func() { atomic.AddInt32(&second, 1) })

	s.Invalidate()
	assert.Equal(t, int32(1), atomic.LoadInt32(&first))
	assert.Equal(t, int32(1), atomic.LoadInt32(&second))

	_, ok := s.CurrentActor()
	assert.False(t, ok)

	unsubscribe()
	s.Invalidate()
	assert.Equal(t, int32(2), atomic.LoadInt32(&first))
	assert.Equal(t, int32(1), atomic.LoadInt32(&second))
}

func TestHandlerMayReenterSession(t *testing.T) {
	s := New()
	s.SignIn(Actor{ID: 1})

	s.OnUnauthenticated(func() {
		_, ok := s.CurrentActor()
		assert.False(t, ok)
	})

	assert.NotPanics(t, s.Invalidate)
}
