package api

import (
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"local date time", `"2024-03-01T10:20:30"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.Local)},
		{"array", `[2024,3,1,10,20,30]`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.Local)},
		{"short array", `[2024,3,1]`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestampNullAndGarbage(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestIDListDecodesNumbersAndObjects(t *testing.T) {
	var p Post
	body := `{"id":1,"likedBy":[3,{"id":4,"name":"x"}],"favoritedBy":[{"id":9}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, IDList{3, 4}, p.LikedBy)
	assert.True(t, p.FavoritedBy.Contains(9))
	assert.False(t, p.FavoritedBy.Contains(3))
}

func TestFavoritedByActorFallsBackToFlag(t *testing.T) {
	var p Post
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"isFavorited":true}`), &p))
	assert.Nil(t, p.FavoritedBy)
	assert.True(t, p.FavoritedByActor(7))

	p.FavoritedBy = IDList{}
	assert.False(t, p.FavoritedByActor(7))
}
