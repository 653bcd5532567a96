package fetch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"P1234"`, "P1234"},
		{`1234`, "1234"},
		{`1234567890123456789`, "1234567890123456789"},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tc := range cases {
		var id FlexID
		require.NoError(t, json.Unmarshal([]byte(tc.in), &id), "input %s", tc.in)
		assert.Equal(t, tc.want, id.String(), "input %s", tc.in)
	}
}

func TestFlexIDUnmarshalRejectsNonScalar(t *testing.T) {
	var id FlexID
	assert.Error(t, json.Unmarshal([]byte(`{"id": 1}`), &id))
}

func TestFetchErrorWrapping(t *testing.T) {
	err := Errf("kakao", "job list status %d", 502)
	assert.Equal(t, "kakao fetch: job list status 502", err.Error())

	var fe *FetchError
	assert.ErrorAs(t, error(err), &fe)
	assert.Equal(t, "kakao", fe.Vendor)
}
