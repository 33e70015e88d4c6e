package clients

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceListAcceptsArray(t *testing.T) {
	var s ServiceList
	require.NoError(t, json.Unmarshal([]byte(`["SEO", " Web Design ", "", "Hosting"]`), &s))
	assert.Equal(t, ServiceList{"SEO", "Web Design", "Hosting"}, s)
}

func TestServiceListAcceptsCommaSeparatedString(t *testing.T) {
	var s ServiceList
	require.NoError(t, json.Unmarshal([]byte(`"SEO, Web Design , ,Hosting"`), &s))
	assert.Equal(t, ServiceList{"SEO", "Web Design", "Hosting"}, s)
}

func TestServiceListRejectsOtherShapes(t *testing.T) {
	var s ServiceList
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &s))
}

func TestServiceListEmptyString(t *testing.T) {
	var s ServiceList
	require.NoError(t, json.Unmarshal([]byte(`""`), &s))
	assert.Empty(t, s)
}

func TestStateValidation(t *testing.T) {
	for _, st := range []State{NSW, VIC, QLD, WA, SA, TAS, NT, ACT} {
		assert.True(t, st.Valid(), "state %s", st)
	}
	assert.False(t, State("XX").Valid())
	assert.False(t, State("").Valid())
}

func TestStateLabelFallback(t *testing.T) {
	assert.Equal(t, "New South Wales", NSW.Label())
	assert.Equal(t, "Australian Capital Territory", ACT.Label())
	// Unknown codes fall back to the raw value instead of failing.
	assert.Equal(t, "ZZ", State("ZZ").Label())
}
