package proxy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig_Modes(t *testing.T) {
	f, err := FromConfig(Config{Mode: "disabled"}, nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = FromConfig(Config{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, f, "env is the default")

	_, err = FromConfig(Config{Mode: "rotation"}, nil)
	assert.Error(t, err)

	_, err = FromConfig(Config{Mode: "list", List: []string{"  "}}, nil)
	assert.Error(t, err)
}

func TestFromConfig_ListRoundRobin(t *testing.T) {
	f, err := FromConfig(Config{
		Mode:   "list",
		List:   []string{"10.0.0.1:3128", "http://10.0.0.2:3128"},
		Bypass: []string{"Storage.Local"},
	}, nil)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "http://backend.test/categories", nil)
	var hosts []string
	for i := 0; i < 3; i++ {
		u, err := f(req)
		require.NoError(t, err)
		hosts = append(hosts, u.Host)
	}
	assert.Equal(t, []string{"10.0.0.1:3128", "10.0.0.2:3128", "10.0.0.1:3128"}, hosts)

	direct, _ := http.NewRequest(http.MethodGet, "http://storage.local/a.png", nil)
	u, err := f(direct)
	require.NoError(t, err)
	assert.Nil(t, u)
}
