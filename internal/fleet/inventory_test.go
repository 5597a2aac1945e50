package fleet

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventory_FromConfig(t *testing.T) {
	conf := viper.New()
	conf.Set("env", "dev")
	conf.Set("fleet.inventory.dev.pools.poolb-express", []string{"web2", "web1"})
	conf.Set("fleet.inventory.dev.pools.WWWLegacy", []string{"web1", "legacy1"})
	conf.Set("fleet.inventory.dev.load_balancer", "lb1")

	inv := NewInventory(conf)
	assert.Equal(t, "dev", inv.Environment())

	hosts, err := inv.Hosts(ScopeFleet, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy1", "web1", "web2"}, hosts)

	hosts, err = inv.Hosts(ScopePool, "WWWLegacy")
	require.NoError(t, err)
	assert.Equal(t, []string{"web1", "legacy1"}, hosts)

	hosts, err = inv.Hosts(ScopeLoadBalancer, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"lb1"}, hosts)
}

func TestInventory_Single(t *testing.T) {
	inv := NewStaticInventory("test", map[string][]string{
		"poolb-express": {"web1", "web2", "web3"},
	}, "").WithPicker(func(n int) int { return n - 1 })

	hosts, err := inv.Hosts(ScopeSingle, "poolb-express")
	require.NoError(t, err)
	assert.Equal(t, []string{"web3"}, hosts)

	hosts, err = inv.Hosts(ScopeSingle, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"web3"}, hosts)
}

func TestInventory_NoHosts(t *testing.T) {
	inv := NewStaticInventory("test", map[string][]string{"poolb-express": {}}, "")

	_, err := inv.Hosts(ScopePool, "poolb-express")
	assert.ErrorIs(t, err, ErrNoHosts)

	_, err = inv.Hosts(ScopeLoadBalancer, "")
	assert.ErrorIs(t, err, ErrNoHosts)

	_, err = inv.Hosts(ScopeSingle, "missing")
	assert.ErrorIs(t, err, ErrUnknownPool)
}
