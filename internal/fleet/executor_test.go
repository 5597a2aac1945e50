package fleet

import (
	"context"
	"errors"
	"testing"

	"atlas/internal/metrics"
	"atlas/internal/mocks"
	"atlas/pkg/log"
	"atlas/pkg/remote"

	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, runner remote.Runner) *Executor {
	inv := NewStaticInventory("test", map[string][]string{
		"poolb-express":  {"web1", "web2", "web3"},
		"poolb-homepage": {"web4"},
	}, "lb1")
	return NewExecutor(viper.New(), runner, inv, log.NewNop(), metrics.NewMetrics())
}

func TestExecutor_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), "web1", "true").Return(&remote.Result{Host: "web1"}, nil)
	runner.EXPECT().Run(gomock.Any(), "web2", "true").
		Return(&remote.Result{Host: "web2", ExitStatus: 2, Stderr: "boom"}, &remote.ExitError{Host: "web2", ExitStatus: 2, Stderr: "boom"})
	runner.EXPECT().Run(gomock.Any(), "web3", "true").Return(&remote.Result{Host: "web3"}, nil)

	e := newTestExecutor(t, runner)
	res, err := e.Run(context.Background(), ScopePool, "poolb-express", Exec("noop", "true"))

	require.Error(t, err)
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Len(t, res.Hosts, 3)
	assert.True(t, res.Hosts["web1"].Success)
	assert.False(t, res.Hosts["web2"].Success)
	assert.Equal(t, 2, res.Hosts["web2"].ExitStatus)
	assert.True(t, res.Hosts["web3"].Success)
	assert.Equal(t, []string{"web2"}, res.FailedHosts())
	assert.Contains(t, err.Error(), "web2")
}

func TestExecutor_UnreachableHost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), "web4", gomock.Any()).Return(nil, errors.New("dial web4: connection refused"))

	e := newTestExecutor(t, runner)
	res, err := e.Run(context.Background(), ScopePool, "poolb-homepage", Exec("noop", "true"))

	require.Error(t, err)
	assert.Equal(t, -1, res.Hosts["web4"].ExitStatus)
	assert.Contains(t, res.Hosts["web4"].Error, "connection refused")
}

func TestExecutor_FleetScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any(), "true").Return(&remote.Result{}, nil).Times(4)

	e := newTestExecutor(t, runner)
	res, err := e.Run(context.Background(), ScopeFleet, "", Exec("noop", "true"))

	require.NoError(t, err)
	assert.Len(t, res.Hosts, 4)
	assert.False(t, res.Failed())
}

func TestExecutor_UnknownPool(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	e := newTestExecutor(t, mocks.NewMockRunner(ctrl))
	_, err := e.Run(context.Background(), ScopePool, "nope", Exec("noop", "true"))

	assert.ErrorIs(t, err, ErrUnknownPool)
}
