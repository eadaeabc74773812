package reportserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meverselabs/kekfork/contract/uniswap"
	"github.com/meverselabs/kekfork/fixture"
	. "github.com/meverselabs/kekfork/tests/lib"
	"github.com/meverselabs/kekfork/verify"
)

func newTestServer(t *testing.T) (*MockChain, *httptest.Server) {
	mc := NewForkedMockChain()
	src := NewFixtureSource(mc, fixture.NewLoader(mc), func(ctx context.Context) (*fixture.Fixture, error) {
		return fixture.DeployToken(ctx, mc, &fixture.Options{
			Addresses: ForkAddresses(),
			Artifact:  KekArtifact(),
		})
	})
	srv := httptest.NewServer(NewReportServer(src).Handler())
	t.Cleanup(srv.Close)
	return mc, srv
}

func getJSON(t *testing.T, url string, v interface{}) int {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
	return res.StatusCode
}

func TestFixtureAndReport(t *testing.T) {
	_, srv := newTestServer(t)

	var s fixture.Summary
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/fixture", &s))
	assert.Equal(t, Owner, s.Owner)
	assert.Equal(t, AaveToken, s.Aave)
	assert.NotEqual(t, common.Address{}, s.Pair)

	var r verify.Report
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/report", &r))
	assert.True(t, r.Passed())
	assert.Len(t, r.Results, 4)
	assert.Equal(t, s.Pair, r.Fixture.Pair)

	// the swap of the first report is reverted before the second
	var again verify.Report
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/report", &again))
	assert.True(t, again.Passed())
	assert.True(t, again.Swap.KekBefore.Equal(r.Swap.KekBefore))
	assert.True(t, again.Swap.AaveBefore.IsZero())
}

func TestReserves(t *testing.T) {
	_, srv := newTestServer(t)

	var rs uniswap.Reserves
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/reserves", &rs))
	assert.Equal(t, 0, rs.Reserve0.Cmp(fixture.LiquiditySupply.Int))
	assert.Equal(t, 0, rs.Reserve1.Cmp(fixture.LiquiditySupply.Int))
}

func TestBalance(t *testing.T) {
	_, srv := newTestServer(t)

	var b Balances
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/balance/"+LiquidityProvider.Hex(), &b))
	assert.Equal(t, LiquidityProvider, b.Account)
	assert.True(t, b.KekToken.IsZero())
	assert.True(t, b.Aave.IsZero())
	assert.False(t, b.LPToken.IsZero())
	assert.False(t, b.Ether.IsZero())

	var e map[string]string
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/balance/0x1234", &e))
	assert.Contains(t, e["error"], ErrInvalidAddress.Error())
}

type failingSource struct{}

func (failingSource) Fixture(ctx context.Context) (*fixture.Summary, error) {
	return nil, errors.New("node is down")
}

func (failingSource) Report(ctx context.Context) (*verify.Report, error) {
	return nil, errors.New("node is down")
}

func (failingSource) Reserves(ctx context.Context) (*uniswap.Reserves, error) {
	return nil, errors.New("node is down")
}

func (failingSource) Balances(ctx context.Context, account common.Address) (*Balances, error) {
	return nil, errors.New("node is down")
}

func TestSourceError(t *testing.T) {
	srv := httptest.NewServer(NewReportServer(failingSource{}).Handler())
	defer srv.Close()

	var e map[string]string
	assert.Equal(t, http.StatusInternalServerError, getJSON(t, srv.URL+"/report", &e))
	assert.Equal(t, "node is down", e["error"])

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/nothing", &e))
}

func postJRPC(t *testing.T, url string, req *JRPCRequest) map[string]interface{} {
	bs, err := json.Marshal(req)
	require.NoError(t, err)
	res, err := http.Post(url+"/api/endpoints/http", "application/json", bytes.NewReader(bs))
	require.NoError(t, err)
	defer res.Body.Close()

	var m map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&m))
	return m
}

func TestJRPC(t *testing.T) {
	_, srv := newTestServer(t)

	m := postJRPC(t, srv.URL, &JRPCRequest{JSONRPC: "2.0", ID: 1, Method: "kekfork.balance", Params: []interface{}{Owner.Hex()}})
	require.Nil(t, m["error"])
	result := m["result"].(map[string]interface{})
	assert.Equal(t, Owner, common.HexToAddress(result["account"].(string)))

	m = postJRPC(t, srv.URL, &JRPCRequest{JSONRPC: "2.0", ID: 2, Method: "kekfork.balance"})
	assert.Equal(t, float64(-32602), m["error"].(map[string]interface{})["code"])

	m = postJRPC(t, srv.URL, &JRPCRequest{JSONRPC: "2.0", ID: 3, Method: "eth_chainId"})
	assert.Equal(t, float64(-32601), m["error"].(map[string]interface{})["code"])
}

func TestWebsocket(t *testing.T) {
	_, srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/endpoints/websocket"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(&JRPCRequest{JSONRPC: "2.0", ID: 7, Method: "kekfork.reserves"}))
	var res struct {
		ID     int              `json:"id"`
		Result uniswap.Reserves `json:"result"`
	}
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, 7, res.ID)
	assert.Equal(t, 0, res.Result.Reserve0.Cmp(fixture.LiquiditySupply.Int))
}

func TestArgument(t *testing.T) {
	arg := NewArgument([]interface{}{"0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D", nil, "kek"})
	assert.Equal(t, 3, arg.Len())

	addr, err := arg.Address(0)
	require.NoError(t, err)
	assert.Equal(t, UniswapRouter, addr)

	_, err = arg.String(1)
	assert.ErrorIs(t, err, ErrInvalidArgumentType)
	_, err = arg.Address(2)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = arg.String(3)
	assert.ErrorIs(t, err, ErrInvalidArgumentIndex)
}

func TestJRPCParseError(t *testing.T) {
	_, srv := newTestServer(t)

	res, err := http.Post(srv.URL+"/api/endpoints/http", "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":`))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var m map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&m))
	assert.Nil(t, m["id"])
	assert.Equal(t, float64(CodeParseError), m["error"].(map[string]interface{})["code"])
}

func TestWebsocketKeepsSessionAfterBadMessage(t *testing.T) {
	_, srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/endpoints/websocket"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var bad JRPCResponseWithError
	require.NoError(t, conn.ReadJSON(&bad))
	require.NotNil(t, bad.Error)
	assert.Equal(t, CodeParseError, bad.Error.Code)

	require.NoError(t, conn.WriteJSON(&JRPCRequest{JSONRPC: "2.0", ID: 2, Method: "kekfork.fixture"}))
	var res struct {
		ID     int             `json:"id"`
		Result fixture.Summary `json:"result"`
	}
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, 2, res.ID)
	assert.Equal(t, Owner, res.Result.Owner)

	// dropping the connection without a close frame leaves the server serving
	require.NoError(t, conn.UnderlyingConn().Close())
	var s fixture.Summary
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/fixture", &s))
}
