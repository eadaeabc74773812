package testlib

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/contract/erc20"
	"github.com/meverselabs/kekfork/contract/evm"
	"github.com/meverselabs/kekfork/contract/uniswap"
	"github.com/meverselabs/kekfork/ethereum/client"
)

var (
	tokenABI   = evm.MustParseABI(erc20.ABI)
	routerABI  = evm.MustParseABI(uniswap.RouterABI)
	factoryABI = evm.MustParseABI(uniswap.FactoryABI)
	pairABI    = evm.MustParseABI(uniswap.PairABI)
)

// TxRecord is a transaction accepted by the MockChain
type TxRecord struct {
	From     common.Address
	To       *common.Address
	Method   string
	Value    *big.Int
	Gas      uint64
	Args     []interface{}
	Reverted bool
}

type mockToken struct {
	name        string
	symbol      string
	totalSupply *big.Int
	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
}

type mockPair struct {
	token0   common.Address
	token1   common.Address
	reserve0 *big.Int
	reserve1 *big.Int
	lp       *mockToken
}

type chainState struct {
	eth       map[common.Address]*big.Int
	tokens    map[common.Address]*mockToken
	pairs     map[common.Address]*mockPair
	pairIndex map[[2]common.Address]common.Address
	allPairs  int64
	time      uint64
	nonce     uint64
}

// MockChain is an in-memory stand-in of a forked node.
// It understands ERC20 tokens, one Uniswap V2 router/factory and their pairs.
type MockChain struct {
	sync.Mutex
	st           *chainState
	snapshots    map[string]*chainState
	snapOrder    []string
	snapSeq      int
	impersonated map[common.Address]bool
	failOn       map[string]bool

	Signers []common.Address
	Router  common.Address
	Factory common.Address
	WETH    common.Address
	Txs     []TxRecord
	Calls   []string
}

// NewMockChain makes a chain with the given unlocked signers
func NewMockChain(signers ...common.Address) *MockChain {
	mc := &MockChain{
		st: &chainState{
			eth:       map[common.Address]*big.Int{},
			tokens:    map[common.Address]*mockToken{},
			pairs:     map[common.Address]*mockPair{},
			pairIndex: map[[2]common.Address]common.Address{},
			time:      GenesisTime,
		},
		snapshots:    map[string]*chainState{},
		impersonated: map[common.Address]bool{},
		failOn:       map[string]bool{},
		Signers:      signers,
	}
	for _, s := range signers {
		mc.st.eth[s] = new(big.Int).Set(SignerEther)
	}
	return mc
}

// NewForkedMockChain makes a chain that looks like the mainnet fork the fixture expects:
// three signers, the Aave token held by the Aave giant and the Uniswap router/factory.
func NewForkedMockChain() *MockChain {
	mc := NewMockChain(Owner, GasProvider, LiquidityProvider)
	mc.AddToken(AaveToken, "Aave Token", "AAVE", map[common.Address]*big.Int{
		AaveGiant: new(big.Int).Set(AaveGiantBalance),
	})
	mc.AddUniswap(UniswapRouter, UniswapFactory, WETH)
	return mc
}

// AddToken registers a pre-deployed token
func (mc *MockChain) AddToken(addr common.Address, name string, symbol string, holders map[common.Address]*big.Int) {
	mc.Lock()
	defer mc.Unlock()

	t := newMockToken(name, symbol)
	for h, v := range holders {
		t.balances[h] = new(big.Int).Set(v)
		t.totalSupply.Add(t.totalSupply, v)
	}
	mc.st.tokens[addr] = t
}

// AddUniswap registers a pre-deployed router and factory
func (mc *MockChain) AddUniswap(router common.Address, factory common.Address, weth common.Address) {
	mc.Lock()
	defer mc.Unlock()

	mc.Router = router
	mc.Factory = factory
	mc.WETH = weth
}

// FailOn makes every transaction calling method revert
func (mc *MockChain) FailOn(method string) {
	mc.Lock()
	defer mc.Unlock()
	mc.failOn[method] = true
}

// Methods returns the method names of the accepted transactions in order
func (mc *MockChain) Methods() []string {
	mc.Lock()
	defer mc.Unlock()
	ms := make([]string, 0, len(mc.Txs))
	for _, tx := range mc.Txs {
		ms = append(ms, tx.Method)
	}
	return ms
}

// TokenBalance returns the balance of account in the token at addr
func (mc *MockChain) TokenBalance(token common.Address, account common.Address) *big.Int {
	mc.Lock()
	defer mc.Unlock()
	t, has := mc.st.tokens[token]
	if !has {
		return big.NewInt(0)
	}
	return new(big.Int).Set(t.balanceOf(account))
}

// SetReserves overwrites the reserves of a pair
func (mc *MockChain) SetReserves(pair common.Address, r0 *big.Int, r1 *big.Int) {
	mc.Lock()
	defer mc.Unlock()
	if p, has := mc.st.pairs[pair]; has {
		p.reserve0 = new(big.Int).Set(r0)
		p.reserve1 = new(big.Int).Set(r1)
	}
}

// Accounts returns the unlocked signers
func (mc *MockChain) Accounts(ctx context.Context) ([]common.Address, error) {
	mc.Lock()
	defer mc.Unlock()
	mc.Calls = append(mc.Calls, "eth_accounts")
	return append([]common.Address{}, mc.Signers...), nil
}

// ImpersonateAccount unlocks addr
func (mc *MockChain) ImpersonateAccount(ctx context.Context, addr common.Address) error {
	mc.Lock()
	defer mc.Unlock()
	mc.Calls = append(mc.Calls, "hardhat_impersonateAccount")
	mc.impersonated[addr] = true
	return nil
}

// StopImpersonatingAccount locks addr again
func (mc *MockChain) StopImpersonatingAccount(ctx context.Context, addr common.Address) error {
	mc.Lock()
	defer mc.Unlock()
	mc.Calls = append(mc.Calls, "hardhat_stopImpersonatingAccount")
	delete(mc.impersonated, addr)
	return nil
}

// LatestTime returns the latest block time
func (mc *MockChain) LatestTime(ctx context.Context) (uint64, error) {
	mc.Lock()
	defer mc.Unlock()
	return mc.st.time, nil
}

// BalanceAt returns the ether balance
func (mc *MockChain) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	mc.Lock()
	defer mc.Unlock()
	return new(big.Int).Set(mc.st.ethOf(account)), nil
}

// Snapshot saves the state
func (mc *MockChain) Snapshot(ctx context.Context) (string, error) {
	mc.Lock()
	defer mc.Unlock()
	mc.Calls = append(mc.Calls, "evm_snapshot")
	mc.snapSeq++
	id := fmt.Sprintf("0x%x", mc.snapSeq)
	mc.snapshots[id] = mc.st.clone()
	mc.snapOrder = append(mc.snapOrder, id)
	return id, nil
}

// Revert restores the snapshot and drops it with every later snapshot
func (mc *MockChain) Revert(ctx context.Context, id string) (bool, error) {
	mc.Lock()
	defer mc.Unlock()
	mc.Calls = append(mc.Calls, "evm_revert")
	st, has := mc.snapshots[id]
	if !has {
		return false, nil
	}
	mc.st = st.clone()
	for i, sid := range mc.snapOrder {
		if sid == id {
			for _, later := range mc.snapOrder[i:] {
				delete(mc.snapshots, later)
			}
			mc.snapOrder = mc.snapOrder[:i]
			break
		}
	}
	return true, nil
}

// CallContract executes a view call against the in-memory state
func (mc *MockChain) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	mc.Lock()
	defer mc.Unlock()

	if msg.To == nil || len(msg.Data) < 4 {
		return nil, nil
	}
	a, kind := mc.abiOf(*msg.To)
	if a == nil {
		return nil, nil
	}
	method, err := a.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	outs, err := mc.view(kind, *msg.To, method.Name, args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(outs...)
}

// Transact executes a transaction against the in-memory state
func (mc *MockChain) Transact(ctx context.Context, args *client.TxArgs) (*types.Receipt, error) {
	mc.Lock()
	defer mc.Unlock()

	if !mc.unlocked(args.From) {
		return nil, errors.Wrap(ErrUnknownAccount, args.From.Hex())
	}

	rec := TxRecord{From: args.From, To: args.To, Value: big.NewInt(0)}
	if args.Value != nil {
		rec.Value = new(big.Int).Set(args.Value.ToInt())
	}
	if args.Gas != nil {
		rec.Gas = uint64(*args.Gas)
	}

	mc.st.nonce++
	mc.st.time++
	receipt := &types.Receipt{
		Status:  types.ReceiptStatusSuccessful,
		TxHash:  crypto.Keccak256Hash(args.From.Bytes(), new(big.Int).SetUint64(mc.st.nonce).Bytes()),
		GasUsed: 21000,
		Logs:    []*types.Log{},
	}

	// run against a copy so a revert leaves no trace
	saved := mc.st.clone()
	err := mc.execute(args, &rec, receipt)
	if err != nil {
		mc.st = saved
		rec.Reverted = true
		receipt.Status = types.ReceiptStatusFailed
		mc.Txs = append(mc.Txs, rec)
		return receipt, errors.Wrapf(client.ErrTransactionReverted, "%s: %v", rec.Method, err)
	}
	mc.Txs = append(mc.Txs, rec)
	return receipt, nil
}

func (mc *MockChain) execute(args *client.TxArgs, rec *TxRecord, receipt *types.Receipt) error {
	if rec.Value.Sign() > 0 {
		if args.To == nil {
			return ErrNotPayable
		}
		if err := mc.st.moveEth(args.From, *args.To, rec.Value); err != nil {
			return err
		}
	}

	if args.To == nil {
		rec.Method = "deploy"
		addr := crypto.CreateAddress(args.From, mc.st.nonce)
		t := newMockToken("KekToken", "KEK")
		t.balances[args.From] = new(big.Int).Set(DeploySupply)
		t.totalSupply.Set(DeploySupply)
		mc.st.tokens[addr] = t
		receipt.ContractAddress = addr
		return nil
	}

	to := *args.To
	if len(args.Data) == 0 {
		rec.Method = "transferEth"
		return nil
	}
	a, kind := mc.abiOf(to)
	if a == nil || len(args.Data) < 4 {
		return ErrNoContract
	}
	method, err := a.MethodById(args.Data[:4])
	if err != nil {
		return err
	}
	rec.Method = method.Name
	in, err := method.Inputs.Unpack(args.Data[4:])
	if err != nil {
		return err
	}
	rec.Args = in
	if mc.failOn[method.Name] {
		return ErrForcedRevert
	}

	switch kind {
	case kindToken:
		return mc.st.tokens[to].transact(args.From, method.Name, in)
	case kindFactory:
		return mc.factoryTransact(method.Name, in, receipt)
	case kindRouter:
		return mc.routerTransact(args.From, method.Name, in)
	default:
		return ErrNoContract
	}
}

const (
	kindNone = iota
	kindToken
	kindRouter
	kindFactory
	kindPair
)

func (mc *MockChain) abiOf(addr common.Address) (*abi.ABI, int) {
	switch {
	case addr == (common.Address{}):
		return nil, kindNone
	case addr == mc.Router:
		return routerABI, kindRouter
	case addr == mc.Factory:
		return factoryABI, kindFactory
	}
	if _, has := mc.st.pairs[addr]; has {
		return pairABI, kindPair
	}
	if _, has := mc.st.tokens[addr]; has {
		return tokenABI, kindToken
	}
	return nil, kindNone
}

func (mc *MockChain) unlocked(addr common.Address) bool {
	if mc.impersonated[addr] {
		return true
	}
	for _, s := range mc.Signers {
		if s == addr {
			return true
		}
	}
	return false
}

func (mc *MockChain) view(kind int, to common.Address, method string, args []interface{}) ([]interface{}, error) {
	switch kind {
	case kindToken:
		return mc.st.tokens[to].view(method, args)
	case kindPair:
		p := mc.st.pairs[to]
		switch method {
		case "getReserves":
			return []interface{}{new(big.Int).Set(p.reserve0), new(big.Int).Set(p.reserve1), uint32(mc.st.time)}, nil
		case "token0":
			return []interface{}{p.token0}, nil
		case "token1":
			return []interface{}{p.token1}, nil
		default:
			return p.lp.view(method, args)
		}
	case kindFactory:
		switch method {
		case "getPair":
			return []interface{}{mc.st.pairIndex[pairKey(args[0].(common.Address), args[1].(common.Address))]}, nil
		case "allPairsLength":
			return []interface{}{big.NewInt(mc.st.allPairs)}, nil
		}
	case kindRouter:
		switch method {
		case "factory":
			return []interface{}{mc.Factory}, nil
		case "WETH":
			return []interface{}{mc.WETH}, nil
		case "getAmountsOut":
			amounts, err := mc.amountsOut(args[0].(*big.Int), args[1].([]common.Address))
			if err != nil {
				return nil, err
			}
			return []interface{}{amounts}, nil
		}
	}
	return nil, errors.Errorf("mock: view %s not supported", method)
}

func (mc *MockChain) factoryTransact(method string, in []interface{}, receipt *types.Receipt) error {
	if method != "createPair" {
		return errors.Errorf("mock: factory %s not supported", method)
	}
	pair, err := mc.createPair(in[0].(common.Address), in[1].(common.Address))
	if err != nil {
		return err
	}
	p := mc.st.pairs[pair]
	ev := factoryABI.Events["PairCreated"]
	data, err := ev.Inputs.NonIndexed().Pack(pair, big.NewInt(mc.st.allPairs))
	if err != nil {
		return err
	}
	receipt.Logs = append(receipt.Logs, &types.Log{
		Address: mc.Factory,
		Topics:  []common.Hash{ev.ID, common.BytesToHash(p.token0.Bytes()), common.BytesToHash(p.token1.Bytes())},
		Data:    data,
	})
	return nil
}

func (mc *MockChain) createPair(a common.Address, b common.Address) (common.Address, error) {
	if a == b {
		return common.Address{}, errors.New("UniswapV2: IDENTICAL_ADDRESSES")
	}
	key := pairKey(a, b)
	if _, has := mc.st.pairIndex[key]; has {
		return common.Address{}, errors.New("UniswapV2: PAIR_EXISTS")
	}
	addr := crypto.CreateAddress(mc.Factory, uint64(mc.st.allPairs+1))
	mc.st.pairs[addr] = &mockPair{
		token0:   key[0],
		token1:   key[1],
		reserve0: big.NewInt(0),
		reserve1: big.NewInt(0),
		lp:       newMockToken("Uniswap V2", "UNI-V2"),
	}
	mc.st.pairIndex[key] = addr
	mc.st.allPairs++
	return addr, nil
}

func (mc *MockChain) routerTransact(from common.Address, method string, in []interface{}) error {
	switch method {
	case "addLiquidity":
		tokenA, tokenB := in[0].(common.Address), in[1].(common.Address)
		amountA, amountB := in[2].(*big.Int), in[3].(*big.Int)
		to, deadline := in[6].(common.Address), in[7].(*big.Int)
		if err := mc.checkDeadline(deadline); err != nil {
			return err
		}
		addr, has := mc.st.pairIndex[pairKey(tokenA, tokenB)]
		if !has {
			var err error
			if addr, err = mc.createPair(tokenA, tokenB); err != nil {
				return err
			}
		}
		p := mc.st.pairs[addr]
		if err := mc.pull(tokenA, from, addr, amountA); err != nil {
			return err
		}
		if err := mc.pull(tokenB, from, addr, amountB); err != nil {
			return err
		}
		if tokenA == p.token0 {
			p.reserve0.Add(p.reserve0, amountA)
			p.reserve1.Add(p.reserve1, amountB)
		} else {
			p.reserve0.Add(p.reserve0, amountB)
			p.reserve1.Add(p.reserve1, amountA)
		}
		liquidity := new(big.Int).Sqrt(new(big.Int).Mul(amountA, amountB))
		p.lp.mint(to, liquidity)
		return nil
	case "swapExactTokensForTokens":
		amountIn, amountOutMin := in[0].(*big.Int), in[1].(*big.Int)
		path, to, deadline := in[2].([]common.Address), in[3].(common.Address), in[4].(*big.Int)
		if err := mc.checkDeadline(deadline); err != nil {
			return err
		}
		amounts, err := mc.amountsOut(amountIn, path)
		if err != nil {
			return err
		}
		out := amounts[len(amounts)-1]
		if out.Cmp(amountOutMin) < 0 {
			return errors.New("UniswapV2Router: INSUFFICIENT_OUTPUT_AMOUNT")
		}
		for i := 0; i < len(path)-1; i++ {
			addr := mc.st.pairIndex[pairKey(path[i], path[i+1])]
			p := mc.st.pairs[addr]
			if i == 0 {
				if err := mc.pull(path[i], from, addr, amounts[i]); err != nil {
					return err
				}
			}
			recv := to
			if i < len(path)-2 {
				recv = mc.st.pairIndex[pairKey(path[i+1], path[i+2])]
			}
			if err := mc.st.tokens[path[i+1]].move(addr, recv, amounts[i+1]); err != nil {
				return err
			}
			if path[i] == p.token0 {
				p.reserve0.Add(p.reserve0, amounts[i])
				p.reserve1.Sub(p.reserve1, amounts[i+1])
			} else {
				p.reserve1.Add(p.reserve1, amounts[i])
				p.reserve0.Sub(p.reserve0, amounts[i+1])
			}
		}
		return nil
	}
	return errors.Errorf("mock: router %s not supported", method)
}

// pull moves amount of token from owner to dest using the router allowance
func (mc *MockChain) pull(token common.Address, owner common.Address, dest common.Address, amount *big.Int) error {
	t, has := mc.st.tokens[token]
	if !has {
		return ErrNoContract
	}
	if err := t.spend(owner, mc.Router, amount); err != nil {
		return err
	}
	return t.move(owner, dest, amount)
}

func (mc *MockChain) checkDeadline(deadline *big.Int) error {
	if deadline.Cmp(new(big.Int).SetUint64(mc.st.time)) < 0 {
		return errors.New("UniswapV2Router: EXPIRED")
	}
	return nil
}

// amountsOut prices each hop with the 0.3% fee constant product quote
func (mc *MockChain) amountsOut(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	if len(path) < 2 {
		return nil, errors.New("UniswapV2Library: INVALID_PATH")
	}
	amounts := []*big.Int{new(big.Int).Set(amountIn)}
	for i := 0; i < len(path)-1; i++ {
		addr, has := mc.st.pairIndex[pairKey(path[i], path[i+1])]
		if !has {
			return nil, errors.New("UniswapV2Library: PAIR_NOT_FOUND")
		}
		p := mc.st.pairs[addr]
		rIn, rOut := p.reserve0, p.reserve1
		if path[i] != p.token0 {
			rIn, rOut = p.reserve1, p.reserve0
		}
		if rIn.Sign() == 0 || rOut.Sign() == 0 {
			return nil, errors.New("UniswapV2Library: INSUFFICIENT_LIQUIDITY")
		}
		inWithFee := new(big.Int).Mul(amounts[i], big.NewInt(997))
		num := new(big.Int).Mul(inWithFee, rOut)
		den := new(big.Int).Add(new(big.Int).Mul(rIn, big.NewInt(1000)), inWithFee)
		amounts = append(amounts, num.Div(num, den))
	}
	return amounts, nil
}

func pairKey(a common.Address, b common.Address) [2]common.Address {
	t0, t1 := uniswap.SortTokens(a, b)
	return [2]common.Address{t0, t1}
}

func newMockToken(name string, symbol string) *mockToken {
	return &mockToken{
		name:        name,
		symbol:      symbol,
		totalSupply: big.NewInt(0),
		balances:    map[common.Address]*big.Int{},
		allowances:  map[common.Address]map[common.Address]*big.Int{},
	}
}

func (t *mockToken) balanceOf(a common.Address) *big.Int {
	if v, has := t.balances[a]; has {
		return v
	}
	return big.NewInt(0)
}

func (t *mockToken) allowance(owner common.Address, spender common.Address) *big.Int {
	if m, has := t.allowances[owner]; has {
		if v, has := m[spender]; has {
			return v
		}
	}
	return big.NewInt(0)
}

func (t *mockToken) mint(to common.Address, amount *big.Int) {
	t.balances[to] = new(big.Int).Add(t.balanceOf(to), amount)
	t.totalSupply.Add(t.totalSupply, amount)
}

func (t *mockToken) move(from common.Address, to common.Address, amount *big.Int) error {
	bal := t.balanceOf(from)
	if bal.Cmp(amount) < 0 {
		return errors.New("ERC20: transfer amount exceeds balance")
	}
	t.balances[from] = new(big.Int).Sub(bal, amount)
	t.balances[to] = new(big.Int).Add(t.balanceOf(to), amount)
	return nil
}

func (t *mockToken) spend(owner common.Address, spender common.Address, amount *big.Int) error {
	al := t.allowance(owner, spender)
	if al.Cmp(amount) < 0 {
		return errors.New("ERC20: insufficient allowance")
	}
	t.allowances[owner][spender] = new(big.Int).Sub(al, amount)
	return nil
}

func (t *mockToken) approve(owner common.Address, spender common.Address, amount *big.Int) {
	if _, has := t.allowances[owner]; !has {
		t.allowances[owner] = map[common.Address]*big.Int{}
	}
	t.allowances[owner][spender] = new(big.Int).Set(amount)
}

func (t *mockToken) view(method string, args []interface{}) ([]interface{}, error) {
	switch method {
	case "name":
		return []interface{}{t.name}, nil
	case "symbol":
		return []interface{}{t.symbol}, nil
	case "decimals":
		return []interface{}{uint8(18)}, nil
	case "totalSupply":
		return []interface{}{new(big.Int).Set(t.totalSupply)}, nil
	case "balanceOf":
		return []interface{}{new(big.Int).Set(t.balanceOf(args[0].(common.Address)))}, nil
	case "allowance":
		return []interface{}{new(big.Int).Set(t.allowance(args[0].(common.Address), args[1].(common.Address)))}, nil
	}
	return nil, errors.Errorf("mock: token view %s not supported", method)
}

func (t *mockToken) transact(from common.Address, method string, in []interface{}) error {
	switch method {
	case "transfer":
		return t.move(from, in[0].(common.Address), in[1].(*big.Int))
	case "approve":
		t.approve(from, in[0].(common.Address), in[1].(*big.Int))
		return nil
	case "transferFrom":
		owner, to, amount := in[0].(common.Address), in[1].(common.Address), in[2].(*big.Int)
		if err := t.spend(owner, from, amount); err != nil {
			return err
		}
		return t.move(owner, to, amount)
	}
	return errors.Errorf("mock: token %s not supported", method)
}

func (t *mockToken) clone() *mockToken {
	c := newMockToken(t.name, t.symbol)
	c.totalSupply.Set(t.totalSupply)
	for a, v := range t.balances {
		c.balances[a] = new(big.Int).Set(v)
	}
	for o, m := range t.allowances {
		c.allowances[o] = map[common.Address]*big.Int{}
		for s, v := range m {
			c.allowances[o][s] = new(big.Int).Set(v)
		}
	}
	return c
}

func (st *chainState) ethOf(a common.Address) *big.Int {
	if v, has := st.eth[a]; has {
		return v
	}
	return big.NewInt(0)
}

func (st *chainState) moveEth(from common.Address, to common.Address, amount *big.Int) error {
	bal := st.ethOf(from)
	if bal.Cmp(amount) < 0 {
		return errors.New("insufficient funds for transfer")
	}
	st.eth[from] = new(big.Int).Sub(bal, amount)
	st.eth[to] = new(big.Int).Add(st.ethOf(to), amount)
	return nil
}

func (st *chainState) clone() *chainState {
	c := &chainState{
		eth:       map[common.Address]*big.Int{},
		tokens:    map[common.Address]*mockToken{},
		pairs:     map[common.Address]*mockPair{},
		pairIndex: map[[2]common.Address]common.Address{},
		allPairs:  st.allPairs,
		time:      st.time,
		nonce:     st.nonce,
	}
	for a, v := range st.eth {
		c.eth[a] = new(big.Int).Set(v)
	}
	for a, t := range st.tokens {
		c.tokens[a] = t.clone()
	}
	for a, p := range st.pairs {
		c.pairs[a] = &mockPair{
			token0:   p.token0,
			token1:   p.token1,
			reserve0: new(big.Int).Set(p.reserve0),
			reserve1: new(big.Int).Set(p.reserve1),
			lp:       p.lp.clone(),
		}
	}
	for k, v := range st.pairIndex {
		c.pairIndex[k] = v
	}
	return c
}
