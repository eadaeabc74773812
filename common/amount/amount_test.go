package amount

import (
	"encoding/json"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Amount(t *testing.T) {
	a := COIN.DivC(1000)
	b := COIN.MulC(10000)
	assert.Equal(t, "0.001", a.String())
	assert.Equal(t, "10000", b.String())
	assert.Equal(t, "10000.001", a.Add(b).String())
	assert.Equal(t, "-9999.999", a.Sub(b).String())
	assert.Equal(t, "0.0000001", a.DivC(10000).String())
	assert.Equal(t, "90", a.MulC(90000).String())
}

func TestNewAmountMatchesParseEther(t *testing.T) {
	ten, _ := new(big.Int).SetString("10000000000000000000", 10)
	assert.Equal(t, 0, NewAmount(10, 0).Int.Cmp(ten))
	assert.True(t, NewAmount(1, 0).Equal(COIN))
	assert.Equal(t, "1.5", NewAmount(1, 500000000000000000).String())
}

func TestParseAmount(t *testing.T) {
	c, err := ParseAmount("10000.00121454")
	require.NoError(t, err)
	assert.Equal(t, "10000.00121454", c.String())

	c, err = ParseAmount("0.05")
	require.NoError(t, err)
	assert.Equal(t, "50000000000000000", c.Int.String())

	c, err = ParseAmount("123456789012345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", c.String())

	for _, bad := range []string{"", "abc", "-1", "1.", "1.0000000000000000001", "1.2.3", "1.-5", "1.+5", "+1", "1. 5", ".5"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmountFormat, bad)
	}
}

func TestAmountJSON(t *testing.T) {
	bs, err := json.Marshal(NewAmount(2, 250000000000000000))
	require.NoError(t, err)
	assert.Equal(t, `"2.25"`, string(bs))

	var am Amount
	require.NoError(t, json.Unmarshal(bs, &am))
	assert.True(t, am.Equal(NewAmount(2, 250000000000000000)))

	assert.Error(t, json.Unmarshal([]byte(`2`), &am))
}

func TestClonedAmountIsIndependent(t *testing.T) {
	a := NewAmount(1, 0)
	b := a.Clone()
	b.Int.SetInt64(7)
	assert.True(t, a.Equal(COIN))
	assert.False(t, NewAmountFromBig(nil).Less(NewAmount(0, 0)))
	assert.True(t, NewAmountFromBytes(big.NewInt(5).Bytes()).Equal(NewAmount(0, 5)))
}

func TestFormatPrintsFloatString(t *testing.T) {
	am := NewAmount(2, 0)
	assert.Equal(t, "2", fmt.Sprintf("%s", am))
	assert.Equal(t, "paid 2", fmt.Sprintf("paid %v", am))
	assert.Equal(t, "2000000000000000000", fmt.Sprintf("%d", am))
	assert.Equal(t, "-0.5", fmt.Sprintf("%s", NewAmount(0, 0).Sub(MustParseAmount("0.5"))))
}
