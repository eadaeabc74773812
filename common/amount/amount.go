package amount

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// COIN is 1 coin
var COIN = NewAmount(1, 0)

// FractionalCount represent the number of under the float point
const FractionalCount = 18

// errors
var (
	ErrInvalidAmountFormat = errors.New("invalid amount format")
)

var (
	zeroInt       = big.NewInt(0)
	fractionalMax = new(big.Int).Exp(big.NewInt(10), big.NewInt(FractionalCount), nil)
)

// Amount is the precision float value based on the big.Int
type Amount struct {
	*big.Int
}

func newAmount(value int64) *Amount {
	return &Amount{
		Int: big.NewInt(value),
	}
}

// NewAmount returns the amount that is consisted of the integer and the fractional value
// NewAmount(10, 0) is the same value as ethers.utils.parseEther("10")
func NewAmount(i uint64, f uint64) *Amount {
	c := newAmount(0)
	c.Int.SetUint64(i)
	c.Int.Mul(c.Int, fractionalMax)
	c.Int.Add(c.Int, new(big.Int).SetUint64(f))
	return c
}

// NewAmountFromBig wraps a copy of the big.Int
func NewAmountFromBig(b *big.Int) *Amount {
	c := newAmount(0)
	if b != nil {
		c.Int.Set(b)
	}
	return c
}

// NewAmountFromBytes parse the amount from the byte array
func NewAmountFromBytes(bs []byte) *Amount {
	b := newAmount(0)
	b.Int.SetBytes(bs)
	return b
}

// MarshalJSON is a marshaler function
func (am *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + am.String() + `"`), nil
}

// UnmarshalJSON is a unmarshaler function
func (am *Amount) UnmarshalJSON(bs []byte) error {
	if len(bs) < 3 {
		return errors.WithStack(ErrInvalidAmountFormat)
	}
	if bs[0] != '"' || bs[len(bs)-1] != '"' {
		return errors.WithStack(ErrInvalidAmountFormat)
	}
	v, err := ParseAmount(string(bs[1 : len(bs)-1]))
	if err != nil {
		return err
	}
	am.Int = v.Int
	return nil
}

// Clone returns the clonend value of it
func (am *Amount) Clone() *Amount {
	c := newAmount(0)
	c.Int.Set(am.Int)
	return c
}

// Add returns a + b (*immutable)
func (am *Amount) Add(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Add(am.Int, b.Int)
	return c
}

// Sub returns a - b (*immutable)
func (am *Amount) Sub(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Sub(am.Int, b.Int)
	return c
}

// DivC returns a / b (*immutable)
func (am *Amount) DivC(b int64) *Amount {
	c := newAmount(0)
	c.Int.Div(am.Int, big.NewInt(b))
	return c
}

// MulC returns a * b (*immutable)
func (am *Amount) MulC(b int64) *Amount {
	c := newAmount(0)
	c.Int.Mul(am.Int, big.NewInt(b))
	return c
}

// IsZero returns a == 0
func (am *Amount) IsZero() bool {
	return am.Int.Cmp(zeroInt) == 0
}

// Less returns a < b
func (am *Amount) Less(b *Amount) bool {
	return am.Int.Cmp(b.Int) < 0
}

// Equal checks that two values is same or not
func (am *Amount) Equal(b *Amount) bool {
	return am.Int.Cmp(b.Int) == 0
}

// String returns the float string of the amount
func (am *Amount) String() string {
	if am.IsZero() {
		return "0"
	}
	neg := am.Int.Sign() < 0
	str := new(big.Int).Abs(am.Int).String()
	var out string
	if len(str) <= FractionalCount {
		out = "0." + formatFractional(str)
	} else {
		si := str[:len(str)-FractionalCount]
		sf := strings.TrimRight(str[len(str)-FractionalCount:], "0")
		if len(sf) > 0 {
			out = si + "." + sf
		} else {
			out = si
		}
	}
	if neg {
		return "-" + out
	}
	return out
}

// Format prints the float string for %s and %v, other verbs print the raw integer
func (am *Amount) Format(s fmt.State, ch rune) {
	switch ch {
	case 's', 'v':
		fmt.Fprint(s, am.String())
	default:
		am.Int.Format(s, ch)
	}
}

// ParseAmount parse the amount from the float string
func ParseAmount(str string) (*Amount, error) {
	ls := strings.SplitN(str, ".", 2)
	if !isDigits(ls[0]) {
		return nil, errors.WithStack(ErrInvalidAmountFormat)
	}
	pi, ok := new(big.Int).SetString(ls[0], 10)
	if !ok {
		return nil, errors.WithStack(ErrInvalidAmountFormat)
	}
	c := newAmount(0)
	c.Int.Mul(pi, fractionalMax)
	if len(ls) == 2 {
		if len(ls[1]) > FractionalCount || !isDigits(ls[1]) {
			return nil, errors.WithStack(ErrInvalidAmountFormat)
		}
		pf, ok := new(big.Int).SetString(padFractional(ls[1]), 10)
		if !ok {
			return nil, errors.WithStack(ErrInvalidAmountFormat)
		}
		c.Int.Add(c.Int, pf)
	}
	return c, nil
}

// MustParseAmount parse the amount from the float string
func MustParseAmount(str string) *Amount {
	am, err := ParseAmount(str)
	if err != nil {
		panic(err)
	}
	return am
}
