package formula_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/xyk/x/xyk/formula"
)

func TestCalculateOutGivenIn(t *testing.T) {
	tests := []struct {
		name       string
		reserveIn  int64
		reserveOut int64
		amountIn   int64
		want       int64
		wantErr    error
	}{
		{name: "1000/2000 pool sells 100", reserveIn: 1000, reserveOut: 2000, amountIn: 100, want: 181},
		{name: "zero amount", reserveIn: 1000, reserveOut: 2000, amountIn: 0, want: 0},
		{name: "empty pool", reserveIn: 0, reserveOut: 0, amountIn: 0, wantErr: formula.ErrZeroReserve},
		{name: "negative input", reserveIn: 1000, reserveOut: 2000, amountIn: -1, wantErr: formula.ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formula.CalculateOutGivenIn(sdkmath.NewInt(tt.reserveIn), sdkmath.NewInt(tt.reserveOut), sdkmath.NewInt(tt.amountIn))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, sdkmath.NewInt(tt.want), got)
		})
	}
}

func TestCalculateInGivenOut(t *testing.T) {
	got, err := formula.CalculateInGivenOut(sdkmath.NewInt(2000), sdkmath.NewInt(1000), sdkmath.NewInt(181))
	require.NoError(t, err)
	// 1000*181/1819 = 99.505..., rounded up
	require.Equal(t, sdkmath.NewInt(100), got)

	got, err = formula.CalculateInGivenOut(sdkmath.NewInt(2000), sdkmath.NewInt(1000), sdkmath.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1000), got)

	_, err = formula.CalculateInGivenOut(sdkmath.NewInt(2000), sdkmath.NewInt(1000), sdkmath.NewInt(2000))
	require.ErrorIs(t, err, formula.ErrInsufficientReserve)
}

func TestCalculateLiquidityIn(t *testing.T) {
	got, err := formula.CalculateLiquidityIn(sdkmath.NewInt(1000), sdkmath.NewInt(2000), sdkmath.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(200), got)

	got, err = formula.CalculateLiquidityIn(sdkmath.NewInt(3), sdkmath.NewInt(10), sdkmath.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(3), got, "required deposit rounds down")

	_, err = formula.CalculateLiquidityIn(sdkmath.ZeroInt(), sdkmath.NewInt(10), sdkmath.NewInt(1))
	require.ErrorIs(t, err, formula.ErrZeroReserve)
}

func TestCalculateLiquidityOut(t *testing.T) {
	a, b, err := formula.CalculateLiquidityOut(sdkmath.NewInt(1000), sdkmath.NewInt(2000), sdkmath.NewInt(333), sdkmath.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(333), a)
	require.Equal(t, sdkmath.NewInt(666), b)

	_, _, err = formula.CalculateLiquidityOut(sdkmath.NewInt(1000), sdkmath.NewInt(2000), sdkmath.NewInt(1001), sdkmath.NewInt(1000))
	require.ErrorIs(t, err, formula.ErrInsufficientReserve)

	_, _, err = formula.CalculateLiquidityOut(sdkmath.NewInt(1000), sdkmath.NewInt(2000), sdkmath.NewInt(1), sdkmath.ZeroInt())
	require.ErrorIs(t, err, formula.ErrZeroReserve)
}

func TestCalculateSpotPrice(t *testing.T) {
	got, err := formula.CalculateSpotPrice(sdkmath.NewInt(1000), sdkmath.NewInt(2000), sdkmath.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(14), got)

	_, err = formula.CalculateSpotPrice(sdkmath.ZeroInt(), sdkmath.NewInt(2000), sdkmath.NewInt(7))
	require.ErrorIs(t, err, formula.ErrZeroReserve)

	// an empty quote side prices everything at zero
	got, err = formula.CalculateSpotPrice(sdkmath.NewInt(1000), sdkmath.ZeroInt(), sdkmath.NewInt(7))
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestMulPrice(t *testing.T) {
	got, err := formula.MulPrice(sdkmath.NewInt(1000), sdkmath.LegacyNewDec(2))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(2000), got)

	got, err = formula.MulPrice(sdkmath.NewInt(3), sdkmath.LegacyNewDecWithPrec(5, 1))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1), got)

	_, err = formula.MulPrice(formula.MaxBalance, sdkmath.LegacyNewDec(2))
	require.ErrorIs(t, err, formula.ErrOverflow)
}

func TestCheckedArithmetic(t *testing.T) {
	_, err := formula.CheckedAdd(formula.MaxBalance, sdkmath.OneInt())
	require.ErrorIs(t, err, formula.ErrOverflow)

	sum, err := formula.CheckedAdd(sdkmath.NewInt(2), sdkmath.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(5), sum)

	_, err = formula.CheckedSub(sdkmath.NewInt(2), sdkmath.NewInt(3))
	require.ErrorIs(t, err, formula.ErrInsufficientReserve)

	_, err = formula.MulDiv(sdkmath.NewInt(2), sdkmath.NewInt(3), sdkmath.ZeroInt())
	require.ErrorIs(t, err, formula.ErrZeroReserve)
}

func TestOutGivenInNeverDrainsPool(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := sdkmath.NewInt(rapid.Int64Range(1, 1<<50).Draw(t, "reserveIn"))
		reserveOut := sdkmath.NewInt(rapid.Int64Range(1, 1<<50).Draw(t, "reserveOut"))
		amountIn := sdkmath.NewInt(rapid.Int64Range(0, 1<<50).Draw(t, "amountIn"))

		out, err := formula.CalculateOutGivenIn(reserveIn, reserveOut, amountIn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.GTE(reserveOut) {
			t.Fatalf("output %s drains reserve %s", out, reserveOut)
		}

		// k never decreases
		before := reserveIn.Mul(reserveOut)
		after := reserveIn.Add(amountIn).Mul(reserveOut.Sub(out))
		if after.LT(before) {
			t.Fatalf("constant product decreased: %s -> %s", before, after)
		}
	})
}

func TestInGivenOutCoversOutGivenIn(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := sdkmath.NewInt(rapid.Int64Range(1, 1<<40).Draw(t, "reserveIn"))
		reserveOut := sdkmath.NewInt(rapid.Int64Range(2, 1<<40).Draw(t, "reserveOut"))
		amountOut := sdkmath.NewInt(rapid.Int64Range(1, reserveOut.Int64()-1).Draw(t, "amountOut"))

		in, err := formula.CalculateInGivenOut(reserveOut, reserveIn, amountOut)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// paying the quoted input must yield at least the requested output
		out, err := formula.CalculateOutGivenIn(reserveIn, reserveOut, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.LT(amountOut) {
			t.Fatalf("quoted input %s only buys %s, wanted %s", in, out, amountOut)
		}
	})
}
