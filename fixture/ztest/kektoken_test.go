package test

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/meverselabs/kekfork/fixture"
	"github.com/meverselabs/kekfork/verify"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("KekToken/Aave pair", func() {

	Describe("KekToken", func() {
		It("mints initial supply to owner", func() {
			fx := loadFixture()

			total, err := fx.Token.TotalSupply(ctx)
			Expect(err).To(Succeed())
			owner, err := fx.Token.BalanceOf(ctx, fx.Owner)
			Expect(err).To(Succeed())
			Expect(total).To(Equal(new(big.Int).Add(owner, fixture.LiquiditySupply.Int)))
			Expect(verify.Supply(ctx, fx)).To(Succeed())
		})

		It("moves liquidity supply to pair", func() {
			fx := loadFixture()

			Expect(fx.Pair.Address).NotTo(Equal(common.Address{}))
			rs, err := fx.Pair.GetReserves(ctx)
			Expect(err).To(Succeed())
			Expect(rs.Reserve0.Cmp(fixture.LiquiditySupply.Int)).To(Equal(0))
			Expect(rs.Reserve1.Cmp(fixture.LiquiditySupply.Int)).To(Equal(0))

			kek, err := fx.Pair.ReserveOf(ctx, fx.Token.Address)
			Expect(err).To(Succeed())
			Expect(kek.Cmp(fixture.LiquiditySupply.Int)).To(Equal(0))
		})
	})

	Describe("Aave", func() {
		It("owner of KekToken has no Aave prior to swap", func() {
			fx := loadFixture()

			bal, err := fx.Aave.BalanceOf(ctx, fx.Owner)
			Expect(err).To(Succeed())
			Expect(bal.Sign()).To(Equal(0))
		})
	})

	Describe("Swap", func() {
		It("swaps KekToken for Aave", func() {
			fx := loadFixture()

			res, err := verify.Swap(ctx, ch, fx, fixture.Exchanged)
			Expect(err).To(Succeed())
			Expect(verify.SwapDelta(res)).To(Succeed())
			Expect(res.KekBefore.Sub(res.KekAfter).Equal(fixture.Exchanged)).To(BeTrue())
			Expect(res.AaveAfter.Less(res.AmountOutMin)).To(BeFalse())
		})

		It("restores the pair for the next load", func() {
			fx := loadFixture()

			Expect(verify.Reserves(ctx, fx)).To(Succeed())
			Expect(verify.NoAave(ctx, fx)).To(Succeed())
		})
	})
})
