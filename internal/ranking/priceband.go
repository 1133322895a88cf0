package ranking

// Fixed price discretization used by the preference profile and the
// attribute-match scorer. Prices are minor-unit integers (yen).
const (
	PriceBandUnder3k = "p_lt_3k"
	PriceBand3to8k   = "p_3_8k"
	PriceBand8to15k  = "p_8_15k"
	PriceBand15to30k = "p_15_30k"
	PriceBandOver30k = "p_gte_30k"
	PriceBandUnknown = "unknown"
)

func PriceBand(price int) string {
	switch {
	case price <= 0:
		return PriceBandUnknown
	case price < 3000:
		return PriceBandUnder3k
	case price < 8000:
		return PriceBand3to8k
	case price < 15000:
		return PriceBand8to15k
	case price < 30000:
		return PriceBand15to30k
	default:
		return PriceBandOver30k
	}
}
