package feeds

import "strings"

// excludedBaseSymbols lists stablecoins and wrapped majors that are never
// interesting as the base token of a feed entry. Comparison is
// case-insensitive on the upper-cased symbol.
var excludedBaseSymbols = map[string]struct{}{
	"USDT": {}, "USDC": {}, "BUSD": {}, "DAI": {}, "TUSD": {}, "USDP": {},
	"USDD": {}, "FRAX": {}, "LUSD": {}, "GUSD": {}, "SUSD": {}, "CUSD": {},
	"MIM": {}, "DOLA": {}, "FEI": {}, "UST": {}, "HUSD": {}, "USDJ": {},
	"WETH": {}, "WBTC": {}, "WBNB": {}, "WSOL": {}, "WMATIC": {},
	"WAVAX": {}, "WFTM": {},
}

// IsExcludedBaseSymbol reports whether symbol is a stablecoin or wrapped
// major that feeds filter out.
func IsExcludedBaseSymbol(symbol string) bool {
	_, ok := excludedBaseSymbols[strings.ToUpper(symbol)]
	return ok
}
