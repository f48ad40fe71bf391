package instruments

import (
	"strings"

	"github.com/aristath/advisor/internal/modules/allocation"
)

// stocksBySector is the NSE stock catalog, keyed by sector tag.
var stocksBySector = map[string][]Candidate{
	"IT": {
		{Name: "TCS", Symbol: "TCS.NS", Sector: "IT", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Infosys", Symbol: "INFY.NS", Sector: "IT", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Wipro", Symbol: "WIPRO.NS", Sector: "IT", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "HCL Technologies", Symbol: "HCLTECH.NS", Sector: "IT", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Tech Mahindra", Symbol: "TECHM.NS", Sector: "IT", Risk: "high", Category: allocation.CategoryStocks},
	},
	"Banking": {
		{Name: "HDFC Bank", Symbol: "HDFCBANK.NS", Sector: "Banking", Risk: "low", Category: allocation.CategoryStocks},
		{Name: "ICICI Bank", Symbol: "ICICIBANK.NS", Sector: "Banking", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Axis Bank", Symbol: "AXISBANK.NS", Sector: "Banking", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Kotak Mahindra Bank", Symbol: "KOTAKBANK.NS", Sector: "Banking", Risk: "low", Category: allocation.CategoryStocks},
		{Name: "State Bank of India", Symbol: "SBIN.NS", Sector: "Banking", Risk: "medium", Category: allocation.CategoryStocks},
	},
	"FMCG": {
		{Name: "HUL", Symbol: "HINDUNILVR.NS", Sector: "FMCG", Risk: "low", Category: allocation.CategoryStocks},
		{Name: "ITC", Symbol: "ITC.NS", Sector: "FMCG", Risk: "low", Category: allocation.CategoryStocks},
		{Name: "Nestle India", Symbol: "NESTLEIND.NS", Sector: "FMCG", Risk: "low", Category: allocation.CategoryStocks},
		{Name: "Dabur", Symbol: "DABUR.NS", Sector: "FMCG", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Britannia", Symbol: "BRITANNIA.NS", Sector: "FMCG", Risk: "medium", Category: allocation.CategoryStocks},
	},
	"Pharma": {
		{Name: "Sun Pharma", Symbol: "SUNPHARMA.NS", Sector: "Pharma", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Dr Reddy's", Symbol: "DRREDDY.NS", Sector: "Pharma", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Cipla", Symbol: "CIPLA.NS", Sector: "Pharma", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Divis Labs", Symbol: "DIVISLAB.NS", Sector: "Pharma", Risk: "high", Category: allocation.CategoryStocks},
		{Name: "Aurobindo Pharma", Symbol: "AUROPHARMA.NS", Sector: "Pharma", Risk: "high", Category: allocation.CategoryStocks},
	},
	"Energy": {
		{Name: "Reliance Industries", Symbol: "RELIANCE.NS", Sector: "Energy", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "ONGC", Symbol: "ONGC.NS", Sector: "Energy", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "NTPC", Symbol: "NTPC.NS", Sector: "Energy", Risk: "low", Category: allocation.CategoryStocks},
		{Name: "Power Grid", Symbol: "POWERGRID.NS", Sector: "Energy", Risk: "low", Category: allocation.CategoryStocks},
		{Name: "Adani Green Energy", Symbol: "ADANIGREEN.NS", Sector: "Energy", Risk: "high", Category: allocation.CategoryStocks},
	},
	"Auto": {
		{Name: "Maruti Suzuki", Symbol: "MARUTI.NS", Sector: "Auto", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Tata Motors", Symbol: "TATAMOTORS.NS", Sector: "Auto", Risk: "high", Category: allocation.CategoryStocks},
		{Name: "Mahindra & Mahindra", Symbol: "M&M.NS", Sector: "Auto", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Bajaj Auto", Symbol: "BAJAJ-AUTO.NS", Sector: "Auto", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Hero MotoCorp", Symbol: "HEROMOTOCO.NS", Sector: "Auto", Risk: "medium", Category: allocation.CategoryStocks},
	},
	"Health": {
		{Name: "Apollo Hospitals", Symbol: "APOLLOHOSP.NS", Sector: "Health", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Fortis Healthcare", Symbol: "FORTIS.NS", Sector: "Health", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Max Healthcare", Symbol: "MAXHEALTH.NS", Sector: "Health", Risk: "medium", Category: allocation.CategoryStocks},
		{Name: "Metropolis Healthcare", Symbol: "METROPOLIS.NS", Sector: "Health", Risk: "high", Category: allocation.CategoryStocks},
		{Name: "Dr Lal PathLabs", Symbol: "LALPATHLAB.NS", Sector: "Health", Risk: "high", Category: allocation.CategoryStocks},
	},
}

// diversifiedFallback is always included in stock selections so that a
// sector-concentrated request still carries one broad holding.
var diversifiedFallback = Candidate{
	Name: "Reliance Industries", Symbol: "RELIANCE.NS", Sector: "Energy",
	Risk: "medium", Tag: "Diversified", Category: allocation.CategoryStocks,
}

// defaultStockPicks is the curated subset used when no sector preference is
// given: one large cap per major sector.
var defaultStockPicks = []Candidate{
	{Name: "Reliance Industries", Symbol: "RELIANCE.NS", Sector: "Energy", Risk: "medium", Category: allocation.CategoryStocks},
	{Name: "TCS", Symbol: "TCS.NS", Sector: "IT", Risk: "medium", Category: allocation.CategoryStocks},
	{Name: "HDFC Bank", Symbol: "HDFCBANK.NS", Sector: "Banking", Risk: "low", Category: allocation.CategoryStocks},
	{Name: "ITC", Symbol: "ITC.NS", Sector: "FMCG", Risk: "low", Category: allocation.CategoryStocks},
}

// mutualFunds is the recurring-plan catalog. Symbols are AMFI scheme codes
// used against the NAV registry feed.
var mutualFunds = []Candidate{
	{Name: "HDFC Balanced Advantage Fund", Symbol: "118968", Risk: "low", Tag: "Hybrid", Category: allocation.CategoryMutualFunds},
	{Name: "ICICI Prudential Balanced Advantage Fund", Symbol: "120251", Risk: "low", Tag: "Hybrid", Category: allocation.CategoryMutualFunds},
	{Name: "SBI Bluechip Fund", Symbol: "103504", Risk: "medium", Tag: "Largecap", Category: allocation.CategoryMutualFunds},
	{Name: "Mirae Asset Large Cap Fund", Symbol: "118825", Risk: "medium", Tag: "Largecap", Category: allocation.CategoryMutualFunds},
	{Name: "Axis Midcap Fund", Symbol: "120505", Risk: "high", Tag: "Midcap", Category: allocation.CategoryMutualFunds},
	{Name: "Nippon India Small Cap Fund", Symbol: "118778", Risk: "high", Tag: "Smallcap", Category: allocation.CategoryMutualFunds},
}

// etfs is the exchange-traded fund catalog.
var etfs = []Candidate{
	{Name: "Nippon India Nifty 50 BeES", Symbol: "NIFTYBEES.NS", Risk: "medium", Tag: "Index", Category: allocation.CategoryETFs},
	{Name: "Nippon India Junior BeES", Symbol: "JUNIORBEES.NS", Risk: "medium", Tag: "Index", Category: allocation.CategoryETFs},
	{Name: "Nippon India Bank BeES", Symbol: "BANKBEES.NS", Risk: "high", Tag: "Sector", Category: allocation.CategoryETFs},
	{Name: "Nippon India Gold BeES", Symbol: "GOLDBEES.NS", Risk: "low", Tag: "Commodity", Category: allocation.CategoryETFs},
}

// sectorAliases maps user-facing sector spellings to catalog sector tags.
// "Healthcare" deliberately covers both hospitals and pharma.
var sectorAliases = map[string][]string{
	"it":         {"IT"},
	"tech":       {"IT"},
	"technology": {"IT"},
	"banking":    {"Banking"},
	"bank":       {"Banking"},
	"finance":    {"Banking"},
	"fmcg":       {"FMCG"},
	"consumer":   {"FMCG"},
	"pharma":     {"Pharma"},
	"healthcare": {"Health", "Pharma"},
	"health":     {"Health"},
	"energy":     {"Energy"},
	"oil":        {"Energy"},
	"power":      {"Energy"},
	"auto":       {"Auto"},
	"automobile": {"Auto"},
}

// riskCompatibility maps a user risk tier to the instrument risk tags it
// accepts for recurring-plan instruments.
var riskCompatibility = map[string][]string{
	"low":    {"low", "medium"},
	"medium": {"low", "medium", "high"},
	"high":   {"medium", "high"},
}

// ResolveSectors translates user sector preferences to catalog sector tags,
// de-duplicated, preserving request order. Unknown sectors are dropped.
func ResolveSectors(prefs []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range prefs {
		tags, ok := sectorAliases[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			continue
		}
		for _, tag := range tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}

// StocksForSectors returns stock candidates covering the requested sectors:
// at least one representative per sector, plus the diversified fallback.
// With no sector preference the default curated picks are returned.
func StocksForSectors(sectorPrefs []string) []Candidate {
	sectors := ResolveSectors(sectorPrefs)
	if len(sectors) == 0 {
		return defaultStockPicks
	}

	seen := make(map[string]bool)
	var out []Candidate
	for _, sector := range sectors {
		picks := stocksBySector[sector]
		// Two names per sector keeps single-sector requests from
		// concentrating in one stock.
		limit := 2
		if len(picks) < limit {
			limit = len(picks)
		}
		for _, c := range picks[:limit] {
			if !seen[c.Symbol] {
				seen[c.Symbol] = true
				out = append(out, c)
			}
		}
	}

	if !seen[diversifiedFallback.Symbol] {
		out = append(out, diversifiedFallback)
	}

	return out
}

// FundsForRisk returns the recurring-plan candidates compatible with the
// user's risk tier. An unknown tier falls back to medium.
func FundsForRisk(risk string) []Candidate {
	accepted, ok := riskCompatibility[strings.ToLower(risk)]
	if !ok {
		accepted = riskCompatibility["medium"]
	}

	acceptedSet := make(map[string]bool, len(accepted))
	for _, r := range accepted {
		acceptedSet[r] = true
	}

	var out []Candidate
	for _, f := range mutualFunds {
		if acceptedSet[f.Risk] {
			out = append(out, f)
		}
	}
	return out
}

// ETFPicks returns ETF candidates for the user's risk tier. The index core
// is always present; the sector and commodity satellites follow risk
// compatibility.
func ETFPicks(risk string) []Candidate {
	accepted, ok := riskCompatibility[strings.ToLower(risk)]
	if !ok {
		accepted = riskCompatibility["medium"]
	}

	acceptedSet := make(map[string]bool, len(accepted))
	for _, r := range accepted {
		acceptedSet[r] = true
	}

	var out []Candidate
	for i, e := range etfs {
		if i == 0 || acceptedSet[e.Risk] {
			out = append(out, e)
		}
	}
	return out
}
