package services

// Static pricing-region sets. Algeria is deliberately absent from the
// Africa set: it is a first-class market with its own DZD tier.

var eurozoneCountries = map[string]bool{
	"AT": true, "BE": true, "CY": true, "DE": true, "EE": true,
	"ES": true, "FI": true, "FR": true, "GR": true, "HR": true,
	"IE": true, "IT": true, "LT": true, "LU": true, "LV": true,
	"MT": true, "NL": true, "PT": true, "SI": true, "SK": true,
}

var africaCountries = map[string]bool{
	"AO": true, "BF": true, "BI": true, "BJ": true, "BW": true,
	"CD": true, "CF": true, "CG": true, "CI": true, "CM": true,
	"CV": true, "DJ": true, "EG": true, "ER": true, "ET": true,
	"GA": true, "GH": true, "GM": true, "GN": true, "GQ": true,
	"GW": true, "KE": true, "KM": true, "LR": true, "LS": true,
	"LY": true, "MA": true, "MG": true, "ML": true, "MR": true,
	"MU": true, "MW": true, "MZ": true, "NA": true, "NE": true,
	"NG": true, "RW": true, "SC": true, "SD": true, "SL": true,
	"SN": true, "SO": true, "SS": true, "ST": true, "SZ": true,
	"TD": true, "TG": true, "TN": true, "TZ": true, "UG": true,
	"ZA": true, "ZM": true, "ZW": true,
}
